package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"shortlist/internal/form"
	"shortlist/internal/formatters"
	"shortlist/internal/types"
)

//go:embed web/index.html web/static/app.js
var webFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	"score": formatters.FormatScore,
}).ParseFS(webFS, "web/index.html"))

// pageData is what index.html renders
type pageData struct {
	View             form.View
	JobDescription   string
	MissingMessage   string
	AnalysisEndpoint string
}

// viewResponse is the JSON rendering of a form.View
type viewResponse struct {
	State    string                `json:"state"`
	Busy     bool                  `json:"busy"`
	Result   *types.AnalysisResult `json:"result,omitempty"`
	Error    string                `json:"error,omitempty"`
	FileName string                `json:"file_name,omitempty"`
}

// indexHandler renders the empty form
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.renderView(w, false, form.View{State: form.StateIdle}, "", http.StatusOK)
}

// staticHandler serves the page script
func (s *Server) staticHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/static/app.js" {
		http.NotFound(w, r)
		return
	}
	data, err := webFS.ReadFile("web/static/app.js")
	if err != nil {
		http.Error(w, "Failed to load script", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(data)
}

// renderView writes the form state as HTML or JSON. The HTML page refills
// the job description so it survives every re-render.
func (s *Server) renderView(w http.ResponseWriter, asJSON bool, view form.View, jobDescription string, status int) {
	if asJSON {
		writeJSON(w, viewResponse{
			State:    view.State.String(),
			Busy:     view.Busy,
			Result:   view.Result,
			Error:    view.Error,
			FileName: view.FileName,
		}, status)
		return
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		View:             view,
		JobDescription:   jobDescription,
		MissingMessage:   form.MissingInputMessage,
		AnalysisEndpoint: s.AnalysisEndpoint,
	})
	if err != nil {
		s.Logger.LogError(err, "Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
