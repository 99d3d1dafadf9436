package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"shortlist/internal/errors"
	"shortlist/internal/form"
	"shortlist/internal/observability"
	"shortlist/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// Multipart field names shared by the form page and the analysis API
const (
	fieldJobDescription = "jd"
	fieldCV             = "cv"
)

// multipartMemory is how much of an upload is buffered in memory before spilling to disk
const multipartMemory = 10 << 20

// createSubmitHandler handles the form page submission
func (s *Server) createSubmitHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		tracer := om.Tracer("shortlist.web")
		ctx, span := tracer.Start(ctx, "web.submit")
		defer span.End()

		metrics := om.GetMetrics()
		wantsJSON := acceptsJSON(r)

		sub, err := parseSubmission(r)
		if err != nil && !stderrors.Is(err, http.ErrMissingFile) {
			span.RecordError(err)
			s.Logger.Warn("Failed to parse submission", "error", err, "request_id", r.Header.Get(RequestIDHeader))
			s.renderView(w, wantsJSON, form.View{State: form.StateIdle, Error: form.MissingInputMessage},
				sub.JobDescription, statusForParseError(err))
			return
		}

		// The page only offers PDFs; anything else is treated as no file
		if sub.CV != nil && !sub.CV.IsPDF() {
			s.Logger.Info("Rejected non-PDF upload", "file_name", sub.CV.Name, "content_type", sub.CV.ContentType)
			sub.CV = nil
		}

		controller := form.NewController(s.Analyzer, s.Logger.With("request_id", r.Header.Get(RequestIDHeader)))

		submitErr := metrics.TrackAnalysis(ctx, "remote", func(ctx context.Context) *observability.AnalysisOperationResult {
			result := &observability.AnalysisOperationResult{Error: controller.Submit(ctx, sub)}
			if sub.CV != nil {
				result.CVSize = int64(len(sub.CV.Data))
			}
			if view := controller.View(); view.Result != nil {
				result.Score = view.Result.Score
			}
			return result
		}, om)

		view := controller.View()
		status := http.StatusOK
		switch {
		case stderrors.Is(submitErr, form.ErrMissingInput):
			status = http.StatusBadRequest
			metrics.RecordBusinessMetric(ctx, observability.MetricValidationRejection, false, om,
				attribute.String("surface", "web"))
		case submitErr != nil:
			status = http.StatusBadGateway
			metrics.RecordBusinessMetric(ctx, observability.MetricAnalysisFailure, false, om,
				attribute.String("surface", "web"))
		}
		metrics.RecordBusinessMetric(ctx, observability.MetricSubmission, submitErr == nil, om,
			attribute.String("surface", "web"),
			attribute.String("state", view.State.String()))

		span.SetAttributes(
			attribute.String("form.state", view.State.String()),
			attribute.Int("request.jd_length", len(sub.JobDescription)),
		)

		s.renderView(w, wantsJSON, view, sub.JobDescription, status)
	}
}

// createAnalyzeAPIHandler handles POST /api/analyze
func (s *Server) createAnalyzeAPIHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		tracer := om.Tracer("shortlist.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		metrics := om.GetMetrics()

		sub, err := parseSubmission(r)
		if err != nil && !stderrors.Is(err, http.ErrMissingFile) {
			span.RecordError(err)
			status := statusForParseError(err)
			if status == http.StatusBadRequest {
				status = http.StatusUnprocessableEntity
			}
			writeErrorResponse(w, "Invalid request body", err.Error(), status)
			return
		}

		if missing := missingFields(sub); len(missing) > 0 {
			metrics.RecordBusinessMetric(ctx, observability.MetricValidationRejection, false, om,
				attribute.String("surface", "api"))
			writeErrorResponse(w, "Missing required fields",
				fmt.Sprintf("field required: %s", strings.Join(missing, ", ")), http.StatusUnprocessableEntity)
			return
		}

		span.SetAttributes(
			attribute.Int("request.jd_length", len(sub.JobDescription)),
			attribute.Int("request.cv_size", len(sub.CV.Data)),
			attribute.String("request.cv_type", sub.CV.ContentType),
		)

		var result *types.AnalysisResult
		err = metrics.TrackAnalysis(ctx, "local", func(ctx context.Context) *observability.AnalysisOperationResult {
			var analyzeErr error
			result, analyzeErr = s.Analyzer.Analyze(ctx, sub)
			op := &observability.AnalysisOperationResult{Error: analyzeErr, CVSize: int64(len(sub.CV.Data))}
			if result != nil {
				op.Score = result.Score
			}
			return op
		}, om)

		if embedder, ok := s.Analyzer.(interface{ EmbedderName() string }); ok {
			metrics.RecordBusinessMetric(ctx, observability.MetricEmbeddingRequest, err == nil, om,
				attribute.String("embedder", embedder.EmbedderName()))
		}

		if err != nil {
			span.RecordError(err)
			s.Logger.LogError(err, "Analysis failed", "request_id", r.Header.Get(RequestIDHeader))
			metrics.RecordBusinessMetric(ctx, observability.MetricAnalysisFailure, false, om,
				attribute.String("surface", "api"))
			status, title := statusForAnalysisError(err)
			writeErrorResponse(w, title, publicMessage(err), status)
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricSubmission, true, om,
			attribute.String("surface", "api"))
		writeJSON(w, result, http.StatusOK)
	}
}

// createRateLimitMiddleware wraps rate limiting with a metric for each rejected request
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	return s.rateLimitMiddleware(func(r *http.Request) {
		om.GetMetrics().RecordBusinessMetric(r.Context(), observability.MetricRateLimitHit, true, om,
			attribute.String("endpoint", r.URL.Path),
			attribute.String("method", r.Method))
	})
}

// parseSubmission reads the jd field and the cv file from a multipart request.
// A missing file is reported as http.ErrMissingFile alongside the parsed text.
func parseSubmission(r *http.Request) (types.Submission, error) {
	var sub types.Submission
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return sub, err
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	sub.JobDescription = r.FormValue(fieldJobDescription)

	file, header, err := r.FormFile(fieldCV)
	if err != nil {
		return sub, err
	}
	defer func() { _ = file.Close() }()

	cv, err := readUpload(file, header)
	if err != nil {
		return sub, err
	}
	sub.CV = cv
	return sub, nil
}

func readUpload(file multipart.File, header *multipart.FileHeader) (*types.CVFile, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &types.CVFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// missingFields lists required multipart fields that are absent or blank
func missingFields(sub types.Submission) []string {
	var missing []string
	if sub.CV == nil {
		missing = append(missing, fieldCV)
	}
	if strings.TrimSpace(sub.JobDescription) == "" {
		missing = append(missing, fieldJobDescription)
	}
	return missing
}

func statusForParseError(err error) int {
	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// statusForAnalysisError maps analyzer errors onto HTTP statuses
func statusForAnalysisError(err error) (int, string) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError, "Analysis failed"
	}

	switch appErr.Code {
	case errors.ErrCodeUnsupportedFileType:
		return http.StatusUnsupportedMediaType, "Unsupported file type"
	case errors.ErrCodeMissingInput, errors.ErrCodeExtractionFailed:
		return http.StatusUnprocessableEntity, "Unprocessable document"
	}

	switch appErr.Type {
	case errors.ErrorTypeAI, errors.ErrorTypeNetwork:
		return http.StatusBadGateway, "Analysis failed"
	default:
		return http.StatusInternalServerError, "Analysis failed"
	}
}

// publicMessage returns the AppError message without its cause
func publicMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
