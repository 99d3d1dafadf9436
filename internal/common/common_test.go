package common

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shortlist/internal/errors"
	"shortlist/internal/form"
	"shortlist/internal/types"
)

type fakeAnalyzer struct {
	calls int
	got   types.Submission
	err   error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, sub types.Submission) (*types.AnalysisResult, error) {
	f.calls++
	f.got = sub
	if f.err != nil {
		return nil, f.err
	}
	return &types.AnalysisResult{Score: 88, MatchingSkills: []string{"go"}}, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSubmission(t *testing.T) {
	dir := t.TempDir()
	jd := writeFile(t, dir, "jd.txt", "Senior Go engineer")
	cv := writeFile(t, dir, "resume.pdf", "%PDF-1.4")

	sub, err := NewFileProcessor(nil).ReadSubmission(jd, cv, 0)
	if err != nil {
		t.Fatalf("ReadSubmission failed: %v", err)
	}
	if sub.JobDescription != "Senior Go engineer" {
		t.Errorf("JobDescription = %q", sub.JobDescription)
	}
	if sub.CV.Name != "resume.pdf" || sub.CV.ContentType != types.ContentTypePDF {
		t.Errorf("unexpected CV: %+v", sub.CV)
	}
}

func TestReadCVRejectsLargeFiles(t *testing.T) {
	dir := t.TempDir()
	cv := writeFile(t, dir, "resume.pdf", strings.Repeat("a", 100))

	_, err := NewFileProcessor(nil).ReadCV(cv, 10)
	if !errors.HasType(err, errors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestReadCVMissingFile(t *testing.T) {
	_, err := NewFileProcessor(nil).ReadCV(filepath.Join(t.TempDir(), "nope.pdf"), 0)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOutputHandlerWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	handler := NewOutputHandlerWithWriter(nil, &buf)

	err := handler.HandleOutput(&types.AnalysisResult{Score: 50}, CommandConfig{OutputFormat: "text"})
	if err != nil {
		t.Fatalf("HandleOutput failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Overall Match Score: 50%") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	err = handler.HandleOutput(&types.AnalysisResult{}, CommandConfig{OutputFormat: "xml"})
	if !errors.HasType(err, errors.ErrorTypeValidation) {
		t.Errorf("expected validation error for unknown format, got %v", err)
	}
}

func TestOutputHandlerWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "result.json")
	handler := NewOutputHandlerWithWriter(nil, &bytes.Buffer{})

	if err := handler.HandleOutput(&types.AnalysisResult{Score: 10}, CommandConfig{OutputFile: out, OutputFormat: "json"}); err != nil {
		t.Fatalf("HandleOutput failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.Contains(string(data), `"score": 10`) {
		t.Errorf("unexpected file content: %s", data)
	}
}

func TestRunAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	jd := writeFile(t, dir, "jd.txt", "Go developer")
	cv := writeFile(t, dir, "cv.pdf", "%PDF-1.4")
	out := filepath.Join(dir, "out.md")

	analyzer := &fakeAnalyzer{}
	logged := false
	err := RunAnalyzeCommand(context.Background(), errors.Discard(),
		CommandConfig{OutputFile: out, OutputFormat: "markdown"}, jd, cv, analyzer,
		func(jdFile, cvFile string, cfg CommandConfig) { logged = true })
	if err != nil {
		t.Fatalf("RunAnalyzeCommand failed: %v", err)
	}
	if !logged || analyzer.calls != 1 {
		t.Errorf("logged=%v calls=%d", logged, analyzer.calls)
	}
	if analyzer.got.JobDescription != "Go developer" {
		t.Errorf("analyzer got %q", analyzer.got.JobDescription)
	}

	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "**Overall Match Score:** 88%") {
		t.Errorf("unexpected output: %s", data)
	}
}

func TestRunAnalyzeCommandErrors(t *testing.T) {
	dir := t.TempDir()
	blank := writeFile(t, dir, "blank.txt", "  \n")
	jd := writeFile(t, dir, "jd.txt", "Go developer")
	cv := writeFile(t, dir, "cv.pdf", "%PDF-1.4")

	analyzer := &fakeAnalyzer{}
	err := RunAnalyzeCommand(context.Background(), nil, CommandConfig{OutputFormat: "json"}, blank, cv, analyzer, nil)
	if !stderrors.Is(err, form.ErrMissingInput) {
		t.Errorf("expected ErrMissingInput, got %v", err)
	}
	if analyzer.calls != 0 {
		t.Errorf("analyzer called %d times for missing input", analyzer.calls)
	}

	analyzer.err = fmt.Errorf("bad status: 503")
	err = RunAnalyzeCommand(context.Background(), nil, CommandConfig{OutputFormat: "json"}, jd, cv, analyzer, nil)
	if !stderrors.Is(err, form.ErrAnalysisFailed) {
		t.Errorf("expected ErrAnalysisFailed, got %v", err)
	}
	if strings.Contains(err.Error(), "503") {
		t.Errorf("cause leaked into error: %v", err)
	}
}
