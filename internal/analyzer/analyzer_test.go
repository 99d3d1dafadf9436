package analyzer

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"shortlist/internal/config"
	"shortlist/internal/types"

	"google.golang.org/genai"
)

func TestSkillSetFind(t *testing.T) {
	s := NewSkillSet([]string{"Python", "go", " docker ", "node.js", "python", ""})

	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 after dedup", s.Len())
	}

	got := s.Find("Senior Python engineer, Docker and NODE.JS")
	want := []string{"python", "docker", "node.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Find() = %v, want %v", got, want)
	}
}

func TestCompareSkills(t *testing.T) {
	matching, missing := CompareSkills(
		[]string{"python", "sql", "docker"},
		[]string{"kubernetes", "python", "aws", "docker", "python"},
	)

	if want := []string{"docker", "python"}; !reflect.DeepEqual(matching, want) {
		t.Errorf("matching = %v, want %v", matching, want)
	}
	if want := []string{"aws", "kubernetes"}; !reflect.DeepEqual(missing, want) {
		t.Errorf("missing = %v, want %v", missing, want)
	}

	matching, missing = CompareSkills(nil, nil)
	if matching == nil || missing == nil {
		t.Error("empty comparisons should return non-nil slices")
	}
}

func TestExtractExperience(t *testing.T) {
	text := "Summary. I have 5+ years of experience in backend systems. Also Experience of 3 years with Go."
	got := ExtractExperience(text, 10)

	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(got), got)
	}
	if got[0].Years != "5" {
		t.Errorf("first years = %q, want 5", got[0].Years)
	}
	if !strings.Contains(got[0].Context, "5+ years of experience") {
		t.Errorf("first context = %q", got[0].Context)
	}
	if got[1].Years != "3" {
		t.Errorf("second years = %q, want 3", got[1].Years)
	}
	if !strings.Contains(got[1].Context, "Experience of 3 years") {
		t.Errorf("second context should keep original case: %q", got[1].Context)
	}

	if entries := ExtractExperience("no numbers here", 50); len(entries) != 0 {
		t.Errorf("expected no entries, got %+v", entries)
	}
}

func TestExtractExperienceUnicodeSpacing(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"no-break space", "I have 5\u00a0years of\u00a0experience in Go", "5"},
		{"em space", "Experience of\u20037 years leading teams", "7"},
		{"full-width digits", "\uff11\uff12 years experience", "\uff11\uff12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractExperience(tt.text, 50)
			if len(got) != 1 {
				t.Fatalf("got %d entries, want 1: %+v", len(got), got)
			}
			if got[0].Years != tt.want {
				t.Errorf("years = %q, want %q", got[0].Years, tt.want)
			}
		})
	}
}

func TestTokenizeKeepsTechnicalTerms(t *testing.T) {
	got := Tokenize("C++, C# and Node.js; CI/CD -- ok")
	want := []string{"c++", "c#", "and", "node.js", "ci/cd", "--", "ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
}

func TestExtractExperienceContextWindow(t *testing.T) {
	text := strings.Repeat("x", 100) + "2 years experience" + strings.Repeat("y", 100)
	got := ExtractExperience(text, 50)
	if len(got) != 1 {
		t.Fatalf("got %d entries", len(got))
	}
	if want := 50 + len("2 years experience") + 50; len(got[0].Context) != want {
		t.Errorf("context length = %d, want %d", len(got[0].Context), want)
	}
}

func TestExtractEducation(t *testing.T) {
	text := "Jane Doe. Master of Science from Example University. Worked at Acme. PhD candidate. Studied at City College"
	got := ExtractEducation(text)

	want := []types.Education{
		{Text: "Master of Science from Example University", Degree: "master"},
		{Text: "PhD candidate", Degree: "phd"},
		{Text: "Studied at City College", Degree: "college"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEducation() = %+v, want %+v", got, want)
	}
}

func TestPreprocess(t *testing.T) {
	got := Preprocess("The candidate has built REST APIs with Node.js, C++ and CI/CD -- quickly!")
	want := "candidate built rest apis node.js c++ ci/cd quickly"
	if got != want {
		t.Errorf("Preprocess() = %q, want %q", got, want)
	}
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.72346, 72.35},
		{1.0000001, 100},
		{-0.2, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := MatchScore(tt.in); got != tt.want {
			t.Errorf("MatchScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float64{1, 0}, []float64{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors = %v, want 1", got)
	}
	if got := CosineSimilarity([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors = %v, want 0", got)
	}
	if got := CosineSimilarity([]float64{0, 0}, []float64{1, 1}); got != 0 {
		t.Errorf("zero vector = %v, want 0", got)
	}
	if got := CosineSimilarity([]float64{1}, []float64{1, 2}); got != 0 {
		t.Errorf("mismatched lengths = %v, want 0", got)
	}
}

func TestTFIDFEmbedder(t *testing.T) {
	e := NewTFIDFEmbedder()
	ctx := context.Background()

	a, b, err := e.EmbedPair(ctx, "go docker kubernetes", "go docker kubernetes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := MatchScore(CosineSimilarity(a, b)); got != 100 {
		t.Errorf("identical texts score = %v, want 100", got)
	}

	a, b, _ = e.EmbedPair(ctx, "go docker", "painting sculpture")
	if got := MatchScore(CosineSimilarity(a, b)); got != 0 {
		t.Errorf("disjoint texts score = %v, want 0", got)
	}

	a, b, _ = e.EmbedPair(ctx, "go docker sql", "go docker kubernetes")
	partial := MatchScore(CosineSimilarity(a, b))
	if partial <= 0 || partial >= 100 {
		t.Errorf("partial overlap score = %v, want between 0 and 100", partial)
	}
}

func TestNewEmbedderSelection(t *testing.T) {
	e, err := NewEmbedder(config.AnalyzerConfig{Embedder: EmbedderAuto}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Name() != EmbedderTFIDF {
		t.Errorf("auto without key = %s, want tfidf", e.Name())
	}

	if _, err := NewEmbedder(config.AnalyzerConfig{Embedder: EmbedderGemini}, nil); err == nil {
		t.Error("gemini without API key should fail")
	}
	if _, err := NewEmbedder(config.AnalyzerConfig{Embedder: "word2vec"}, nil); err == nil {
		t.Error("unknown embedder should fail")
	}
}

func TestServiceAnalyze(t *testing.T) {
	svc, err := newService(config.AnalyzerConfig{ContextChars: 50}, NewTFIDFEmbedder(), nil)
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	defer func() { _ = svc.Close() }()

	cv := "Jane Doe. Backend engineer with 6 years of experience in Python, Docker and SQL. Bachelor of Computer Science, Example University."
	jd := "We need a Python engineer who knows Docker and Kubernetes on AWS"

	result, err := svc.Analyze(context.Background(), types.Submission{
		JobDescription: jd,
		CV:             &types.CVFile{Name: "cv.txt", ContentType: types.ContentTypeText, Data: []byte(cv)},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.Score <= 0 || result.Score > 100 {
		t.Errorf("score = %v, want within (0, 100]", result.Score)
	}
	if want := []string{"docker", "python"}; !reflect.DeepEqual(result.MatchingSkills, want) {
		t.Errorf("matching = %v, want %v", result.MatchingSkills, want)
	}
	if want := []string{"aws", "kubernetes"}; !reflect.DeepEqual(result.MissingSkills, want) {
		t.Errorf("missing = %v, want %v", result.MissingSkills, want)
	}
	if len(result.Experience) != 1 || result.Experience[0].Years != "6" {
		t.Errorf("experience = %+v", result.Experience)
	}
	if len(result.Education) != 1 || result.Education[0].Degree != "bachelor" {
		t.Errorf("education = %+v", result.Education)
	}
	if result.CVText != cv || result.JDText != jd {
		t.Error("response should echo cv_text and jd_text")
	}
}

func TestServiceAnalyzeRejectsMissingInput(t *testing.T) {
	svc, _ := newService(config.AnalyzerConfig{}, NewTFIDFEmbedder(), nil)
	if _, err := svc.Analyze(context.Background(), types.Submission{JobDescription: "  "}); err == nil {
		t.Error("expected error for missing inputs")
	}
}

func TestServiceLoadsSkillsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.txt")
	if err := os.WriteFile(path, []byte("# custom\nrust\nelixir\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	svc, err := newService(config.AnalyzerConfig{SkillsFile: path}, NewTFIDFEmbedder(), nil)
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	if got := svc.skills.Skills(); !reflect.DeepEqual(got, []string{"rust", "elixir"}) {
		t.Errorf("skills = %v", got)
	}

	if _, err := newService(config.AnalyzerConfig{SkillsFile: filepath.Join(t.TempDir(), "missing.txt")}, NewTFIDFEmbedder(), nil); err == nil {
		t.Error("expected error for missing skills file")
	}
}

func TestSkillsWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.txt")
	if err := os.WriteFile(path, []byte("rust\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	skills := NewSkillSet([]string{"rust"})
	watcher := NewSkillsWatcher(path, skills, 10*time.Millisecond, nil)
	reloaded := make(chan int, 4)
	watcher.OnReload(func(count int) { reloaded <- count })

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = watcher.Stop() }()

	if err := watcher.Start(); err == nil {
		t.Error("second Start should fail")
	}

	// Replace atomically so the reload never sees a half-written file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("rust\nzig\ngleam\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(tmp, future, future); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case count := <-reloaded:
		if count != 3 {
			t.Errorf("reloaded %d skills, want 3", count)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if got := skills.Find("zig and gleam"); len(got) != 2 {
		t.Errorf("Find after reload = %v", got)
	}

	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if watcher.IsRunning() {
		t.Error("watcher should not be running after Stop")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"plain error", fmt.Errorf("empty embedding result"), false},
		{"rate limited", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}, true},
		{"unavailable", genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}, true},
		{"internal", genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}, true},
		{"wrapped unavailable", fmt.Errorf("embed: %w", genai.APIError{Code: http.StatusServiceUnavailable}), true},
		{"bad request", genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}, false},
		{"forbidden", genai.APIError{Code: http.StatusForbidden, Status: "PERMISSION_DENIED"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryBackoffIsCapped(t *testing.T) {
	if d := retryBackoff(10); d > 30*time.Second {
		t.Errorf("backoff %v exceeds cap", d)
	}
	if d := retryBackoff(1); d < time.Second {
		t.Errorf("first backoff %v below base delay", d)
	}
}
