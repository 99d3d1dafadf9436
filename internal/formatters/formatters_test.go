package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"shortlist/internal/types"
)

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		Score:          72.35,
		MatchingSkills: []string{"docker", "python"},
		MissingSkills:  []string{"kubernetes"},
		Experience:     []types.Experience{{Years: "6", Context: "6 years of experience with Python"}},
		Education:      []types.Education{{Text: "Bachelor of Engineering", Degree: "bachelor"}},
	}
}

func TestTextFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"Overall Match Score: 72.35%",
		"- docker\n- python\n",
		"=== MISSING SKILLS ===\n- kubernetes\n",
		"- 6 years of experience\n  6 years of experience with Python\n",
		"- BACHELOR\n  Bachelor of Engineering\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownFormatterAcceptsPointer(t *testing.T) {
	result := sampleResult()
	out, err := GlobalRegistry.Format(&result, "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"# CV Match Analysis",
		"**Overall Match Score:** 72.35%",
		"- `python`",
		"### 6 years of experience",
		"### BACHELOR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestEmptySectionsArePlaceholders(t *testing.T) {
	out, err := GlobalRegistry.Format(types.AnalysisResult{Score: 0}, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, want := range []string{"Overall Match Score: 0%", "None found", "No experience found", "No education found"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	result := sampleResult()
	result.Normalize()

	out, err := GlobalRegistry.Format(result, "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded types.AnalysisResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded.Score != 72.35 || decoded.Education[0].Degree != "bachelor" {
		t.Errorf("unexpected decoded result: %+v", decoded)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleResult(), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestGetSupportedFormats(t *testing.T) {
	got := strings.Join(GlobalRegistry.GetSupportedFormats(), ",")
	if got != "json,markdown,text" {
		t.Errorf("GetSupportedFormats() = %s", got)
	}
}

func TestFormatScore(t *testing.T) {
	tests := map[float64]string{100: "100", 72.35: "72.35", 0: "0", 50.5: "50.5"}
	for score, want := range tests {
		if got := FormatScore(score); got != want {
			t.Errorf("FormatScore(%v) = %s, want %s", score, got, want)
		}
	}
}
