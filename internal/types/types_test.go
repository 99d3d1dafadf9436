package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCVFileIsPDF(t *testing.T) {
	tests := []struct {
		name string
		file *CVFile
		want bool
	}{
		{"nil file", nil, false},
		{"pdf content type", &CVFile{Name: "cv", ContentType: "application/pdf"}, true},
		{"pdf content type with params", &CVFile{Name: "cv", ContentType: "application/pdf; charset=binary"}, true},
		{"pdf extension", &CVFile{Name: "Resume.PDF", ContentType: "application/octet-stream"}, true},
		{"docx", &CVFile{Name: "cv.docx", ContentType: ContentTypeDOCX}, false},
		{"text", &CVFile{Name: "cv.txt", ContentType: ContentTypeText}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.file.IsPDF(); got != tt.want {
				t.Errorf("IsPDF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmitsEmptyArrays(t *testing.T) {
	r := AnalysisResult{Score: 50}
	r.Normalize()

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := string(data)
	for _, field := range []string{`"matching_skills":[]`, `"missing_skills":[]`, `"experience":[]`, `"education":[]`} {
		if !strings.Contains(got, field) {
			t.Errorf("expected %s in %s", field, got)
		}
	}
	if strings.Contains(got, "cv_text") {
		t.Errorf("empty cv_text should be omitted: %s", got)
	}
}

func TestExperienceYearsAcceptsStringOrNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Experience
		wantErr bool
	}{
		{"string", `{"years":"5","context":"5 years of experience in Go"}`, Experience{Years: "5", Context: "5 years of experience in Go"}, false},
		{"number", `{"years":3,"context":"x"}`, Experience{Years: "3", Context: "x"}, false},
		{"null", `{"years":null,"context":"x"}`, Experience{Context: "x"}, false},
		{"missing", `{"context":"x"}`, Experience{Context: "x"}, false},
		{"object", `{"years":{},"context":"x"}`, Experience{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Experience
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
