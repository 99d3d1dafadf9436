package analyzer

import (
	"strings"
	"testing"

	"shortlist/internal/errors"
	"shortlist/internal/types"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		file types.CVFile
		want DocumentKind
	}{
		{"pdf content type", types.CVFile{Name: "cv", ContentType: "application/pdf"}, KindPDF},
		{"pdf with params", types.CVFile{Name: "cv", ContentType: "application/pdf; charset=binary"}, KindPDF},
		{"docx content type", types.CVFile{Name: "cv", ContentType: types.ContentTypeDOCX}, KindDOCX},
		{"text content type", types.CVFile{Name: "cv", ContentType: "text/plain; charset=utf-8"}, KindText},
		{"pdf by extension", types.CVFile{Name: "CV.PDF", ContentType: "application/octet-stream"}, KindPDF},
		{"docx by extension", types.CVFile{Name: "cv.docx"}, KindDOCX},
		{"markdown by extension", types.CVFile{Name: "cv.md"}, KindText},
		{"image", types.CVFile{Name: "cv.png", ContentType: "image/png"}, KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectKind(&tt.file); got != tt.want {
				t.Errorf("DetectKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTextPlain(t *testing.T) {
	got, err := ExtractText(&types.CVFile{Name: "cv.txt", ContentType: types.ContentTypeText, Data: []byte("Go developer")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Go developer" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextPDF(t *testing.T) {
	data := buildPDF(t, "Jane Doe", "5 years of experience with Docker")

	got, err := ExtractText(&types.CVFile{Name: "cv.pdf", ContentType: types.ContentTypePDF, Data: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Jane Doe", "5 years of experience with Docker"} {
		if !strings.Contains(got, want) {
			t.Errorf("extracted text %q missing %q", got, want)
		}
	}
}

func TestExtractTextDOCX(t *testing.T) {
	data := buildDOCX(t, "Jane Doe", "Bachelor of Science &amp; Engineering")

	got, err := ExtractText(&types.CVFile{Name: "cv.docx", ContentType: types.ContentTypeDOCX, Data: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Jane Doe") || !strings.Contains(got, "Bachelor of Science & Engineering") {
		t.Errorf("unexpected DOCX text %q", got)
	}
	if strings.Contains(got, "<w:") {
		t.Errorf("XML tags not stripped: %q", got)
	}
}

func TestExtractTextErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     *types.CVFile
		wantCode string
	}{
		{"nil file", nil, errors.ErrCodeMissingInput},
		{"empty data", &types.CVFile{Name: "cv.pdf"}, errors.ErrCodeMissingInput},
		{"unsupported", &types.CVFile{Name: "cv.png", ContentType: "image/png", Data: []byte{1}}, errors.ErrCodeUnsupportedFileType},
		{"corrupt pdf", &types.CVFile{Name: "cv.pdf", ContentType: types.ContentTypePDF, Data: []byte("not a pdf")}, errors.ErrCodeExtractionFailed},
		{"invalid utf8", &types.CVFile{Name: "cv.txt", ContentType: types.ContentTypeText, Data: []byte{0xff, 0xfe}}, errors.ErrCodeExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.file)
			if err == nil {
				t.Fatal("expected error")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestExtractTextPDFRejectsUnreadableDocuments(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"stray delimiter in page", writePDF([]string{
			"<< /Type /Catalog /Pages 2 0 R >>",
			"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
			"<< /Type /Page /Parent 2 0 R ) >>",
		})},
		{"stray delimiter in catalog", writePDF([]string{
			"<< /Type /Catalog ) /Pages 2 0 R >>",
			"<< /Type /Pages /Kids [] /Count 0 >>",
		})},
		{"no text", buildPDF(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(&types.CVFile{Name: "cv.pdf", ContentType: types.ContentTypePDF, Data: tt.data})
			if err == nil {
				t.Fatalf("expected error, got text %q", got)
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeExtractionFailed {
				t.Errorf("code = %s, want %s", appErr.Code, errors.ErrCodeExtractionFailed)
			}
		})
	}
}

func TestStripDocumentXML(t *testing.T) {
	in := `<w:body><w:p><w:r><w:t>One</w:t></w:r></w:p><w:p><w:r><w:t xml:space="preserve"> Two &lt;3 </w:t></w:r></w:p></w:body>`
	if got := stripDocumentXML(in); got != "One\nTwo <3" {
		t.Errorf("got %q", got)
	}
}
