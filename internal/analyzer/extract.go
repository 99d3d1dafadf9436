package analyzer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"shortlist/internal/errors"
	"shortlist/internal/types"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// DocumentKind is the text extraction method for an uploaded CV
type DocumentKind string

const (
	KindPDF         DocumentKind = "pdf"
	KindDOCX        DocumentKind = "docx"
	KindText        DocumentKind = "text"
	KindUnsupported DocumentKind = ""
)

var (
	xmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	paragraphPattern = regexp.MustCompile(`</w:p>`)
)

// DetectKind picks an extraction method from the declared content type,
// falling back to the file extension.
func DetectKind(file *types.CVFile) DocumentKind {
	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	switch contentType {
	case types.ContentTypePDF:
		return KindPDF
	case types.ContentTypeDOCX:
		return KindDOCX
	case types.ContentTypeText:
		return KindText
	}

	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	case ".txt", ".md":
		return KindText
	}
	return KindUnsupported
}

// ExtractText returns the plain text content of an uploaded CV
func ExtractText(file *types.CVFile) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", errors.NewValidationError(errors.ErrCodeMissingInput, "CV file is empty", nil)
	}

	switch DetectKind(file) {
	case KindPDF:
		return extractPDF(file.Data)
	case KindDOCX:
		return extractDOCX(file.Data)
	case KindText:
		if !utf8.Valid(file.Data) {
			return "", errors.NewValidationError(errors.ErrCodeExtractionFailed, "text file is not valid UTF-8", nil)
		}
		return string(file.Data), nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("unsupported file type: %s", file.ContentType), nil).
			WithContext("file_name", file.Name)
	}
}

// extractPDF concatenates the plain text of every page. The PDF parser
// panics on malformed objects, so panics are turned into extraction errors.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.NewValidationError(errors.ErrCodeExtractionFailed, "failed to read PDF", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeExtractionFailed, "failed to read PDF", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(pageText)
	}

	text = textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidationError(errors.ErrCodeExtractionFailed, "no text found in PDF", nil).
			WithContext("pages", numPages)
	}
	return text, nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeExtractionFailed, "failed to parse DOCX", err)
	}
	defer func() { _ = doc.Close() }()

	return stripDocumentXML(doc.Editable().GetContent()), nil
}

// stripDocumentXML turns WordprocessingML into plain text, one paragraph per line
func stripDocumentXML(content string) string {
	content = paragraphPattern.ReplaceAllString(content, "\n")
	content = xmlTagPattern.ReplaceAllString(content, "")
	content = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'").Replace(content)

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
