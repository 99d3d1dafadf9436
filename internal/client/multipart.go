package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"shortlist/internal/types"
)

// Multipart field names expected by the analysis API
const (
	FieldJobDescription = "jd"
	FieldCV             = "cv"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeSubmission builds the multipart body for one analysis request and
// returns it with the matching Content-Type header value.
func encodeSubmission(sub types.Submission) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	field, err := w.CreateFormField(FieldJobDescription)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s field: %w", FieldJobDescription, err)
	}
	if _, err := io.Copy(field, strings.NewReader(sub.JobDescription)); err != nil {
		return nil, "", fmt.Errorf("failed to write %s field: %w", FieldJobDescription, err)
	}

	name := sub.CV.Name
	if name == "" {
		name = "cv.pdf"
	}
	contentType := sub.CV.ContentType
	if contentType == "" {
		contentType = types.ContentTypePDF
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldCV, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s part: %w", FieldCV, err)
	}
	if _, err := io.Copy(part, bytes.NewReader(sub.CV.Data)); err != nil {
		return nil, "", fmt.Errorf("failed to write %s part: %w", FieldCV, err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &b, w.FormDataContentType(), nil
}
