package form

import (
	stderrors "errors"
	"strings"

	"shortlist/internal/types"
)

// User-facing messages
const (
	MissingInputMessage   = "Please provide both a job description and a CV file"
	AnalysisFailedMessage = "Error analyzing CV. Please try again."
)

var (
	// ErrMissingInput is returned when the job description or CV is absent
	ErrMissingInput = stderrors.New(MissingInputMessage)

	// ErrAnalysisFailed is returned for every remote failure; the cause is only logged
	ErrAnalysisFailed = stderrors.New(AnalysisFailedMessage)
)

// Validate checks that both inputs are present. A whitespace-only job
// description counts as missing, as does a CV with no bytes.
func Validate(sub types.Submission) error {
	if strings.TrimSpace(sub.JobDescription) == "" {
		return ErrMissingInput
	}
	if sub.CV == nil || len(sub.CV.Data) == 0 {
		return ErrMissingInput
	}
	return nil
}
