package types

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
)

// Accepted CV content types
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"
)

// CVFile is an uploaded CV document held in memory
type CVFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsPDF reports whether the file is a PDF by declared content type or extension
func (f *CVFile) IsPDF() bool {
	if f == nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(f.ContentType), ContentTypePDF) {
		return true
	}
	return strings.EqualFold(filepath.Ext(f.Name), ".pdf")
}

// Submission is one job description plus one CV as entered in the form
type Submission struct {
	JobDescription string
	CV             *CVFile
}

// Experience is a work-history fragment found in a CV
type Experience struct {
	Years   string `json:"years"`
	Context string `json:"context"`
}

// UnmarshalJSON accepts years as either a JSON string or a number
func (e *Experience) UnmarshalJSON(data []byte) error {
	var raw struct {
		Years   json.RawMessage `json:"years"`
		Context string          `json:"context"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Context = raw.Context
	e.Years = ""

	years := bytes.TrimSpace(raw.Years)
	switch {
	case len(years) == 0 || bytes.Equal(years, []byte("null")):
	case years[0] == '"':
		if err := json.Unmarshal(years, &e.Years); err != nil {
			return err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(years, &n); err != nil {
			return err
		}
		e.Years = n.String()
	}
	return nil
}

// Education is a credential fragment found in a CV
type Education struct {
	Text   string `json:"text"`
	Degree string `json:"degree"`
}

// AnalysisResult is the response of POST /api/analyze
type AnalysisResult struct {
	Score          float64      `json:"score"`
	CVText         string       `json:"cv_text,omitempty"`
	JDText         string       `json:"jd_text,omitempty"`
	MatchingSkills []string     `json:"matching_skills"`
	MissingSkills  []string     `json:"missing_skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
}

// Normalize replaces nil slices with empty ones so encoders emit [] instead of null
func (r *AnalysisResult) Normalize() {
	if r.MatchingSkills == nil {
		r.MatchingSkills = []string{}
	}
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
}
