package client

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"shortlist/internal/errors"
	"shortlist/internal/types"
)

// wireResult mirrors types.AnalysisResult with a pointer score so a missing
// score can be told apart from a zero one.
type wireResult struct {
	Score          *float64           `json:"score"`
	CVText         string             `json:"cv_text"`
	JDText         string             `json:"jd_text"`
	MatchingSkills []string           `json:"matching_skills"`
	MissingSkills  []string           `json:"missing_skills"`
	Experience     []types.Experience `json:"experience"`
	Education      []types.Education  `json:"education"`
}

// DecodeResult parses an analysis response body. In strict mode the score
// must be present and within 0..100.
func DecodeResult(r io.Reader, strict bool) (*types.AnalysisResult, error) {
	var wire wireResult
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeBadResponse,
			"analysis response is not valid JSON", err)
	}

	if strict {
		if err := checkScore(wire.Score); err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeBadResponse,
				"analysis response failed schema check", err)
		}
	}

	result := &types.AnalysisResult{
		CVText:         wire.CVText,
		JDText:         wire.JDText,
		MatchingSkills: wire.MatchingSkills,
		MissingSkills:  wire.MissingSkills,
		Experience:     wire.Experience,
		Education:      wire.Education,
	}
	if wire.Score != nil {
		result.Score = *wire.Score
	}
	result.Normalize()
	return result, nil
}

func checkScore(score *float64) error {
	if score == nil {
		return fmt.Errorf("score is missing")
	}
	if math.IsNaN(*score) || *score < 0 || *score > 100 {
		return fmt.Errorf("score %v out of range 0-100", *score)
	}
	return nil
}
