package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"shortlist/internal/config"
	"shortlist/internal/errors"
)

// Embedder names accepted in analyzer.embedder
const (
	EmbedderAuto   = "auto"
	EmbedderGemini = "gemini"
	EmbedderTFIDF  = "tfidf"
)

// Embedder turns a pair of preprocessed texts into vectors of equal length
type Embedder interface {
	Name() string
	EmbedPair(ctx context.Context, a, b string) ([]float64, []float64, error)
	Close() error
}

// NewEmbedder selects an embedder from configuration. "auto" uses Gemini when
// an API key is configured and TF-IDF otherwise.
func NewEmbedder(cfg config.AnalyzerConfig, logger *errors.Logger) (Embedder, error) {
	name := cfg.Embedder
	if name == "" || name == EmbedderAuto {
		name = EmbedderTFIDF
		if cfg.Gemini.APIKey != "" {
			name = EmbedderGemini
		}
	}

	switch name {
	case EmbedderTFIDF:
		return NewTFIDFEmbedder(), nil
	case EmbedderGemini:
		return NewGeminiEmbedder(cfg.Gemini, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported embedder: %s", cfg.Embedder), nil)
	}
}

// TFIDFEmbedder builds term-weight vectors over the shared vocabulary of the two texts
type TFIDFEmbedder struct{}

// NewTFIDFEmbedder creates a local embedder
func NewTFIDFEmbedder() *TFIDFEmbedder {
	return &TFIDFEmbedder{}
}

func (e *TFIDFEmbedder) Name() string { return EmbedderTFIDF }

func (e *TFIDFEmbedder) Close() error { return nil }

// EmbedPair weights each term by log-scaled frequency times smoothed inverse
// document frequency, so terms unique to one text weigh more than shared ones.
func (e *TFIDFEmbedder) EmbedPair(ctx context.Context, a, b string) ([]float64, []float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	docs := [2]map[string]int{termCounts(a), termCounts(b)}

	index := make(map[string]int)
	var vocab []string
	for _, counts := range docs {
		for term := range counts {
			if _, ok := index[term]; !ok {
				index[term] = len(vocab)
				vocab = append(vocab, term)
			}
		}
	}

	vectors := [2][]float64{make([]float64, len(vocab)), make([]float64, len(vocab))}
	for i, term := range vocab {
		df := 0
		for _, counts := range docs {
			if counts[term] > 0 {
				df++
			}
		}
		idf := math.Log(float64(1+len(docs))/float64(1+df)) + 1
		for d, counts := range docs {
			if tf := counts[term]; tf > 0 {
				vectors[d][i] = (1 + math.Log(float64(tf))) * idf
			}
		}
	}

	return vectors[0], vectors[1], nil
}

func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, term := range strings.Fields(text) {
		counts[term]++
	}
	return counts
}
