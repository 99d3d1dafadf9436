package analyzer

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"shortlist/internal/breaker"
	"shortlist/internal/config"
	"shortlist/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const defaultMaxInputChars = 40000

// GeminiEmbedder embeds texts with the Gemini embedding API
type GeminiEmbedder struct {
	client         *genai.Client
	model          string
	timeout        time.Duration
	maxRetries     int
	maxInputChars  int
	circuitBreaker *breaker.CircuitBreaker[[]float64]
	logger         *errors.Logger
}

// NewGeminiEmbedder creates a Gemini-backed embedder
func NewGeminiEmbedder(cfg config.GeminiConfig, logger *errors.Logger) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey, "Gemini API key is required for the gemini embedder", nil)
	}
	if logger == nil {
		logger = errors.Discard()
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeEmbeddingFailed, "Failed to create Gemini client", err)
	}

	maxInput := cfg.MaxInputChars
	if maxInput <= 0 {
		maxInput = defaultMaxInputChars
	}

	return &GeminiEmbedder{
		client:         client,
		model:          cfg.Model,
		timeout:        cfg.Timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		maxInputChars:  maxInput,
		circuitBreaker: breaker.New[[]float64]("gemini-embeddings", cfg.CircuitBreaker, logger),
		logger:         logger,
	}, nil
}

func (g *GeminiEmbedder) Name() string { return EmbedderGemini }

// Close releases client resources
func (g *GeminiEmbedder) Close() error { return nil }

// GetCircuitBreakerStats returns breaker statistics for health reporting
func (g *GeminiEmbedder) GetCircuitBreakerStats() map[string]any {
	return g.circuitBreaker.GetStats()
}

// EmbedPair embeds both texts
func (g *GeminiEmbedder) EmbedPair(ctx context.Context, a, b string) ([]float64, []float64, error) {
	va, err := g.embed(ctx, "cv", a)
	if err != nil {
		return nil, nil, err
	}
	vb, err := g.embed(ctx, "jd", b)
	if err != nil {
		return nil, nil, err
	}
	return va, vb, nil
}

func (g *GeminiEmbedder) embed(ctx context.Context, label, text string) ([]float64, error) {
	tracer := otel.Tracer("shortlist.analyzer")
	ctx, span := tracer.Start(ctx, "embedding."+label)
	defer span.End()

	if len(text) > g.maxInputChars {
		text = safeSlice(text, 0, g.maxInputChars)
	}
	span.SetAttributes(
		attribute.String("embedding.model", g.model),
		attribute.Int("embedding.input_chars", len(text)),
	)

	values, err := g.circuitBreaker.Execute(func() ([]float64, error) {
		return g.executeWithRetry(ctx, label, func() ([]float64, error) {
			callCtx := ctx
			if g.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, g.timeout)
				defer cancel()
			}

			result, err := g.client.Models.EmbedContent(callCtx, g.model, genai.Text(text), nil)
			if err != nil {
				return nil, err
			}
			if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
				return nil, fmt.Errorf("empty embedding result")
			}

			out := make([]float64, len(result.Embeddings[0].Values))
			for i, v := range result.Embeddings[0].Values {
				out[i] = float64(v)
			}
			return out, nil
		})
	})
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewAIError(errors.ErrCodeEmbeddingFailed, "failed to generate embedding", err).
			WithContext("model", g.model)
	}
	return values, nil
}

// executeWithRetry retries fn with exponential backoff and jitter
func (g *GeminiEmbedder) executeWithRetry(ctx context.Context, operation string, fn func() ([]float64, error)) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying embedding request",
				"operation", operation,
				"attempt", attempt,
				"max_retries", g.maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(retryBackoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}

	return nil, fmt.Errorf("embedding '%s' failed after %d retries: %w", operation, g.maxRetries, lastErr)
}

// retryBackoff is 2^(attempt-1) seconds plus up to 10% jitter, capped at 30s
func retryBackoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitter := time.Duration(0)
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(baseDelay+jitter, 30*time.Second)
}

// isRetryableError reports whether err is a network failure or a transient API status
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
