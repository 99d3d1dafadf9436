package client

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shortlist/internal/breaker"
	"shortlist/internal/config"
	"shortlist/internal/errors"
	"shortlist/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// AnalyzePath is the analysis endpoint relative to the base URL
const AnalyzePath = "/api/analyze"

const defaultMaxResponseSize = 5 * 1024 * 1024

// Client submits CVs to the remote analysis API
type Client struct {
	endpoint        string
	apiKey          string
	httpClient      *http.Client
	maxResponseSize int64
	validateSchema  bool
	breaker         *breaker.CircuitBreaker[*types.AnalysisResult]
	logger          *errors.Logger
}

// New creates a client for the environment-selected base URL
func New(cfg config.ClientConfig, logger *errors.Logger) *Client {
	if logger == nil {
		logger = errors.Discard()
	}

	maxSize := cfg.MaxResponseSize
	if maxSize <= 0 {
		maxSize = defaultMaxResponseSize
	}

	return &Client{
		endpoint: cfg.ResolveBaseURL() + AnalyzePath,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxResponseSize: maxSize,
		validateSchema:  cfg.ValidateSchema,
		breaker:         breaker.New[*types.AnalysisResult]("analysis-api", cfg.CircuitBreaker, logger),
		logger:          logger,
	}
}

// Endpoint returns the full analysis URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// GetStats returns client and circuit breaker statistics
func (c *Client) GetStats() map[string]any {
	return map[string]any{
		"endpoint":        c.endpoint,
		"validate_schema": c.validateSchema,
		"circuit_breaker": c.breaker.GetStats(),
	}
}

// Analyze sends the submission as one multipart POST and decodes the result
func (c *Client) Analyze(ctx context.Context, sub types.Submission) (*types.AnalysisResult, error) {
	if sub.CV == nil {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput, "CV file is required", nil)
	}

	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest, "failed to encode submission", err)
	}

	c.logger.Debug("Sending analysis request",
		"endpoint", c.endpoint,
		"file_name", sub.CV.Name,
		"file_size", len(sub.CV.Data),
		"jd_length", len(sub.JobDescription))

	result, err := c.breaker.Execute(func() (*types.AnalysisResult, error) {
		return c.post(ctx, body.Bytes(), contentType)
	})
	if err != nil {
		if stderrors.Is(err, breaker.ErrOpenState) || stderrors.Is(err, breaker.ErrTooManyRequests) {
			return nil, errors.NewNetworkError(errors.ErrCodeCircuitOpen,
				"analysis API temporarily unavailable", err)
		}
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, body []byte, contentType string) (*types.AnalysisResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest, "failed to create request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeRequestFailed, "analysis request failed", err).
			WithContext("endpoint", c.endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeRequestFailed, "failed to read analysis response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewNetworkError(errors.ErrCodeBadStatus, "analysis API returned an error",
			fmt.Errorf("bad status: %s", resp.Status)).
			WithContext("status_code", resp.StatusCode).
			WithContext("body", snippet(data))
	}

	if int64(len(data)) > c.maxResponseSize {
		return nil, errors.NewValidationError(errors.ErrCodeBadResponse, "analysis response too large", nil).
			WithContext("max_size", c.maxResponseSize)
	}

	return DecodeResult(bytes.NewReader(data), c.validateSchema)
}

func snippet(data []byte) string {
	const max = 200
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
