package server

import (
	"time"

	"shortlist/internal/config"
	"shortlist/internal/errors"
	"shortlist/internal/form"
)

// Mode selects which routes a Server exposes
type Mode string

const (
	// ModeForm serves the submission page and forwards to a remote analysis API
	ModeForm Mode = "form"
	// ModeAPI serves POST /api/analyze backed by the local analyzer
	ModeAPI Mode = "api"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatsProvider reports component statistics for /stats
type StatsProvider interface {
	GetStats() map[string]any
}

// Server holds configuration for the HTTP server
type Server struct {
	Mode    Mode
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Browser origins allowed cross-origin access (API mode)
	AllowedOrigins []string

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Analyzer scores submissions: the remote API client in form mode,
	// the local analysis service in API mode
	Analyzer form.Analyzer

	// Where submissions are analyzed, shown in the page footer and in /stats
	AnalysisEndpoint string

	Logger *errors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Mode             Mode
	Host             string
	Port             string
	Version          string
	TLSConfig        config.TLSConfig
	APIKeys          []string
	AllowedOrigins   []string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxRequestSize   int64
	RateLimit        *config.RateLimitConfig
	Analyzer         form.Analyzer
	AnalysisEndpoint string
}

// ServerConfigFrom builds a ServerConfig from one of the server sections of the application config
func ServerConfigFrom(mode Mode, sc config.ServerConfig, maxRequestSize int64, version string) ServerConfig {
	rateLimit := sc.RateLimit
	return ServerConfig{
		Mode:           mode,
		Host:           sc.Host,
		Port:           sc.Port,
		Version:        version,
		TLSConfig:      sc.TLS,
		APIKeys:        sc.APIKeys,
		AllowedOrigins: sc.AllowedOrigins,
		ReadTimeout:    sc.ReadTimeout,
		WriteTimeout:   sc.WriteTimeout,
		IdleTimeout:    sc.IdleTimeout,
		MaxRequestSize: maxRequestSize,
		RateLimit:      &rateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *errors.Logger) *Server {
	if logger == nil {
		logger = errors.Discard()
	}

	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeForm
	}

	return &Server{
		Mode:             mode,
		Host:             cfg.Host,
		Port:             cfg.Port,
		Version:          cfg.Version,
		AppConfig:        appCfg,
		TLSConfig:        cfg.TLSConfig,
		APIKeys:          apiKeyMap,
		AllowedOrigins:   cfg.AllowedOrigins,
		ReadTimeout:      cfg.ReadTimeout,
		WriteTimeout:     cfg.WriteTimeout,
		IdleTimeout:      cfg.IdleTimeout,
		MaxRequestSize:   cfg.MaxRequestSize,
		RateLimit:        cfg.RateLimit,
		RateLimiter:      rateLimiter,
		Analyzer:         cfg.Analyzer,
		AnalysisEndpoint: cfg.AnalysisEndpoint,
		Logger:           logger,
	}
}
