package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environments selecting the analysis API base URL
const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

// Config holds all application configuration
// Secret precedence order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (SHORTLIST_ANALYZER_GEMINI_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Client        ClientConfig        `mapstructure:"client"`
	Server        ServerConfig        `mapstructure:"server"`
	API           ServerConfig        `mapstructure:"api"`
	Analyzer      AnalyzerConfig      `mapstructure:"analyzer"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ClientConfig holds configuration for calling the analysis API
type ClientConfig struct {
	Environment     string               `mapstructure:"environment"`     // production or development
	BaseURL         string               `mapstructure:"baseURL"`         // Overrides the environment-selected URL when set
	ProductionURL   string               `mapstructure:"productionURL"`   // Deployed analysis API
	DevelopmentURL  string               `mapstructure:"developmentURL"`  // Local analysis API
	APIKey          string               `mapstructure:"apiKey"`          // Sent as X-API-Key when set
	Timeout         time.Duration        `mapstructure:"timeout"`         // 0 means no timeout
	MaxResponseSize int64                `mapstructure:"maxResponseSize"` // Upper bound on response body bytes
	ValidateSchema  bool                 `mapstructure:"validateSchema"`  // Reject responses outside the documented shape
	CircuitBreaker  CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// ResolveBaseURL returns the analysis API base URL without a trailing slash
func (c ClientConfig) ResolveBaseURL() string {
	base := c.BaseURL
	if base == "" {
		if c.Environment == EnvironmentDevelopment {
			base = c.DevelopmentURL
		} else {
			base = c.ProductionURL
		}
	}
	return strings.TrimRight(base, "/")
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration, used by both the form and the analysis API
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// TLS Configuration
	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Browser origins allowed to call the server cross-origin
	AllowedOrigins []string `mapstructure:"allowedOrigins"`

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds server TLS configuration
type TLSConfig struct {
	Mode       string `mapstructure:"mode"`       // TLS mode: "disabled", "server"
	CertFile   string `mapstructure:"certFile"`   // Server certificate file (PEM)
	KeyFile    string `mapstructure:"keyFile"`    // Server private key file (PEM)
	MinVersion string `mapstructure:"minVersion"` // Minimum TLS version: "1.2", "1.3"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AnalyzerConfig holds configuration for the built-in analysis API
type AnalyzerConfig struct {
	Skills        []string      `mapstructure:"skills"`        // Skill vocabulary, replaced by skillsFile when set
	SkillsFile    string        `mapstructure:"skillsFile"`    // One skill per line
	WatchSkills   bool          `mapstructure:"watchSkills"`   // Reload skillsFile on change
	DebounceDelay time.Duration `mapstructure:"debounceDelay"` // Debounce for skillsFile events
	ContextChars  int           `mapstructure:"contextChars"`  // Characters of context around experience matches
	Embedder      string        `mapstructure:"embedder"`      // auto, gemini or tfidf
	Gemini        GeminiConfig  `mapstructure:"gemini"`
}

// GeminiConfig holds Gemini embedding configuration
type GeminiConfig struct {
	APIKey         string               `mapstructure:"apiKey"`
	Model          string               `mapstructure:"model"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	MaxInputChars  int                  `mapstructure:"maxInputChars"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	Analysis        AnalysisMetricsConfig       `mapstructure:"analysis"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AnalysisMetricsConfig holds analysis call metrics configuration
type AnalysisMetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	TrackDuration bool `mapstructure:"trackDuration"`
	TrackScores   bool `mapstructure:"trackScores"`
}

// BusinessMetricsConfig holds business metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	// Set default values
	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	// Set up environment variable handling
	v.SetEnvPrefix("SHORTLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'SHORTLIST'")

	// Set up config file handling
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/shortlist/")
	v.AddConfigPath("$HOME/.shortlist")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/shortlist/, $HOME/.shortlist, .")

	// Read the config file
	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	config, err := unmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	// Log configuration sources summary
	config.logConfigurationSources(configFileUsed)

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return config, nil
}

// unmarshalConfig decodes a populated viper instance and applies fallbacks
func unmarshalConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Client.Environment {
	case EnvironmentProduction, EnvironmentDevelopment:
	default:
		return fmt.Errorf("invalid client environment: %s (must be 'production' or 'development')", c.Client.Environment)
	}

	if err := validateBaseURL(c.Client.ResolveBaseURL()); err != nil {
		return fmt.Errorf("client base URL: %w", err)
	}

	if c.Client.Timeout < 0 {
		return fmt.Errorf("client timeout must not be negative")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.API.Port == "" {
		return fmt.Errorf("api port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("app maxFileSize must be positive")
	}

	if err := c.Server.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("server TLS configuration error: %w", err)
	}
	if err := c.API.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("api TLS configuration error: %w", err)
	}

	if err := validateCircuitBreaker(c.Client.CircuitBreaker); err != nil {
		return fmt.Errorf("client circuit breaker: %w", err)
	}
	if err := validateCircuitBreaker(c.Analyzer.Gemini.CircuitBreaker); err != nil {
		return fmt.Errorf("gemini circuit breaker: %w", err)
	}

	switch c.Analyzer.Embedder {
	case "auto", "tfidf":
	case "gemini":
		if c.Analyzer.Gemini.APIKey == "" {
			return fmt.Errorf("gemini API key is required when analyzer.embedder is 'gemini' (set SHORTLIST_ANALYZER_GEMINI_APIKEY)")
		}
	default:
		return fmt.Errorf("invalid analyzer embedder: %s (must be 'auto', 'gemini' or 'tfidf')", c.Analyzer.Embedder)
	}

	if c.Analyzer.ContextChars < 0 {
		return fmt.Errorf("analyzer contextChars must not be negative")
	}

	return nil
}

// ValidateTLSConfig validates the TLS configuration
func (s ServerConfig) ValidateTLSConfig() error {
	tls := s.TLS

	switch tls.Mode {
	case "", "disabled":
		return nil
	case "server":
		if tls.CertFile == "" || tls.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required for server mode")
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", tls.Mode)
	}

	switch tls.MinVersion {
	case "", "1.2", "1.3":
		// Valid versions (empty defaults to 1.2)
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}

	return nil
}

// TLSEnabled reports whether the server should listen with TLS
func (s ServerConfig) TLSEnabled() bool {
	return s.TLS.Mode == "server"
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", raw)
	}
	return nil
}

func validateCircuitBreaker(cb CircuitBreakerConfig) error {
	if !cb.Enabled {
		return nil
	}
	if cb.FailureThreshold < 0 || cb.FailureThreshold > 1 {
		return fmt.Errorf("failureThreshold must be between 0 and 1, got %v", cb.FailureThreshold)
	}
	return nil
}
