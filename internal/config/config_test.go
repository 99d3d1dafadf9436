package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, overrides map[string]any) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	for key, value := range overrides {
		v.Set(key, value)
	}
	cfg, err := unmarshalConfig(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := newTestConfig(t, nil)

	assert.Equal(t, EnvironmentProduction, cfg.Client.Environment)
	assert.Equal(t, "https://shortlist-cv.onrender.com", cfg.Client.ResolveBaseURL())
	assert.Equal(t, time.Duration(0), cfg.Client.Timeout, "client must not time out by default")
	assert.True(t, cfg.Client.ValidateSchema)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "8000", cfg.API.Port)
	assert.Equal(t, DefaultSkills, cfg.Analyzer.Skills)
	assert.Equal(t, 50, cfg.Analyzer.ContextChars)
	assert.Equal(t, "auto", cfg.Analyzer.Embedder)
	assert.Contains(t, cfg.API.AllowedOrigins, "http://localhost:3000")
	assert.Equal(t, 60*time.Second, cfg.Client.CircuitBreaker.Interval)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)

	require.NoError(t, cfg.Validate())
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		client   ClientConfig
		expected string
	}{
		{
			name: "production",
			client: ClientConfig{
				Environment:    EnvironmentProduction,
				ProductionURL:  "https://shortlist-cv.onrender.com",
				DevelopmentURL: "http://localhost:8000",
			},
			expected: "https://shortlist-cv.onrender.com",
		},
		{
			name: "development",
			client: ClientConfig{
				Environment:    EnvironmentDevelopment,
				ProductionURL:  "https://shortlist-cv.onrender.com",
				DevelopmentURL: "http://localhost:8000",
			},
			expected: "http://localhost:8000",
		},
		{
			name: "explicit base URL wins and loses trailing slash",
			client: ClientConfig{
				Environment:    EnvironmentDevelopment,
				BaseURL:        "http://analysis.internal:9000/",
				DevelopmentURL: "http://localhost:8000",
			},
			expected: "http://analysis.internal:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.client.ResolveBaseURL())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		overrides   map[string]any
		expectError string
	}{
		{
			name:      "development environment",
			overrides: map[string]any{"client.environment": "development"},
		},
		{
			name:        "unknown environment",
			overrides:   map[string]any{"client.environment": "staging"},
			expectError: "invalid client environment",
		},
		{
			name:        "base URL without scheme",
			overrides:   map[string]any{"client.baseURL": "localhost:8000"},
			expectError: "client base URL",
		},
		{
			name:        "negative timeout",
			overrides:   map[string]any{"client.timeout": -time.Second},
			expectError: "client timeout",
		},
		{
			name:        "missing server port",
			overrides:   map[string]any{"server.port": ""},
			expectError: "server port is required",
		},
		{
			name:        "unsupported default format",
			overrides:   map[string]any{"app.defaultFormat": "xml"},
			expectError: "invalid default format",
		},
		{
			name:        "tls server mode without files",
			overrides:   map[string]any{"api.tls.mode": "server"},
			expectError: "api TLS configuration error",
		},
		{
			name: "tls server mode with files",
			overrides: map[string]any{
				"server.tls.mode":     "server",
				"server.tls.certFile": "cert.pem",
				"server.tls.keyFile":  "key.pem",
			},
		},
		{
			name:        "mutual tls is not supported",
			overrides:   map[string]any{"server.tls.mode": "mutual"},
			expectError: "invalid TLS mode",
		},
		{
			name:        "failure threshold out of range",
			overrides:   map[string]any{"client.circuitBreaker.failureThreshold": 1.5},
			expectError: "failureThreshold",
		},
		{
			name:        "gemini embedder without key",
			overrides:   map[string]any{"analyzer.embedder": "gemini"},
			expectError: "gemini API key is required",
		},
		{
			name: "gemini embedder with key",
			overrides: map[string]any{
				"analyzer.embedder":      "gemini",
				"analyzer.gemini.apiKey": "test-key",
			},
		},
		{
			name:        "unknown embedder",
			overrides:   map[string]any{"analyzer.embedder": "bert"},
			expectError: "invalid analyzer embedder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			cfg := newTestConfig(t, tt.overrides)
			err := cfg.Validate()
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SHORTLIST_CLIENT_ENVIRONMENT", "development")
	t.Setenv("SHORTLIST_SERVER_PORT", "3100")
	t.Setenv("SHORTLIST_API_APIKEYS", " key-one , key-two ")
	t.Setenv("GEMINI_API_KEY", "legacy-gemini-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Client.ResolveBaseURL())
	assert.Equal(t, "3100", cfg.Server.Port)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.API.APIKeys)
	assert.Equal(t, "legacy-gemini-key", cfg.Analyzer.Gemini.APIKey)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a ,, b ,"))
	assert.Empty(t, splitAndTrim(""))
}
