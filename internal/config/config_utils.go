package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyAPIKeyFallbacks()
	c.applyGeminiKeyFallback()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyAPIKeyFallbacks parses comma-separated API keys from the environment
func (c *Config) applyAPIKeyFallbacks() {
	c.Server.APIKeys = keysFromEnv(c.Server.APIKeys, "SHORTLIST_SERVER_APIKEYS")
	c.API.APIKeys = keysFromEnv(c.API.APIKeys, "SHORTLIST_API_APIKEYS")
	c.API.AllowedOrigins = keysFromEnv(c.API.AllowedOrigins, "SHORTLIST_API_ALLOWEDORIGINS")
}

func keysFromEnv(current []string, envVar string) []string {
	if len(current) > 0 {
		return splitAndTrim(strings.Join(current, ","))
	}
	if value := os.Getenv(envVar); value != "" {
		return splitAndTrim(value)
	}
	return current
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// applyGeminiKeyFallback supports the conventional GEMINI_API_KEY variable
func (c *Config) applyGeminiKeyFallback() {
	if c.Analyzer.Gemini.APIKey == "" {
		c.Analyzer.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	for _, s := range []*ServerConfig{&c.Server, &c.API} {
		if s.TLS.MinVersion == "" && s.TLSEnabled() {
			s.TLS.MinVersion = "1.2"
		}
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	// Set console output based on log level if not explicitly configured
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	// Try to get hostname, fallback to default
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"SHORTLIST_CLIENT_ENVIRONMENT",
		"SHORTLIST_CLIENT_BASEURL",
		"SHORTLIST_CLIENT_APIKEY",
		"SHORTLIST_SERVER_PORT",
		"SHORTLIST_SERVER_HOST",
		"SHORTLIST_API_PORT",
		"SHORTLIST_API_APIKEYS",
		"SHORTLIST_ANALYZER_EMBEDDER",
		"SHORTLIST_ANALYZER_GEMINI_APIKEY",
		"SHORTLIST_APP_LOGLEVEL",
		"SHORTLIST_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			// Mask sensitive values
			if strings.Contains(strings.ToLower(envVar), "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Client Environment: %s", c.Client.Environment)
	log.Printf("[CONFIG] Analysis API URL: %s", c.Client.ResolveBaseURL())
	log.Printf("[CONFIG] Form Server: %s:%s", c.Server.Host, c.Server.Port)
	log.Printf("[CONFIG] API Server: %s:%s", c.API.Host, c.API.Port)
	log.Printf("[CONFIG] Analyzer Embedder: %s", c.Analyzer.Embedder)
	if c.Analyzer.Gemini.APIKey != "" {
		log.Println("[CONFIG] Gemini API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] Gemini API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}
