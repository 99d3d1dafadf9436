package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultSkills is the skill vocabulary used when no skills file is configured
var DefaultSkills = []string{
	"python", "java", "javascript", "typescript", "react", "angular", "vue",
	"node.js", "express", "django", "flask", "fastapi", "sql", "nosql",
	"mongodb", "postgresql", "mysql", "aws", "azure", "gcp", "docker",
	"kubernetes", "ci/cd", "git", "agile", "scrum", "machine learning",
	"ai", "data science", "big data", "analytics", "devops", "cloud",
	"microservices", "rest api", "graphql", "testing", "security",
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB

	// Analysis API client
	v.SetDefault("client.environment", EnvironmentProduction)
	v.SetDefault("client.baseURL", "")
	v.SetDefault("client.productionURL", "https://shortlist-cv.onrender.com")
	v.SetDefault("client.developmentURL", "http://localhost:8000")
	v.SetDefault("client.apiKey", "")
	v.SetDefault("client.timeout", time.Duration(0)) // Wait for the analysis API as long as it takes
	v.SetDefault("client.maxResponseSize", 5*1024*1024)
	v.SetDefault("client.validateSchema", true)
	v.SetDefault("client.circuitBreaker.enabled", true)
	v.SetDefault("client.circuitBreaker.maxRequests", 3)
	v.SetDefault("client.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("client.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("client.circuitBreaker.minRequests", 5)
	v.SetDefault("client.circuitBreaker.failureThreshold", 0.6)

	// Form server
	setServerDefaults(v, "server", "3000")
	// Analysis API server
	setServerDefaults(v, "api", "8000")
	v.SetDefault("api.allowedOrigins", []string{
		"http://localhost:3000",
		"https://shortlist-cv.vercel.app",
		"https://*.vercel.app",
	})

	// Analyzer
	v.SetDefault("analyzer.skills", DefaultSkills)
	v.SetDefault("analyzer.skillsFile", "")
	v.SetDefault("analyzer.watchSkills", true)
	v.SetDefault("analyzer.debounceDelay", time.Second)
	v.SetDefault("analyzer.contextChars", 50)
	v.SetDefault("analyzer.embedder", "auto")
	v.SetDefault("analyzer.gemini.apiKey", "")
	v.SetDefault("analyzer.gemini.model", "text-embedding-004")
	v.SetDefault("analyzer.gemini.timeout", 30*time.Second)
	v.SetDefault("analyzer.gemini.maxRetries", 2)
	v.SetDefault("analyzer.gemini.maxInputChars", 40000)
	v.SetDefault("analyzer.gemini.circuitBreaker.enabled", true)
	v.SetDefault("analyzer.gemini.circuitBreaker.maxRequests", 3)
	v.SetDefault("analyzer.gemini.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("analyzer.gemini.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("analyzer.gemini.circuitBreaker.minRequests", 3)
	v.SetDefault("analyzer.gemini.circuitBreaker.failureThreshold", 0.6)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.clientKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "shortlist")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.analysis.enabled", true)
	v.SetDefault("observability.customMetrics.analysis.trackDuration", true)
	v.SetDefault("observability.customMetrics.analysis.trackScores", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}

// setServerDefaults sets defaults shared by the form server and the analysis API server
func setServerDefaults(v *viper.Viper, prefix, port string) {
	v.SetDefault(prefix+".host", "localhost")
	v.SetDefault(prefix+".port", port)
	v.SetDefault(prefix+".readTimeout", 30*time.Second)
	v.SetDefault(prefix+".writeTimeout", 120*time.Second) // Analysis can be slow
	v.SetDefault(prefix+".idleTimeout", 120*time.Second)
	v.SetDefault(prefix+".tls.mode", "disabled") // disabled, server
	v.SetDefault(prefix+".tls.certFile", "")
	v.SetDefault(prefix+".tls.keyFile", "")
	v.SetDefault(prefix+".tls.minVersion", "1.2")
	v.SetDefault(prefix+".apiKeys", []string{})
	v.SetDefault(prefix+".allowedOrigins", []string{})
	v.SetDefault(prefix+".rateLimit.enabled", false)
	v.SetDefault(prefix+".rateLimit.requestsPerMin", 30)
	v.SetDefault(prefix+".rateLimit.burstCapacity", 5)
	v.SetDefault(prefix+".rateLimit.byIP", true)
	v.SetDefault(prefix+".rateLimit.byAPIKey", false)
	v.SetDefault(prefix+".rateLimit.window", time.Minute)
}
