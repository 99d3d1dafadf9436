package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// healthHandler reports service status, degraded while the analysis circuit is open
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "shortlist",
		"version": s.Version,
		"mode":    string(s.Mode),
	}

	status := http.StatusOK
	if breaker := s.circuitBreakerStats(); breaker != nil {
		response["circuit_breaker"] = breaker
		if state, _ := breaker["state"].(string); state == "open" {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, response, status)
}

// circuitBreakerStats extracts breaker stats from the analyzer, if it exposes any
func (s *Server) circuitBreakerStats() map[string]any {
	provider, ok := s.Analyzer.(StatsProvider)
	if !ok {
		return nil
	}
	breaker, _ := provider.GetStats()["circuit_breaker"].(map[string]any)
	return breaker
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "shortlist",
		"version": s.Version,
		"mode":    string(s.Mode),
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.AnalysisEndpoint != "" {
		response["analysis_endpoint"] = s.AnalysisEndpoint
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if provider, ok := s.Analyzer.(StatsProvider); ok {
		response["analyzer"] = provider.GetStats()
	}

	writeJSON(w, response, http.StatusOK)
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Message: message}, statusCode)
}
