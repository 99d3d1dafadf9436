package cli

import (
	"fmt"

	"shortlist/internal/client"
	"shortlist/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CV submission form",
	Long: `Start an HTTP server that renders the CV submission form and forwards each
submission to the analysis API.

Available endpoints:
- GET /: Submission form (job description text and a PDF CV)
- POST /submit: Validate and forward a submission, render the result
- GET /health: Health check including the analysis API circuit breaker
- GET /stats: Server statistics and rate limiting info

The analysis API base URL comes from client.environment (production or
development) unless --api-url is given.`,
	RunE: runServe,
}

func init() {
	addServerFlags(serveCmd.Flags())
	serveCmd.Flags().String("api-url", "", "Analysis API base URL (overrides client.environment)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServerFlags(cmd, &cfg.Server)
	overrideString(cmd, "api-url", &cfg.Client.BaseURL)

	// Validate TLS configuration after applying overrides
	if err := cfg.Server.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	apiClient := client.New(cfg.Client, logger)

	serverCfg := server.ServerConfigFrom(server.ModeForm, cfg.Server, cfg.App.MaxFileSize, Version)
	serverCfg.Analyzer = apiClient
	serverCfg.AnalysisEndpoint = apiClient.Endpoint()

	logger.Info("Form server configured",
		"analysis_endpoint", apiClient.Endpoint(),
		"environment", cfg.Client.Environment)

	return server.NewServer(cfg, serverCfg, logger).Start()
}
