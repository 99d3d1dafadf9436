package cli

import (
	"fmt"

	"shortlist/internal/analyzer"
	"shortlist/internal/server"

	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the CV analysis API",
	Long: `Start the analysis API that the submission form calls.

Available endpoints:
- POST /api/analyze: multipart fields jd (text) and cv (PDF, DOCX or text file)
- GET /health: Health check
- GET /stats: Analyzer, embedder and rate limiting statistics

Scores use Gemini embeddings when an API key is configured and a local
TF-IDF embedding otherwise.`,
	RunE: runAPI,
}

func init() {
	addServerFlags(apiCmd.Flags())
	apiCmd.Flags().String("skills-file", "", "Skill vocabulary file, one skill per line (overrides config)")
	apiCmd.Flags().String("embedder", "", "Embedder: auto, gemini or tfidf (overrides config)")
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServerFlags(cmd, &cfg.API)
	overrideString(cmd, "skills-file", &cfg.Analyzer.SkillsFile)
	overrideString(cmd, "embedder", &cfg.Analyzer.Embedder)

	if err := cfg.API.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	service, err := analyzer.NewService(cfg.Analyzer, logger)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer func() {
		if err := service.Close(); err != nil {
			logger.LogError(err, "Failed to close analyzer")
		}
	}()

	serverCfg := server.ServerConfigFrom(server.ModeAPI, cfg.API, cfg.App.MaxFileSize, Version)
	serverCfg.Analyzer = service

	logger.Info("Analysis API configured",
		"embedder", service.EmbedderName(),
		"skills_file", cfg.Analyzer.SkillsFile)

	return server.NewServer(cfg, serverCfg, logger).Start()
}
