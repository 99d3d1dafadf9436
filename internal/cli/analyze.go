package cli

import (
	"fmt"

	"shortlist/internal/analyzer"
	"shortlist/internal/client"
	"shortlist/internal/common"
	"shortlist/internal/config"
	"shortlist/internal/errors"
	"shortlist/internal/form"
	"shortlist/internal/utils"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [job-description-file] [cv-file]",
	Short: "Score a CV against a job description",
	Long: `Submit a job description and a CV to the analysis API and print the result.

The job description is read as text. The CV is sent as a file; the analysis
API reads PDFs, and the --local analyzer also reads DOCX and plain text.

The result contains:
- Overall match score (0-100)
- Matching and missing skills
- Experience mentions with surrounding context
- Education entries with the degree level`,
	Args: cobra.MaximumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if err := common.ValidateConfiguredFormats(cfg.App.SupportedFormats); err != nil {
			return err
		}
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" && !analyzeInteractive {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		if analyzeConfig.OutputFormat == "" {
			return nil
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig      common.CommandConfig
	analyzeInteractive bool
	analyzeLocal       bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().BoolVarP(&analyzeInteractive, "interactive", "i", false, "Prompt for missing file paths and the output format")
	analyzeCmd.Flags().BoolVar(&analyzeLocal, "local", false, "Analyze in-process instead of calling the analysis API")
	analyzeCmd.Flags().String("api-url", "", "Analysis API base URL (overrides client.environment)")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.AvailableFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	overrideString(cmd, "api-url", &cfg.Client.BaseURL)

	paths := make([]string, 2)
	copy(paths, args)

	if analyzeInteractive {
		if err := promptForInputs(paths, &analyzeConfig, common.AvailableFormats(cfg.App.SupportedFormats)); err != nil {
			return err
		}
	}

	if analyzeConfig.OutputFormat == "" {
		analyzeConfig.OutputFormat = cfg.App.DefaultFormat
	}

	if paths[0] == "" || paths[1] == "" {
		return form.ErrMissingInput
	}

	a, closeFn, err := newAnalyzer(cfg, logger, analyzeLocal)
	if err != nil {
		return err
	}
	defer closeFn()

	analyzeConfig.MaxFileSize = cfg.App.MaxFileSize

	logDetails := func(jdFile, cvFile string, cmdCfg common.CommandConfig) {
		logger.Info("Starting CV analysis",
			"job_description_file", jdFile,
			"cv_file", cvFile,
			"output_format", cmdCfg.OutputFormat,
			"output_file", cmdCfg.OutputFile,
			"local", analyzeLocal)
	}

	return common.RunAnalyzeCommand(cmd.Context(), logger, analyzeConfig, paths[0], paths[1], a, logDetails)
}

// newAnalyzer returns the remote API client, or the in-process analyzer when local is set
func newAnalyzer(cfg *config.Config, logger *errors.Logger, local bool) (form.Analyzer, func(), error) {
	if !local {
		apiClient := client.New(cfg.Client, logger)
		logger.Debug("Using analysis API", "endpoint", apiClient.Endpoint())
		return apiClient, func() {}, nil
	}

	service, err := analyzer.NewService(cfg.Analyzer, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create analyzer: %w", err)
	}
	return service, func() {
		if err := service.Close(); err != nil {
			logger.LogError(err, "Failed to close analyzer")
		}
	}, nil
}

// promptForInputs asks for any missing path and, when unset, the output format
func promptForInputs(paths []string, cmdCfg *common.CommandConfig, formats []string) error {
	labels := []string{"Job description file", "CV file"}
	for i, label := range labels {
		if paths[i] != "" {
			continue
		}
		prompt := promptui.Prompt{
			Label:    label,
			Validate: utils.ValidateInputFile,
		}
		value, err := prompt.Run()
		if err != nil {
			return err
		}
		paths[i] = value
	}

	if cmdCfg.OutputFormat == "" && len(formats) > 0 {
		formatPrompt := promptui.Select{
			Label: "Output format",
			Items: formats,
		}
		_, format, err := formatPrompt.Run()
		if err != nil {
			return err
		}
		cmdCfg.OutputFormat = format
	}
	return nil
}
