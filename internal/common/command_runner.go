package common

import (
	"context"

	"shortlist/internal/errors"
	"shortlist/internal/form"
)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc func(jdFile, cvFile string, cfg CommandConfig)

// RunAnalyzeCommand reads a job description and a CV from disk, submits
// them through a form controller and writes the result. Missing input and
// analysis failures are returned as form.ErrMissingInput and
// form.ErrAnalysisFailed; the underlying cause is only logged.
func RunAnalyzeCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	jdFile, cvFile string,
	analyzer form.Analyzer,
	logDetails LogDetailsFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	sub, err := fileProcessor.ReadSubmission(jdFile, cvFile, cmdConfig.MaxFileSize)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(jdFile, cvFile, cmdConfig)
	}

	controller := form.NewController(analyzer, logger)
	if err := controller.Submit(ctx, sub); err != nil {
		return err
	}

	return outputHandler.HandleOutput(controller.View().Result, cmdConfig)
}
