package analyzer

import (
	"context"
	"strings"

	"shortlist/internal/config"
	"shortlist/internal/errors"
	"shortlist/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Service scores a CV against a job description
type Service struct {
	skills       *SkillSet
	watcher      *SkillsWatcher
	embedder     Embedder
	contextChars int
	logger       *errors.Logger
}

// NewService builds the analysis pipeline from configuration
func NewService(cfg config.AnalyzerConfig, logger *errors.Logger) (*Service, error) {
	embedder, err := NewEmbedder(cfg, logger)
	if err != nil {
		return nil, err
	}
	return newService(cfg, embedder, logger)
}

func newService(cfg config.AnalyzerConfig, embedder Embedder, logger *errors.Logger) (*Service, error) {
	if logger == nil {
		logger = errors.Discard()
	}

	vocabulary := cfg.Skills
	if len(vocabulary) == 0 {
		vocabulary = config.DefaultSkills
	}

	s := &Service{
		skills:       NewSkillSet(vocabulary),
		embedder:     embedder,
		contextChars: cfg.ContextChars,
		logger:       logger,
	}

	if cfg.SkillsFile != "" {
		fromFile, err := LoadSkillsFile(cfg.SkillsFile)
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to load skills file", err).
				WithContext("file", cfg.SkillsFile)
		}
		s.skills.Replace(fromFile)

		if cfg.WatchSkills {
			s.watcher = NewSkillsWatcher(cfg.SkillsFile, s.skills, cfg.DebounceDelay, logger)
			if err := s.watcher.Start(); err != nil {
				logger.Warn("Skills file watcher not started", "file", cfg.SkillsFile, "error", err)
				s.watcher = nil
			}
		}
	}

	logger.Info("Analyzer initialized",
		"embedder", embedder.Name(),
		"skills", s.skills.Len(),
		"skills_file", cfg.SkillsFile)
	return s, nil
}

// Analyze extracts the CV text and scores it against the job description
func (s *Service) Analyze(ctx context.Context, sub types.Submission) (*types.AnalysisResult, error) {
	if strings.TrimSpace(sub.JobDescription) == "" || sub.CV == nil {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput, "job description and CV are required", nil)
	}

	cvText, err := ExtractText(sub.CV)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeText(ctx, cvText, sub.JobDescription)
}

// AnalyzeText scores already extracted CV text
func (s *Service) AnalyzeText(ctx context.Context, cvText, jdText string) (*types.AnalysisResult, error) {
	tracer := otel.Tracer("shortlist.analyzer")
	ctx, span := tracer.Start(ctx, "analyzer.analyze")
	defer span.End()

	cvVec, jdVec, err := s.embedder.EmbedPair(ctx, Preprocess(cvText), Preprocess(jdText))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	score := MatchScore(CosineSimilarity(cvVec, jdVec))

	matching, missing := CompareSkills(s.skills.Find(cvText), s.skills.Find(jdText))

	result := &types.AnalysisResult{
		Score:          score,
		CVText:         cvText,
		JDText:         jdText,
		MatchingSkills: matching,
		MissingSkills:  missing,
		Experience:     ExtractExperience(cvText, s.contextChars),
		Education:      ExtractEducation(cvText),
	}
	result.Normalize()

	span.SetAttributes(
		attribute.Float64("analysis.score", score),
		attribute.Int("analysis.matching_skills", len(matching)),
		attribute.Int("analysis.missing_skills", len(missing)),
		attribute.String("analysis.embedder", s.embedder.Name()),
	)

	s.logger.Debug("Analysis completed",
		"score", score,
		"matching_skills", len(matching),
		"missing_skills", len(missing),
		"experience_entries", len(result.Experience),
		"education_entries", len(result.Education))
	return result, nil
}

// EmbedderName returns the active embedder
func (s *Service) EmbedderName() string {
	return s.embedder.Name()
}

// GetStats returns analyzer details for the stats endpoint
func (s *Service) GetStats() map[string]any {
	stats := map[string]any{
		"embedder":        s.embedder.Name(),
		"skills":          s.skills.Len(),
		"skills_watching": s.watcher != nil && s.watcher.IsRunning(),
	}
	if g, ok := s.embedder.(*GeminiEmbedder); ok {
		stats["circuit_breaker"] = g.GetCircuitBreakerStats()
	}
	return stats
}

// Close stops the skills watcher and releases the embedder
func (s *Service) Close() error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			return err
		}
	}
	return s.embedder.Close()
}
