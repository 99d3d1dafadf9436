package form

import (
	"context"
	"sync"

	"shortlist/internal/errors"
	"shortlist/internal/types"
)

// State is the position of the form in its submission lifecycle
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Analyzer scores a submission
type Analyzer interface {
	Analyze(ctx context.Context, sub types.Submission) (*types.AnalysisResult, error)
}

// View is a snapshot of what the form should render
type View struct {
	State          State
	Busy           bool
	SubmitDisabled bool
	Result         *types.AnalysisResult
	Error          string
	FileName       string
}

// Controller drives one form. Submissions may overlap; each response is
// applied when it arrives, so the last one to finish wins.
type Controller struct {
	analyzer Analyzer
	logger   *errors.Logger

	mu       sync.Mutex
	state    State
	result   *types.AnalysisResult
	message  string
	fileName string
	inFlight int
}

// NewController creates a controller in the Idle state
func NewController(analyzer Analyzer, logger *errors.Logger) *Controller {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Controller{
		analyzer: analyzer,
		logger:   logger,
		state:    StateIdle,
	}
}

// Submit validates the inputs and, if they are complete, performs one
// analysis call. It returns ErrMissingInput, ErrAnalysisFailed or nil.
func (c *Controller) Submit(ctx context.Context, sub types.Submission) error {
	if err := Validate(sub); err != nil {
		c.mu.Lock()
		if c.inFlight == 0 {
			c.state = StateIdle
		}
		c.message = err.Error()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.state = StateSubmitting
	c.result = nil
	c.message = ""
	c.fileName = sub.CV.Name
	c.inFlight++
	c.mu.Unlock()

	result, err := c.analyzer.Analyze(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--

	if err != nil {
		c.logger.LogError(err, "CV analysis failed", "file_name", sub.CV.Name)
		c.state = StateFailed
		c.result = nil
		c.message = AnalysisFailedMessage
		return ErrAnalysisFailed
	}

	c.state = StateSuccess
	c.result = result
	c.message = ""
	return nil
}

// View returns the current render state
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	busy := c.inFlight > 0
	return View{
		State:          c.state,
		Busy:           busy,
		SubmitDisabled: busy,
		Result:         c.result,
		Error:          c.message,
		FileName:       c.fileName,
	}
}
