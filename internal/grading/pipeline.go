package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/models"
)

// DefaultTimeout bounds the external grading call when none is configured.
const DefaultTimeout = 30 * time.Second

// Outcome is the result of grading one submission and the path that
// produced it. Reason is set for guard and fallback outcomes.
type Outcome struct {
	Result *models.GradingResult
	Source string
	Reason error
}

// Pipeline scores submissions: normalize, guard, grade externally, and fall
// back to the positional scorer when the external grader fails.
type Pipeline struct {
	client  Client
	timeout time.Duration
}

// NewPipeline creates a pipeline. A nil client sends every gradable
// submission to the fallback scorer.
func NewPipeline(client Client, timeout time.Duration) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{client: client, timeout: timeout}
}

// Grade never fails: every reliability problem degrades to the fallback
// scorer so the caller always receives a usable result.
func (p *Pipeline) Grade(ctx context.Context, reference, submission string) Outcome {
	log := logging.NewLogger(ctx)

	normReference := Normalize(reference)
	normSubmission := Normalize(submission)

	if result, reason := CheckSubmission(normSubmission, normReference, reference); result != nil {
		log.WithField("reason", reason.Error()).Warn("Submission short-circuited to zero score")
		return Outcome{Result: result, Source: models.SourceGuard, Reason: reason}
	}

	result, err := p.gradeExternally(ctx, normReference, normSubmission)
	if err == nil {
		return Outcome{Result: result, Source: models.SourceExternal}
	}

	log.WithField("reason", err.Error()).Warn("External grading failed, using fallback scorer")
	return Outcome{
		Result: FallbackScore(normReference, normSubmission, reference),
		Source: models.SourceFallback,
		Reason: err,
	}
}

func (p *Pipeline) gradeExternally(ctx context.Context, normReference, normSubmission string) (*models.GradingResult, error) {
	if p.client == nil {
		return nil, fmt.Errorf("%w: no client configured", ErrGradingServiceUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.client.Generate(callCtx, BuildPrompt(normReference, normSubmission))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrGradingServiceUnavailable, p.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrGradingServiceUnavailable, err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGradingResponseInvalid)
	}

	return ParseResponse(raw)
}
