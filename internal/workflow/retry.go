package workflow

import (
	"github.com/omegaup-tools/editorialgen/internal/types"
)

// RetryController owns the attempt-count policy and the selection rule
// between an attempt and its retry.
type RetryController struct {
	maxAttempts int
}

func NewRetryController(maxAttempts int) *RetryController {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryController{maxAttempts: maxAttempts}
}

func (r *RetryController) MaxAttempts() int { return r.maxAttempts }

// ShouldRetry reports whether another attempt follows the given one.
// Accepted outcomes never retry.
func (r *RetryController) ShouldRetry(outcome types.Outcome, attemptIndex int) bool {
	if outcome == types.OutcomeAccepted {
		return false
	}
	return attemptIndex < r.maxAttempts
}

// Select picks the attempt whose artifact the workflow keeps. The retry
// wins only when it was accepted or strictly beat the prior attempt's
// score; ties keep the earlier attempt. With more than two attempts the
// rule folds pairwise in submission order.
func (r *RetryController) Select(attempts []types.AttemptRecord) *types.AttemptRecord {
	if len(attempts) == 0 {
		return nil
	}

	best := &attempts[0]
	for i := 1; i < len(attempts); i++ {
		retry := &attempts[i]
		if retry.Outcome == types.OutcomeAccepted {
			best = retry
			continue
		}
		if retry.Result != nil && best.Result != nil &&
			retry.Result.Score > best.Result.Score {
			best = retry
		}
	}
	return best
}
