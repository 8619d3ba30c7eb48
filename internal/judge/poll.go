package judge

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omegaup-tools/editorialgen/internal/logger"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

var errStillRunning = errors.New("run has not reached a terminal status")

// Monitor polls one grading job at a fixed interval until it reaches a
// terminal status or the wait budget runs out.
type Monitor struct {
	grader   Grader
	interval time.Duration
	budget   time.Duration
}

func NewMonitor(grader Grader, interval, budget time.Duration) *Monitor {
	return &Monitor{
		grader:   grader,
		interval: interval,
		budget:   budget,
	}
}

// WaitForResult blocks until the run finishes, fails, or the budget
// elapses. Budget exhaustion is a normal outcome: the returned result
// carries TerminalTimeout with no verdict and a zero score, never an
// error. Transport hiccups during polling are absorbed by the next
// cycle. A judge-side rejection of the status call itself and context
// cancellation surface as errors; neither is a timeout.
func (m *Monitor) WaitForResult(
	ctx context.Context,
	handle types.JobHandle,
) (*types.GradingResult, error) {
	ctx, span := tracer.Start(ctx, "Monitor.WaitForResult", trace.WithAttributes(
		attribute.String("guid", string(handle)),
		attribute.String("budget", m.budget.String()),
	))
	defer span.End()

	b := retry.NewConstant(m.interval)
	b = retry.WithMaxDuration(m.budget, b)

	var result *types.GradingResult
	var rejected error

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		status, err := m.grader.RunStatus(ctx, handle)
		if err != nil {
			var transport pipelineerrors.TransportError
			if errors.As(err, &transport) {
				logger.Logger.WarnContext(ctx, "poll cycle failed, will retry",
					"guid", handle, "error", err)
				return retry.RetryableError(err)
			}
			rejected = err
			return err
		}
		if !status.Terminal() {
			logger.Logger.DebugContext(ctx, "run still in progress",
				"guid", handle, "status", status.Status)
			return retry.RetryableError(errStillRunning)
		}

		result = normalize(status)
		return nil
	})
	if err != nil {
		if rejected != nil {
			span.RecordError(rejected)
			span.SetStatus(codes.Error, "judge rejected the status poll")
			return nil, rejected
		}
		if ctx.Err() != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "polling canceled")
			return nil, err
		}

		// Budget elapsed with the run still pending or the judge
		// unreachable. The attempt records a timeout, not a failure.
		logger.Logger.WarnContext(ctx, "wait budget exhausted",
			"guid", handle, "budget", m.budget, "error", err)
		result = &types.GradingResult{
			GUID:   handle,
			Status: types.TerminalTimeout,
		}
		span.AddEvent("timed_out")
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "run timed out within budget")
		return result, nil
	}

	span.AddEvent("terminal", trace.WithAttributes(
		attribute.String("status", string(result.Status)),
		attribute.String("verdict", string(result.Verdict)),
		attribute.Float64("score", result.Score),
	))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "run reached terminal status")
	return result, nil
}

// normalize collapses the judge's raw terminal states into the pipeline's
// three-way status and a closed verdict set.
func normalize(status *RunStatus) *types.GradingResult {
	result := types.GradingResult{
		GUID:      types.JobHandle(status.GUID),
		Verdict:   types.ParseVerdict(status.Verdict),
		Score:     status.Score,
		RuntimeMs: status.RuntimeMs,
		MemoryKB:  status.MemoryKB,
		Execution: status.Execution,
		Output:    status.Output,
	}

	switch status.Status {
	case "ready", "done":
		result.Status = types.TerminalDone
	default:
		result.Status = types.TerminalError
		if status.Status == "compile_error" && result.Verdict == types.VerdictUnknown {
			result.Verdict = types.VerdictCompileError
		}
		if status.CompileError != "" && result.Output == "" {
			result.Output = status.CompileError
		}
	}

	return &result
}
