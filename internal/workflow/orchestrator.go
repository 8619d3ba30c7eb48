// Package workflow sequences generation, grading, retry and publication
// for one problem, and aggregates bulk runs over a problem list.
package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omegaup-tools/editorialgen/internal/generate"
	"github.com/omegaup-tools/editorialgen/internal/hash"
	"github.com/omegaup-tools/editorialgen/internal/judge"
	"github.com/omegaup-tools/editorialgen/internal/logger"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/runlog"
	"github.com/omegaup-tools/editorialgen/internal/types"
	"github.com/omegaup-tools/editorialgen/internal/verdict"
)

var tracer = otel.Tracer("github.com/omegaup-tools/editorialgen/internal/workflow")

// ResultWaiter blocks until one grading job reaches a terminal result.
// judge.Monitor is the production implementation.
type ResultWaiter interface {
	WaitForResult(ctx context.Context, handle types.JobHandle) (*types.GradingResult, error)
}

// Publisher fans the final editorial out across locales.
// publish.Manager is the production implementation.
type Publisher interface {
	PublishAll(ctx context.Context, alias, content, message string) (map[string]types.PublicationTarget, bool)
}

// Options carries the orchestrator's timing and language policy.
type Options struct {
	Language       string
	MaxAttempts    int
	SubmitWindow   time.Duration
	InterItemDelay time.Duration
}

type Orchestrator struct {
	grader    judge.Grader
	waiter    ResultWaiter
	generator generate.Generator
	publisher Publisher
	retry     *RetryController
	opts      Options
	log       runlog.Context
	sleep     func(context.Context, time.Duration)
}

func NewOrchestrator(
	grader judge.Grader,
	waiter ResultWaiter,
	generator generate.Generator,
	publisher Publisher,
	opts Options,
	log runlog.Context,
) *Orchestrator {
	return &Orchestrator{
		grader:    grader,
		waiter:    waiter,
		generator: generator,
		publisher: publisher,
		retry:     NewRetryController(opts.MaxAttempts),
		opts:      opts,
		log:       log,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Run processes one problem end to end. It never returns an error:
// every failure mode lands in the result's Status and Error fields so
// bulk runs can keep going.
func (o *Orchestrator) Run(ctx context.Context, alias string) *types.WorkflowResult {
	ctx, span := tracer.Start(ctx, "Orchestrator.Run", trace.WithAttributes(
		attribute.String("problem", alias),
	))
	defer span.End()

	log := o.log.WithProblem(alias)
	result := &types.WorkflowResult{
		ProblemAlias: alias,
		Status:       types.ItemFailure,
	}

	details, err := o.grader.ProblemDetails(ctx, alias)
	if err != nil {
		return o.fail(ctx, span, log, result, fmt.Errorf("failed to fetch problem: %w", err))
	}
	result.Title = details.Title

	// Problems that restrict their language set (Karel-only tracks)
	// reject every language we can generate for. Classified as a skip
	// either up front or when the submit call names the language.
	if len(details.Languages) > 0 && !accepts(details.Languages, o.opts.Language) {
		return o.skip(ctx, span, log, result, pipelineerrors.LanguageUnsupportedError{
			ProblemAlias: alias,
			Language:     o.opts.Language,
		})
	}

	statement := statementFor(details)
	limits := limitsFor(details)

	attempts, err := o.grade(ctx, log, alias, details.Title, statement, limits)
	if err != nil {
		if pipelineerrors.IsSkip(err) {
			return o.skip(ctx, span, log, result, err)
		}
		return o.fail(ctx, span, log, result, err)
	}

	final := o.retry.Select(attempts)
	result.Attempts = attempts
	result.FinalVerdict = final.Result.Verdict
	result.FinalScore = final.Result.Score
	result.FinalSource = final.Submission.Source

	editorial, err := o.generator.GenerateEditorial(ctx, generate.EditorialRequest{
		ProblemAlias: alias,
		Title:        details.Title,
		Statement:    statement,
		Language:     o.opts.Language,
		Source:       final.Submission.Source,
	})
	if err != nil {
		return o.fail(ctx, span, log, result, fmt.Errorf("failed to generate editorial: %w", err))
	}

	message := commitMessage(final.Result.Verdict)
	targets, ok := o.publisher.PublishAll(ctx, alias, editorial, message)
	result.Publications = targets

	for _, target := range targets {
		if target.Published {
			runlog.LogEditorialPublished(log, target.Locale, len(target.Content), message)
		}
		runlog.LogPublicationVerified(log, target.Locale, target.Verified)
	}

	if !ok {
		result.Error = "publication policy not met"
		runlog.LogProblemFinished(log, result)
		span.SetStatus(codes.Error, "publication policy not met")
		return result
	}

	result.Status = types.ItemSuccess
	runlog.LogProblemFinished(log, result)
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "problem processed")
	return result
}

// grade runs the attempt loop. The returned error is either a skip
// classification (IsSkip) or fatal for this problem.
func (o *Orchestrator) grade(
	ctx context.Context,
	log runlog.Context,
	alias, title, statement, limits string,
) ([]types.AttemptRecord, error) {
	var attempts []types.AttemptRecord
	feedback := ""
	priorSource := ""

	for attempt := 1; attempt <= o.retry.MaxAttempts(); attempt++ {
		retrying := attempt > 1
		if retrying {
			prev := attempts[len(attempts)-1]
			runlog.LogAttemptRetry(log, prev.Result, feedback)
			// The judge enforces a minimum separation between
			// submissions to the same problem; wait it out rather
			// than burn the retry on a rate-limit rejection.
			o.sleep(ctx, o.opts.SubmitWindow)
		}

		source, err := o.generator.GenerateSolution(ctx, generate.SolutionRequest{
			ProblemAlias: alias,
			Title:        title,
			Statement:    statement,
			Limits:       limits,
			Language:     o.opts.Language,
			PriorSource:  priorSource,
			Feedback:     feedback,
		})
		if err != nil {
			if retrying {
				logger.Logger.WarnContext(ctx, "retry generation failed, keeping original attempt",
					"error", err, "problem", alias)
				break
			}
			return nil, fmt.Errorf("failed to generate solution: %w", err)
		}

		sub := types.Submission{
			ProblemAlias: alias,
			Language:     o.opts.Language,
			Source:       source,
			AttemptIndex: attempt,
		}
		handle, err := o.grader.Submit(ctx, sub)
		if err != nil {
			if pipelineerrors.IsSkip(err) {
				return nil, err
			}
			if retrying {
				logger.Logger.WarnContext(ctx, "retry submission failed, keeping original attempt",
					"error", err, "problem", alias)
				break
			}
			return nil, fmt.Errorf("failed to submit: %w", err)
		}
		runlog.LogRunSubmitted(log, handle, sub.Language, attempt, hash.Buffer([]byte(source)))

		result, err := o.waiter.WaitForResult(ctx, handle)
		if err != nil {
			if retrying {
				logger.Logger.WarnContext(ctx, "retry polling failed, keeping original attempt",
					"error", err, "problem", alias)
				break
			}
			return nil, fmt.Errorf("failed to wait for result: %w", err)
		}

		outcome := verdict.Classify(result)
		runlog.LogRunResult(log, result, outcome)

		record := types.AttemptRecord{
			Submission: sub,
			Result:     result,
			Outcome:    outcome,
		}
		if o.retry.ShouldRetry(outcome, attempt) {
			record.Feedback = verdict.Feedback(result)
			feedback = record.Feedback
			priorSource = source
		}
		attempts = append(attempts, record)

		if outcome == types.OutcomeAccepted {
			break
		}
	}

	if len(attempts) == 0 {
		return nil, fmt.Errorf("no attempt was graded")
	}
	return attempts, nil
}

// RunBulk processes aliases strictly in order with a fixed delay between
// items. The result map always holds one entry per alias; a panic inside
// one item is recorded as that item's failure and the run continues.
func (o *Orchestrator) RunBulk(ctx context.Context, aliases []string) *types.BulkResult {
	ctx, span := tracer.Start(ctx, "Orchestrator.RunBulk", trace.WithAttributes(
		attribute.Int("count", len(aliases)),
	))
	defer span.End()

	bulk := &types.BulkResult{
		Results: make(map[string]*types.WorkflowResult, len(aliases)),
		Order:   make([]string, 0, len(aliases)),
	}

	for i, alias := range aliases {
		if i > 0 {
			o.sleep(ctx, o.opts.InterItemDelay)
		}

		result := o.runRecovered(ctx, alias)
		bulk.Results[alias] = result
		bulk.Order = append(bulk.Order, alias)

		switch result.Status {
		case types.ItemSuccess:
			bulk.Successes++
		case types.ItemSkip:
			bulk.Skips++
		default:
			bulk.Failures++
		}
	}

	span.AddEvent("bulk_finished", trace.WithAttributes(
		attribute.Int("successes", bulk.Successes),
		attribute.Int("failures", bulk.Failures),
		attribute.Int("skips", bulk.Skips),
	))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "bulk run finished")
	return bulk
}

func (o *Orchestrator) runRecovered(ctx context.Context, alias string) (result *types.WorkflowResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Logger.ErrorContext(ctx, "workflow panicked",
				"problem", alias, "panic", r)
			result = &types.WorkflowResult{
				ProblemAlias: alias,
				Status:       types.ItemFailure,
				Error:        fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	return o.Run(ctx, alias)
}

func (o *Orchestrator) fail(
	ctx context.Context,
	span trace.Span,
	log runlog.Context,
	result *types.WorkflowResult,
	err error,
) *types.WorkflowResult {
	logger.Logger.ErrorContext(ctx, "workflow failed",
		"problem", result.ProblemAlias, "error", err)
	result.Status = types.ItemFailure
	result.Error = err.Error()
	runlog.LogProblemFinished(log, result)
	span.RecordError(err)
	span.SetStatus(codes.Error, "workflow failed")
	return result
}

func (o *Orchestrator) skip(
	ctx context.Context,
	span trace.Span,
	log runlog.Context,
	result *types.WorkflowResult,
	err error,
) *types.WorkflowResult {
	logger.Logger.InfoContext(ctx, "problem skipped",
		"problem", result.ProblemAlias, "reason", err)
	result.Status = types.ItemSkip
	result.Error = err.Error()
	runlog.LogProblemSkipped(log, err.Error())
	runlog.LogProblemFinished(log, result)
	span.AddEvent("skipped")
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "problem skipped")
	return result
}

func accepts(languages []string, language string) bool {
	for _, l := range languages {
		if l == language {
			return true
		}
	}
	return false
}

// limitsFor renders the problem's grading limits into one deterministic
// line for the generation prompt. Empty when the judge reports none.
func limitsFor(details *judge.ProblemDetails) string {
	if len(details.Settings.Limits) == 0 {
		return ""
	}

	keys := make([]string, 0, len(details.Settings.Limits))
	for k := range details.Settings.Limits {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details.Settings.Limits[k]))
	}
	return strings.Join(parts, ", ")
}

// statementFor picks the statement the generator reads: the Spanish one
// when present, otherwise any available locale.
func statementFor(details *judge.ProblemDetails) string {
	if s, ok := details.Statements["es"]; ok && s != "" {
		return s
	}
	for _, s := range details.Statements {
		if s != "" {
			return s
		}
	}
	return ""
}

func commitMessage(v types.Verdict) string {
	if v == types.VerdictUnknown {
		return "AI-generated editorial based on inconclusive solution"
	}
	return fmt.Sprintf("AI-generated editorial based on %s solution", v)
}
