package workflow_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omegaup-tools/editorialgen/internal/generate"
	generatemock "github.com/omegaup-tools/editorialgen/internal/generate/mock"
	"github.com/omegaup-tools/editorialgen/internal/judge"
	judgemock "github.com/omegaup-tools/editorialgen/internal/judge/mock"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/runlog"
	"github.com/omegaup-tools/editorialgen/internal/types"
	"github.com/omegaup-tools/editorialgen/internal/workflow"
)

type waiterFunc func(ctx context.Context, handle types.JobHandle) (*types.GradingResult, error)

func (f waiterFunc) WaitForResult(ctx context.Context, handle types.JobHandle) (*types.GradingResult, error) {
	return f(ctx, handle)
}

type publisherFunc func(ctx context.Context, alias, content, message string) (map[string]types.PublicationTarget, bool)

func (f publisherFunc) PublishAll(ctx context.Context, alias, content, message string) (map[string]types.PublicationTarget, bool) {
	return f(ctx, alias, content, message)
}

func okPublisher() publisherFunc {
	return func(_ context.Context, _, content, _ string) (map[string]types.PublicationTarget, bool) {
		return map[string]types.PublicationTarget{
			"es": {Locale: "es", Content: content, Published: true, Verified: true},
		}, true
	}
}

// resultQueue hands back canned grading results in submission order.
func resultQueue(results ...*types.GradingResult) waiterFunc {
	i := 0
	return func(_ context.Context, handle types.JobHandle) (*types.GradingResult, error) {
		if i >= len(results) {
			return nil, fmt.Errorf("unexpected poll for %s", handle)
		}
		r := results[i]
		r.GUID = handle
		i++
		return r, nil
	}
}

var testOptions = workflow.Options{
	Language:    "py3",
	MaxAttempts: 2,
}

func details() *judge.ProblemDetails {
	return &judge.ProblemDetails{
		Title:      "Sumas",
		Alias:      "sumas",
		Statements: map[string]string{"es": "Suma dos enteros."},
		Languages:  []string{"py3", "cpp17-gcc"},
	}
}

func expectDetails(grader *judgemock.MockGrader) {
	grader.EXPECT().ProblemDetails(gomock.Any(), "sumas").Return(details(), nil)
}

func expectGeneration(gen *generatemock.MockGenerator, sources ...string) {
	for _, source := range sources {
		gen.EXPECT().
			GenerateSolution(gomock.Any(), gomock.Any()).
			Return(source, nil)
	}
	gen.EXPECT().
		GenerateEditorial(gomock.Any(), gomock.Any()).
		Return("# Editorial: Sumas\n\nEditorial generado por IA", nil)
}

func TestRunAcceptedFirstAttempt(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	grader := judgemock.NewMockGrader(ctrl)
	gen := generatemock.NewMockGenerator(ctrl)

	expectDetails(grader)
	expectGeneration(gen, "print(1)")
	grader.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(types.JobHandle("run-1"), nil)

	waiter := resultQueue(&types.GradingResult{
		Status: types.TerminalDone, Verdict: types.VerdictAccepted, Score: 1,
	})

	o := workflow.NewOrchestrator(grader, waiter, gen, okPublisher(), testOptions, runlog.NewContext())
	result := o.Run(ctx, "sumas")

	assert.Equal(t, types.ItemSuccess, result.Status, "expected success")
	assert.Equal(t, types.VerdictAccepted, result.FinalVerdict, "wrong final verdict")
	require.Len(t, result.Attempts, 1, "an accepted first attempt must not retry")
	assert.Equal(t, "print(1)", result.FinalSource, "wrong final artifact")
}

func TestRunRetryAccepted(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	grader := judgemock.NewMockGrader(ctrl)
	gen := generatemock.NewMockGenerator(ctrl)

	expectDetails(grader)

	// The retry generation call must carry the first attempt's verdict
	// and score through feedback.
	gen.EXPECT().
		GenerateSolution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req generate.SolutionRequest) (string, error) {
			assert.Empty(t, req.Feedback, "first attempt must carry no feedback")
			return "print(0)", nil
		})
	gen.EXPECT().
		GenerateSolution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req generate.SolutionRequest) (string, error) {
			assert.Contains(t, req.Feedback, "WA", "feedback must carry the verdict")
			assert.Contains(t, req.Feedback, "0.4", "feedback must carry the score")
			assert.Equal(t, "print(0)", req.PriorSource, "feedback must carry the prior source")
			return "print(1)", nil
		})
	gen.EXPECT().
		GenerateEditorial(gomock.Any(), gomock.Any()).
		Return("# Editorial", nil)

	grader.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(types.JobHandle("run-1"), nil)
	grader.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(types.JobHandle("run-2"), nil)

	waiter := resultQueue(
		&types.GradingResult{Status: types.TerminalDone, Verdict: types.VerdictWrongAnswer, Score: 0.4},
		&types.GradingResult{Status: types.TerminalDone, Verdict: types.VerdictAccepted, Score: 1},
	)

	o := workflow.NewOrchestrator(grader, waiter, gen, okPublisher(), testOptions, runlog.NewContext())
	result := o.Run(ctx, "sumas")

	assert.Equal(t, types.ItemSuccess, result.Status, "expected success")
	require.Len(t, result.Attempts, 2, "a rejected first attempt must retry once")
	assert.Equal(t, "print(1)", result.FinalSource, "accepted retry must win selection")
	assert.Equal(t, types.VerdictAccepted, result.FinalVerdict, "wrong final verdict")
}

func TestRunRetryWorseKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	grader := judgemock.NewMockGrader(ctrl)
	gen := generatemock.NewMockGenerator(ctrl)

	expectDetails(grader)
	expectGeneration(gen, "original", "retry")
	grader.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(types.JobHandle("run-1"), nil)
	grader.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(types.JobHandle("run-2"), nil)

	waiter := resultQueue(
		&types.GradingResult{Status: types.TerminalDone, Verdict: types.VerdictPartialAccepted, Score: 0.7},
		&types.GradingResult{Status: types.TerminalDone, Verdict: types.VerdictPartialAccepted, Score: 0.5},
	)

	o := workflow.NewOrchestrator(grader, waiter, gen, okPublisher(), testOptions, runlog.NewContext())
	result := o.Run(ctx, "sumas")

	require.Len(t, result.Attempts, 2, "two rejections must record two attempts")
	assert.Equal(t, "original", result.FinalSource,
		"the higher-scoring original must win selection")
	assert.InDelta(t, 0.7, result.FinalScore, 1e-9, "wrong final score")
}

func TestRunTimeout(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	grader := judgemock.NewMockGrader(ctrl)
	gen := generatemock.NewMockGenerator(ctrl)

	expectDetails(grader)
	expectGeneration(gen, "slow", "still slow")
	grader.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(types.JobHandle("run-1"), nil)
	grader.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(types.JobHandle("run-2"), nil)

	waiter := resultQueue(
		&types.GradingResult{Status: types.TerminalTimeout},
		&types.GradingResult{Status: types.TerminalTimeout},
	)

	o := workflow.NewOrchestrator(grader, waiter, gen, okPublisher(), testOptions, runlog.NewContext())
	result := o.Run(ctx, "sumas")

	require.Len(t, result.Attempts, 2, "timeouts classify as rejected and retry")
	assert.Equal(t, types.VerdictUnknown, result.FinalVerdict,
		"a timeout must not be conflated with a judged verdict")
	assert.Contains(t, result.Attempts[0].Feedback, "wait budget",
		"timeout feedback must name the timeout")
}

func TestRunRetryTransportFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	grader := judgemock.NewMockGrader(ctrl)
	gen := generatemock.NewMockGenerator(ctrl)

	expectDetails(grader)
	expectGeneration(gen, "original", "retry")
	grader.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(types.JobHandle("run-1"), nil)
	grader.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(types.JobHandle(""), pipelineerrors.TransportError{
			Op: "run/create", Err: fmt.Errorf("connection reset"),
		})

	waiter := resultQueue(
		&types.GradingResult{Status: types.TerminalDone, Verdict: types.VerdictWrongAnswer, Score: 0.4},
	)

	o := workflow.NewOrchestrator(grader, waiter, gen, okPublisher(), testOptions, runlog.NewContext())
	result := o.Run(ctx, "sumas")

	assert.Equal(t, types.ItemSuccess, result.Status,
		"a failed retry submission must fall back to the original attempt")
	require.Len(t, result.Attempts, 1, "the failed retry must not record an attempt")
	assert.Equal(t, "original", result.FinalSource, "wrong final artifact")
}

type failingGenerator struct{}

func (failingGenerator) GenerateSolution(context.Context, generate.SolutionRequest) (string, error) {
	return "", fmt.Errorf("model unavailable")
}

func (failingGenerator) GenerateEditorial(context.Context, generate.EditorialRequest) (string, error) {
	return "", fmt.Errorf("model unavailable")
}

func TestRunGenerationOutageDegradesToTemplate(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	grader := judgemock.NewMockGrader(ctrl)
	gen := &generate.Fallback{
		Primary:   failingGenerator{},
		Secondary: generate.NewTemplateGenerator(),
	}

	expectDetails(grader)
	grader.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(types.JobHandle("run-1"), nil)

	waiter := resultQueue(&types.GradingResult{
		Status: types.TerminalDone, Verdict: types.VerdictWrongAnswer, Score: 0,
	})

	opts := workflow.Options{Language: "py3", MaxAttempts: 1}
	o := workflow.NewOrchestrator(grader, waiter, gen, okPublisher(), opts, runlog.NewContext())
	result := o.Run(ctx, "sumas")

	assert.Equal(t, types.ItemSuccess, result.Status,
		"a generation outage must degrade to placeholders, not abort the item")
	require.Len(t, result.Attempts, 1, "the placeholder must still be graded")
	assert.Contains(t, result.FinalSource, "placeholder",
		"the template artifact must carry through the workflow")
}

func TestRunLanguageUnsupportedSkips(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	grader := judgemock.NewMockGrader(ctrl)
	gen := generatemock.NewMockGenerator(ctrl)

	t.Run("RejectedAtSubmit", func(t *testing.T) {
		expectDetails(grader)
		gen.EXPECT().GenerateSolution(gomock.Any(), gomock.Any()).Return("print(1)", nil)
		grader.EXPECT().
			Submit(gomock.Any(), gomock.Any()).
			Return(types.JobHandle(""), pipelineerrors.LanguageUnsupportedError{
				ProblemAlias: "sumas", Language: "py3",
			})

		o := workflow.NewOrchestrator(grader, nil, gen, nil, testOptions, runlog.NewContext())
		result := o.Run(ctx, "sumas")
		assert.Equal(t, types.ItemSkip, result.Status, "language rejection must skip")
	})

	t.Run("RestrictedLanguageList", func(t *testing.T) {
		grader.EXPECT().
			ProblemDetails(gomock.Any(), "karel-maze").
			Return(&judge.ProblemDetails{
				Title:     "Karel Maze",
				Alias:     "karel-maze",
				Languages: []string{"kp", "kj"},
			}, nil)

		o := workflow.NewOrchestrator(grader, nil, gen, nil, testOptions, runlog.NewContext())
		result := o.Run(ctx, "karel-maze")
		assert.Equal(t, types.ItemSkip, result.Status, "restricted language set must skip")
	})
}

func TestRetrySelectionTruthTable(t *testing.T) {
	// The four outcome/score combinations of the selection rule:
	// the retry wins iff it was accepted or strictly outscored the
	// original.
	cases := []struct {
		name          string
		retryOutcome  types.Outcome
		originalScore float64
		retryScore    float64
		retryWins     bool
	}{
		{"AcceptedLowerScore", types.OutcomeAccepted, 0.9, 0.3, true},
		{"AcceptedHigherScore", types.OutcomeAccepted, 0.3, 1.0, true},
		{"RejectedHigherScore", types.OutcomeRejected, 0.4, 0.7, true},
		{"RejectedLowerScore", types.OutcomeRejected, 0.7, 0.4, false},
		{"RejectedEqualScore", types.OutcomeRejected, 0.5, 0.5, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			controller := workflow.NewRetryController(2)
			attempts := []types.AttemptRecord{
				{
					Submission: types.Submission{Source: "original", AttemptIndex: 1},
					Result:     &types.GradingResult{Status: types.TerminalDone, Score: tc.originalScore},
					Outcome:    types.OutcomeRejected,
				},
				{
					Submission: types.Submission{Source: "retry", AttemptIndex: 2},
					Result:     &types.GradingResult{Status: types.TerminalDone, Score: tc.retryScore},
					Outcome:    tc.retryOutcome,
				},
			}

			final := controller.Select(attempts)
			require.NotNil(t, final, "selection must pick an attempt")
			if tc.retryWins {
				assert.Equal(t, "retry", final.Submission.Source, "retry must win")
			} else {
				assert.Equal(t, "original", final.Submission.Source, "original must win")
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	controller := workflow.NewRetryController(2)

	assert.False(t, controller.ShouldRetry(types.OutcomeAccepted, 1),
		"accepted outcomes never retry")
	assert.True(t, controller.ShouldRetry(types.OutcomeRejected, 1),
		"rejections retry while attempts remain")
	assert.True(t, controller.ShouldRetry(types.OutcomePartialCredit, 1),
		"partial credit retries while attempts remain")
	assert.False(t, controller.ShouldRetry(types.OutcomeRejected, 2),
		"no retry past the attempt bound")
}

func TestRunBulk(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	grader := judgemock.NewMockGrader(ctrl)
	gen := generatemock.NewMockGenerator(ctrl)

	aliases := []string{"sumas", "explota", "triangulos"}

	grader.EXPECT().
		ProblemDetails(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alias string) (*judge.ProblemDetails, error) {
			if alias == "explota" {
				return nil, pipelineerrors.TransportError{
					Op: "problem/details", Err: fmt.Errorf("boom"),
				}
			}
			return &judge.ProblemDetails{
				Title:      alias,
				Alias:      alias,
				Statements: map[string]string{"es": "enunciado"},
				Languages:  []string{"py3"},
			}, nil
		}).
		Times(3)
	gen.EXPECT().GenerateSolution(gomock.Any(), gomock.Any()).Return("print(1)", nil).Times(2)
	gen.EXPECT().GenerateEditorial(gomock.Any(), gomock.Any()).Return("# Editorial", nil).Times(2)
	grader.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(types.JobHandle("run"), nil).Times(2)

	waiter := waiterFunc(func(_ context.Context, handle types.JobHandle) (*types.GradingResult, error) {
		return &types.GradingResult{
			GUID: handle, Status: types.TerminalDone,
			Verdict: types.VerdictAccepted, Score: 1,
		}, nil
	})

	o := workflow.NewOrchestrator(grader, waiter, gen, okPublisher(), testOptions, runlog.NewContext())
	bulk := o.RunBulk(ctx, aliases)

	require.Len(t, bulk.Results, 3, "result map must hold every requested alias")
	assert.Equal(t, aliases, bulk.Order, "processing order must match input order")
	assert.Equal(t, types.ItemFailure, bulk.Results["explota"].Status,
		"the failing item must record a failure")
	assert.Equal(t, types.ItemSuccess, bulk.Results["sumas"].Status,
		"items before the failure must succeed")
	assert.Equal(t, types.ItemSuccess, bulk.Results["triangulos"].Status,
		"items after the failure must still be processed")
	assert.Equal(t, 2, bulk.Successes, "wrong success tally")
	assert.Equal(t, 1, bulk.Failures, "wrong failure tally")
	assert.Equal(t, 0, bulk.Skips, "wrong skip tally")
	assert.Equal(t, bulk.Total(), bulk.Successes+bulk.Failures+bulk.Skips,
		"tallies must add up to the total")
}
