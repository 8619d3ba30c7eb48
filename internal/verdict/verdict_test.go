package verdict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omegaup-tools/editorialgen/internal/types"
	"github.com/omegaup-tools/editorialgen/internal/verdict"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		result   types.GradingResult
		expected types.Outcome
	}{
		{
			name: "Accepted",
			result: types.GradingResult{
				Status: types.TerminalDone, Verdict: types.VerdictAccepted, Score: 1,
			},
			expected: types.OutcomeAccepted,
		},
		{
			name: "PartialCredit",
			result: types.GradingResult{
				Status: types.TerminalDone, Verdict: types.VerdictPartialAccepted, Score: 0.45,
			},
			expected: types.OutcomePartialCredit,
		},
		{
			name: "WrongAnswer",
			result: types.GradingResult{
				Status: types.TerminalDone, Verdict: types.VerdictWrongAnswer,
			},
			expected: types.OutcomeRejected,
		},
		{
			name: "TimeLimit",
			result: types.GradingResult{
				Status: types.TerminalDone, Verdict: types.VerdictTimeLimitExceeded,
			},
			expected: types.OutcomeRejected,
		},
		{
			// A verdict string the grader added after this code shipped.
			name: "UnrecognizedVerdict",
			result: types.GradingResult{
				Status: types.TerminalDone, Verdict: types.ParseVerdict("XYZ"),
			},
			expected: types.OutcomeRejected,
		},
		{
			name: "JudgeError",
			result: types.GradingResult{
				Status: types.TerminalError, Verdict: types.VerdictJudgeError,
			},
			expected: types.OutcomeRejected,
		},
		{
			// An accepted-looking verdict on an errored run still rejects.
			name: "ErroredRunWithVerdict",
			result: types.GradingResult{
				Status: types.TerminalError, Verdict: types.VerdictAccepted,
			},
			expected: types.OutcomeRejected,
		},
		{
			name:     "Timeout",
			result:   types.GradingResult{Status: types.TerminalTimeout},
			expected: types.OutcomeRejected,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, verdict.Classify(&tc.result),
				"wrong outcome for %s", tc.name)
		})
	}
}

func TestFeedback(t *testing.T) {
	t.Run("AllFieldsPresent", func(t *testing.T) {
		result := types.GradingResult{
			Status:    types.TerminalDone,
			Verdict:   types.VerdictWrongAnswer,
			Score:     0.25,
			Execution: "EXECUTION_FINISHED",
			Output:    "OUTPUT_INCORRECT",
		}
		expected := "verdict: WA\nscore: 0.25\nexecution: EXECUTION_FINISHED\noutput: OUTPUT_INCORRECT"
		assert.Equal(t, expected, verdict.Feedback(&result), "wrong feedback block")
	})

	t.Run("EmptyFieldsOmitted", func(t *testing.T) {
		result := types.GradingResult{
			Status:  types.TerminalDone,
			Verdict: types.VerdictRuntimeError,
		}
		expected := "verdict: RTE\nscore: 0"
		assert.Equal(t, expected, verdict.Feedback(&result), "wrong feedback block")
	})

	t.Run("Deterministic", func(t *testing.T) {
		result := types.GradingResult{
			Status:  types.TerminalDone,
			Verdict: types.VerdictTimeLimitExceeded,
			Score:   0.6,
			Output:  "OUTPUT_INTERRUPTED",
		}
		first := verdict.Feedback(&result)
		second := verdict.Feedback(&result)
		assert.Equal(t, first, second, "identical results must render identical feedback")
	})

	t.Run("Timeout", func(t *testing.T) {
		result := types.GradingResult{Status: types.TerminalTimeout}
		got := verdict.Feedback(&result)
		assert.Contains(t, got, "wait budget", "timeout feedback must name the budget")
		assert.NotContains(t, got, "verdict:", "timeout feedback must not invent a verdict")
	})
}
