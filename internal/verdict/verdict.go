// Package verdict classifies grading results and renders the feedback
// block a failed attempt feeds back into regeneration.
package verdict

import (
	"fmt"
	"strings"

	"github.com/omegaup-tools/editorialgen/internal/types"
)

// Classify maps a terminal grading result onto the three-way outcome.
// Timeouts and judge-side errors classify as rejected.
func Classify(result *types.GradingResult) types.Outcome {
	if result.Status != types.TerminalDone {
		return types.OutcomeRejected
	}

	switch result.Verdict {
	case types.VerdictAccepted:
		return types.OutcomeAccepted
	case types.VerdictPartialAccepted:
		return types.OutcomePartialCredit
	default:
		return types.OutcomeRejected
	}
}

// Feedback renders the diagnostic block handed to the generator when an
// attempt fails. The field order is fixed so two identical results always
// produce byte-identical feedback; empty fields are omitted entirely.
func Feedback(result *types.GradingResult) string {
	if result.Status == types.TerminalTimeout {
		return "The grader did not finish judging the previous solution " +
			"within the wait budget. Prefer an approach with a lower time " +
			"complexity and avoid slow input handling."
	}

	var b strings.Builder

	if result.Verdict != types.VerdictUnknown {
		fmt.Fprintf(&b, "verdict: %s\n", result.Verdict)
	}
	fmt.Fprintf(&b, "score: %g\n", result.Score)
	if result.Execution != "" {
		fmt.Fprintf(&b, "execution: %s\n", result.Execution)
	}
	if result.Output != "" {
		fmt.Fprintf(&b, "output: %s\n", result.Output)
	}

	return strings.TrimRight(b.String(), "\n")
}
