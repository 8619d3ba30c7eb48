package types

// Verdict is the judge's outcome code for a graded run.
//
// The set mirrors the verdicts the grader is known to emit. Anything else
// maps to VerdictUnknown so a judge-side addition degrades to a rejection
// instead of a parse failure.
type Verdict string

const (
	VerdictAccepted           Verdict = "AC"  // Accepted
	VerdictPartialAccepted    Verdict = "PA"  // Partially accepted (partial credit)
	VerdictWrongAnswer        Verdict = "WA"  // Wrong answer
	VerdictTimeLimitExceeded  Verdict = "TLE" // Time limit exceeded
	VerdictMemoryLimitExceded Verdict = "MLE" // Memory limit exceeded
	VerdictOutputLimitExceded Verdict = "OLE" // Output limit exceeded
	VerdictRuntimeError       Verdict = "RTE" // Runtime error
	VerdictRestrictedFunction Verdict = "RFE" // Restricted function used
	VerdictCompileError       Verdict = "CE"  // Compilation error
	VerdictJudgeError         Verdict = "JE"  // Judge internal error
	VerdictValidatorError     Verdict = "VE"  // Validator error
	VerdictUnknown            Verdict = ""    // Absent or unrecognized
)

// ParseVerdict maps a raw verdict string to the closed Verdict set.
func ParseVerdict(raw string) Verdict {
	switch Verdict(raw) {
	case VerdictAccepted, VerdictPartialAccepted, VerdictWrongAnswer,
		VerdictTimeLimitExceeded, VerdictMemoryLimitExceded,
		VerdictOutputLimitExceded, VerdictRuntimeError,
		VerdictRestrictedFunction, VerdictCompileError,
		VerdictJudgeError, VerdictValidatorError:
		return Verdict(raw)
	default:
		return VerdictUnknown
	}
}

// Outcome is the three-way classification derived from a Verdict.
type Outcome string

const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomePartialCredit Outcome = "partial_credit"
	OutcomeRejected      Outcome = "rejected"
)

// TerminalStatus describes how a poll cycle ended. The three states are
// mutually exclusive; Timeout never carries a meaningful verdict.
type TerminalStatus string

const (
	TerminalDone    TerminalStatus = "done"
	TerminalError   TerminalStatus = "error"
	TerminalTimeout TerminalStatus = "timeout"
)
