package types

// Submission is one artifact sent to the grader. Immutable once submitted.
type Submission struct {
	ProblemAlias string `json:"problem_alias" validate:"required"`
	Language     string `json:"language"      validate:"required"`
	Source       string `json:"source"        validate:"required"`
	AttemptIndex int    `json:"attempt_index"`
}

// JobHandle is the grader's opaque reference to an in-flight run.
type JobHandle string

// GradingResult is the normalized terminal state of one grading job.
//
// Status == TerminalTimeout means the wait budget elapsed with no terminal
// status from the grader; Verdict is VerdictUnknown and Score is zero in
// that case.
type GradingResult struct {
	GUID      JobHandle      `json:"guid"`
	Status    TerminalStatus `json:"status"     validate:"required"`
	Verdict   Verdict        `json:"verdict"`
	Score     float64        `json:"score"`
	RuntimeMs int64          `json:"runtime_ms"`
	MemoryKB  int64          `json:"memory_kb"`
	Execution string         `json:"execution,omitempty"`
	Output    string         `json:"output,omitempty"`
}

// AttemptRecord pairs a submission with its grading result and
// classification. A workflow holds at most MaxAttempts of these.
type AttemptRecord struct {
	Submission Submission     `json:"submission"`
	Result     *GradingResult `json:"result,omitempty"`
	Outcome    Outcome        `json:"outcome"`
	Feedback   string         `json:"feedback,omitempty"`
}
