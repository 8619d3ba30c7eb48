package types

// ItemStatus classifies one processed problem for the aggregate tally.
// Skips (for example a problem that only accepts a restricted language
// set) count against neither successes nor failures.
type ItemStatus string

const (
	ItemSuccess ItemStatus = "success"
	ItemFailure ItemStatus = "failure"
	ItemSkip    ItemStatus = "skip"
)

// PublicationTarget is the record for one locale of a published editorial.
// Never mutated after verification.
type PublicationTarget struct {
	Locale    string `json:"locale"`
	Content   string `json:"content,omitempty"`
	Published bool   `json:"published"`
	Verified  bool   `json:"verified"`
	Error     string `json:"error,omitempty"`
}

// WorkflowResult is the terminal record for one problem.
type WorkflowResult struct {
	ProblemAlias string                       `json:"problem_alias"`
	Title        string                       `json:"title,omitempty"`
	Status       ItemStatus                   `json:"status"`
	FinalVerdict Verdict                      `json:"final_verdict"`
	FinalScore   float64                      `json:"final_score"`
	FinalSource  string                       `json:"final_source,omitempty"`
	Attempts     []AttemptRecord              `json:"attempts"`
	Publications map[string]PublicationTarget `json:"publications,omitempty"`
	Error        string                       `json:"error,omitempty"`
}

// BulkResult aggregates a bulk run. Results always holds one entry per
// requested problem, failures included.
type BulkResult struct {
	Results   map[string]*WorkflowResult `json:"results"`
	Order     []string                   `json:"order"`
	Successes int                        `json:"successes"`
	Failures  int                        `json:"failures"`
	Skips     int                        `json:"skips"`
}

// Total is the number of items processed.
func (b *BulkResult) Total() int { return len(b.Results) }

// Process exit codes.
const (
	ExitNormal  int = 0
	ExitErrored int = 1
)

// UnixMilli is a unix timestamp at millisecond resolution.
type UnixMilli int64
