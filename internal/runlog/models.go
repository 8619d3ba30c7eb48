package runlog

import (
	"github.com/omegaup-tools/editorialgen/internal/types"
)

var schemaVersion = "0.1.0"
var logContext = "runlog"

type Disposition string

const (
	DispositionNeutral Disposition = "neutral"
	DispositionGood    Disposition = "good"
	DispositionBad     Disposition = "bad"
)

type EventType string

const (
	EvtRunSubmitted        EventType = "run_submitted"
	EvtRunResult           EventType = "run_result"
	EvtAttemptRetry        EventType = "attempt_retry"
	EvtEditorialPublished  EventType = "editorial_published"
	EvtPublicationVerified EventType = "publication_verified"
	EvtProblemSkipped      EventType = "problem_skipped"
	EvtProblemFinished     EventType = "problem_finished"
	EvtReportArchived      EventType = "report_archived"
)

type Message struct {
	ProblemAlias  *string     `json:"problem_alias"`
	LogContext    string      `json:"log_context" validate:"required"`
	SchemaVersion string      `json:"version"     validate:"required"`
	RunID         string      `json:"run_id"      validate:"required"`
	Disposition   Disposition `json:"disposition" validate:"required"`
	Type          EventType   `json:"event_type"  validate:"required"`

	Timestamp types.UnixMilli `json:"timestamp" validate:"required"`
}

type RunSubmittedEvent struct {
	GUID         string `json:"guid"          validate:"required"`
	Language     string `json:"language"      validate:"required"`
	AttemptIndex int    `json:"attempt_index"`
	SourceSHA256 string `json:"source_sha256"`
}

type RunSubmitted struct {
	Event RunSubmittedEvent `json:"event" validate:"required"`
	Message
}

type RunResultEvent struct {
	GUID    string               `json:"guid"    validate:"required"`
	Status  types.TerminalStatus `json:"status"  validate:"required"`
	Verdict types.Verdict        `json:"verdict"`
	Score   float64              `json:"score"`
	Outcome types.Outcome        `json:"outcome"`
}

type RunResult struct {
	Event RunResultEvent `json:"event" validate:"required"`
	Message
}

type AttemptRetryEvent struct {
	PreviousVerdict types.Verdict `json:"previous_verdict"`
	PreviousScore   float64       `json:"previous_score"`
	Feedback        string        `json:"feedback"`
}

type AttemptRetry struct {
	Event AttemptRetryEvent `json:"event" validate:"required"`
	Message
}

type EditorialPublishedEvent struct {
	Locale        string `json:"locale" validate:"required"`
	ContentLength int    `json:"content_length"`
	CommitMessage string `json:"commit_message"`
}

type EditorialPublished struct {
	Event EditorialPublishedEvent `json:"event" validate:"required"`
	Message
}

type PublicationVerifiedEvent struct {
	Locale   string `json:"locale" validate:"required"`
	Verified bool   `json:"verified"`
}

type PublicationVerified struct {
	Event PublicationVerifiedEvent `json:"event" validate:"required"`
	Message
}

type ProblemSkippedEvent struct {
	Reason string `json:"reason" validate:"required"`
}

type ProblemSkipped struct {
	Event ProblemSkippedEvent `json:"event" validate:"required"`
	Message
}

type ProblemFinishedEvent struct {
	Status       types.ItemStatus `json:"status"        validate:"required"`
	FinalVerdict types.Verdict    `json:"final_verdict"`
	FinalScore   float64          `json:"final_score"`
	Attempts     int              `json:"attempts"`
}

type ProblemFinished struct {
	Event ProblemFinishedEvent `json:"event" validate:"required"`
	Message
}

type ReportArchivedEvent struct {
	BucketName string `json:"bucket_name" validate:"required"`
	ObjectName string `json:"object_name" validate:"required"`
	SHA256     string `json:"sha256"`
}

type ReportArchived struct {
	Event ReportArchivedEvent `json:"event" validate:"required"`
	Message
}
