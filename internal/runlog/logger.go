// Package runlog emits the machine-readable event stream for one
// pipeline run. Events go to stdout as single-line JSON so operators
// can grep a run or feed it to downstream tooling; the slog stream
// stays diagnostic.
package runlog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omegaup-tools/editorialgen/internal/logger"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

type Context struct {
	ProblemAlias *string
	RunID        string
}

// NewContext mints the identity shared by every event of one run.
func NewContext() Context {
	return Context{RunID: uuid.NewString()}
}

// WithProblem narrows a run context to one problem.
func (c Context) WithProblem(alias string) Context {
	return Context{RunID: c.RunID, ProblemAlias: &alias}
}

func (c Context) fill(m *Message, disp Disposition, t EventType) {
	m.LogContext = logContext
	m.SchemaVersion = schemaVersion
	m.RunID = c.RunID
	m.ProblemAlias = c.ProblemAlias
	m.Disposition = disp
	m.Type = t
	m.Timestamp = types.UnixMilli(time.Now().UTC().UnixMilli())
}

func dispForOutcome(outcome types.Outcome) Disposition {
	switch outcome {
	case types.OutcomeAccepted:
		return DispositionGood
	case types.OutcomePartialCredit:
		return DispositionNeutral
	default:
		return DispositionBad
	}
}

func dispForItemStatus(status types.ItemStatus) Disposition {
	switch status {
	case types.ItemSuccess:
		return DispositionGood
	case types.ItemSkip:
		return DispositionNeutral
	default:
		return DispositionBad
	}
}

func emit(event any, kind EventType) {
	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error("could not serialize runlog event", "eventType", kind)
		return
	}
	fmt.Println(string(evtStr))
}

func LogRunSubmitted(c Context, guid types.JobHandle, language string, attemptIndex int, sourceSHA256 string) {
	event := RunSubmitted{}
	c.fill(&event.Message, DispositionNeutral, EvtRunSubmitted)

	event.Event.GUID = string(guid)
	event.Event.Language = language
	event.Event.AttemptIndex = attemptIndex
	event.Event.SourceSHA256 = sourceSHA256

	emit(event, EvtRunSubmitted)
}

func LogRunResult(c Context, result *types.GradingResult, outcome types.Outcome) {
	event := RunResult{}
	c.fill(&event.Message, dispForOutcome(outcome), EvtRunResult)

	event.Event.GUID = string(result.GUID)
	event.Event.Status = result.Status
	event.Event.Verdict = result.Verdict
	event.Event.Score = result.Score
	event.Event.Outcome = outcome

	emit(event, EvtRunResult)
}

func LogAttemptRetry(c Context, previous *types.GradingResult, feedback string) {
	event := AttemptRetry{}
	c.fill(&event.Message, DispositionNeutral, EvtAttemptRetry)

	event.Event.PreviousVerdict = previous.Verdict
	event.Event.PreviousScore = previous.Score
	event.Event.Feedback = feedback

	emit(event, EvtAttemptRetry)
}

func LogEditorialPublished(c Context, locale string, contentLength int, commitMessage string) {
	event := EditorialPublished{}
	c.fill(&event.Message, DispositionNeutral, EvtEditorialPublished)

	event.Event.Locale = locale
	event.Event.ContentLength = contentLength
	event.Event.CommitMessage = commitMessage

	emit(event, EvtEditorialPublished)
}

func LogPublicationVerified(c Context, locale string, verified bool) {
	event := PublicationVerified{}
	disp := DispositionGood
	if !verified {
		disp = DispositionBad
	}
	c.fill(&event.Message, disp, EvtPublicationVerified)

	event.Event.Locale = locale
	event.Event.Verified = verified

	emit(event, EvtPublicationVerified)
}

func LogProblemSkipped(c Context, reason string) {
	event := ProblemSkipped{}
	c.fill(&event.Message, DispositionNeutral, EvtProblemSkipped)

	event.Event.Reason = reason

	emit(event, EvtProblemSkipped)
}

func LogProblemFinished(c Context, result *types.WorkflowResult) {
	event := ProblemFinished{}
	c.fill(&event.Message, dispForItemStatus(result.Status), EvtProblemFinished)

	event.Event.Status = result.Status
	event.Event.FinalVerdict = result.FinalVerdict
	event.Event.FinalScore = result.FinalScore
	event.Event.Attempts = len(result.Attempts)

	emit(event, EvtProblemFinished)
}

func LogReportArchived(c Context, bucketName, objectName, sha256 string) {
	event := ReportArchived{}
	c.fill(&event.Message, DispositionNeutral, EvtReportArchived)

	event.Event.BucketName = bucketName
	event.Event.ObjectName = objectName
	event.Event.SHA256 = sha256

	emit(event, EvtReportArchived)
}
