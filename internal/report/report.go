// Package report renders the aggregate record of a run to disk and
// optionally archives it to an object store by content hash.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omegaup-tools/editorialgen/internal/logger"
	"github.com/omegaup-tools/editorialgen/internal/runlog"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

// Envelope is the persisted shape of one run's aggregate report.
type Envelope struct {
	RunID       string            `json:"run_id"`
	GeneratedAt types.UnixMilli   `json:"generated_at"`
	Successes   int               `json:"successes"`
	Failures    int               `json:"failures"`
	Skips       int               `json:"skips"`
	Total       int               `json:"total"`
	Results     *types.BulkResult `json:"results"`
}

type Writer struct {
	dir      string
	uploader Uploader
	log      runlog.Context
	clock    func() time.Time
}

// NewWriter builds a report writer. uploader may be nil, in which case
// reports stay local.
func NewWriter(dir string, uploader Uploader, log runlog.Context) *Writer {
	return &Writer{
		dir:      dir,
		uploader: uploader,
		log:      log,
		clock:    time.Now,
	}
}

// Write renders the bulk result to a timestamped JSON file under the
// report directory and, when an uploader is configured, archives the
// same bytes by content hash. Archival failures are logged and do not
// fail the run; the local file is the source of truth.
func (w *Writer) Write(ctx context.Context, bulk *types.BulkResult) (string, error) {
	ctx, span := tracer.Start(ctx, "Writer.Write", trace.WithAttributes(
		attribute.Int("total", bulk.Total()),
	))
	defer span.End()

	envelope := Envelope{
		RunID:       w.log.RunID,
		GeneratedAt: types.UnixMilli(w.clock().UTC().UnixMilli()),
		Successes:   bulk.Successes,
		Failures:    bulk.Failures,
		Skips:       bulk.Skips,
		Total:       bulk.Total(),
		Results:     bulk,
	}

	content, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize report")
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create report directory")
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("report_%s.json", w.clock().UTC().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, content, 0o640); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write report file")
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	if w.uploader != nil {
		w.archive(ctx, content)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "wrote report")
	return path, nil
}

func (w *Writer) archive(ctx context.Context, content []byte) {
	objectName, err := Hashed(ctx, w.uploader, bytes.NewReader(content), int64(len(content)))
	if err != nil {
		logger.Logger.WarnContext(ctx, "failed to archive report", "error", err)
		return
	}

	bucket, err := w.uploader.StoreIdentifier(ctx)
	if err != nil {
		logger.Logger.WarnContext(ctx, "failed to identify report store", "error", err)
		bucket = ""
	}

	runlog.LogReportArchived(w.log, bucket, objectName, objectName)
}
