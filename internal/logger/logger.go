package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	slogotel "github.com/remychantenay/slog-otel"
)

var LogLevel = new(slog.LevelVar)

var jsonHandler = slog.NewJSONHandler(
	os.Stderr,
	&slog.HandlerOptions{AddSource: true, Level: LogLevel},
)
var sloghandler = slogotel.NewOtelHandler(slogotel.WithNoTraceEvents(true))
var Handler = sloghandler(jsonHandler)
var Logger = slog.New(Handler)

func InitSlog() {
	slog.SetDefault(Logger)
	LogLevel.Set(slog.LevelDebug)
}

// InitRunLog switches the process logger to one that tees to stderr and an
// append-only, timestamped log file under dir, one stream per run. The
// file is diagnostic only and never read back. Returns a close func for
// the file.
func InitRunLog(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("editorial_%s.log", time.Now().UTC().Format("20060102_150405"))
	f, err := os.OpenFile(
		filepath.Join(dir, name),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o640,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log file: %w", err)
	}

	h := slog.NewJSONHandler(
		io.MultiWriter(os.Stderr, f),
		&slog.HandlerOptions{AddSource: true, Level: LogLevel},
	)
	Handler = sloghandler(h)
	Logger = slog.New(Handler)
	slog.SetDefault(Logger)

	return f.Close, nil
}
