package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"

	"github.com/omegaup-tools/editorialgen/cmd/editorialgen/cmds"
	"github.com/omegaup-tools/editorialgen/internal/logger"
	oteleditorialgen "github.com/omegaup-tools/editorialgen/internal/otel"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

var tracer = otel.Tracer("github.com/omegaup-tools/editorialgen/editorialgen")

func runApp(ctx context.Context) int {
	useOTLP, err := strconv.ParseBool(os.Getenv("USE_OTLP"))
	if err != nil {
		useOTLP = false
	}

	shutdown, err := oteleditorialgen.SetupOTelSDK(ctx, useOTLP)
	if err != nil {
		logger.Logger.Warn("failed to setup otel sdk")
	}
	defer func() {
		fail := shutdown(ctx)
		if fail != nil {
			logger.Logger.Warn("no clean shutdown for otel", "error", fail)
		}
	}()

	ctx, span := tracer.Start(ctx, "Editorialgen")
	defer span.End()

	err = cmds.Execute(ctx)
	if err != nil {
		logger.Logger.Error("error executing subcommands", "error", err)

		var ee pipelineerrors.ExitError
		if errors.As(err, &ee) {
			return ee.Code
		}
		return types.ExitErrored
	}

	return types.ExitNormal
}

func main() {
	logger.LogLevel.Set(slog.LevelDebug)
	logger.InitSlog()

	ctx := context.Background()

	os.Exit(runApp(ctx))
}
