package cmds

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"

	"github.com/omegaup-tools/editorialgen/internal/logger"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/problems"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

var bulkListPath string

var bulkCmd = &cobra.Command{
	Use:   "bulk [problem_alias ...]",
	Short: "Process a list of problems sequentially",
	Long: `
Problems come from positional arguments, from --list, or both. Each
problem is processed independently; one failure never stops the rest.

- Exits with 0 if at least one problem was published.
- Exits with 1 otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "bulkCmd")
		defer span.End()

		aliases := args
		if bulkListPath != "" {
			fromFile, err := problems.ParseFile(bulkListPath)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to read problem list")
				return fmt.Errorf("failed to read problem list: %w", err)
			}
			aliases = append(aliases, fromFile...)
		}
		if len(aliases) == 0 {
			err := errors.New("no problems given, pass aliases or --list")
			span.RecordError(err)
			span.SetStatus(codes.Error, "no problems given")
			return err
		}

		p, err := buildPipeline(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to build pipeline")
			return err
		}
		defer p.close()

		bulk := p.orchestrator.RunBulk(ctx, aliases)

		path, err := p.writer.Write(ctx, bulk)
		if err != nil {
			logger.Logger.WarnContext(ctx, "failed to write report", "error", err)
		} else {
			logger.Logger.InfoContext(ctx, "wrote report", "path", path)
		}

		logger.Logger.InfoContext(ctx, "bulk run finished",
			"total", bulk.Total(),
			"successes", bulk.Successes,
			"failures", bulk.Failures,
			"skips", bulk.Skips,
		)

		if bulk.Successes == 0 {
			err := fmt.Errorf("no problem out of %d was published", bulk.Total())
			span.RecordError(err)
			span.SetStatus(codes.Error, "no problem published")
			return pipelineerrors.ExitErrorWrap(types.ExitErrored, err)
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "bulk run finished")
		return nil
	},
}

func init() {
	bulkCmd.Flags().StringVar(&bulkListPath, "list", "",
		"path to a file with one problem alias per line")
	rootCmd.AddCommand(bulkCmd)
}
