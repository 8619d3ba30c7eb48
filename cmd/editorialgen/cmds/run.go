package cmds

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"

	"github.com/omegaup-tools/editorialgen/internal/logger"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run <problem_alias>",
	Short: "Generate, grade and publish an editorial for one problem",
	Long: `
- Exits with 0 if the problem was processed and published.
- Exits with 1 on failure. A problem skipped for an unsupported
  language also exits with 1 since nothing was published.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "runCmd")
		defer span.End()

		alias := args[0]

		p, err := buildPipeline(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to build pipeline")
			return err
		}
		defer p.close()

		bulk := p.orchestrator.RunBulk(ctx, []string{alias})

		path, err := p.writer.Write(ctx, bulk)
		if err != nil {
			logger.Logger.WarnContext(ctx, "failed to write report", "error", err)
		} else {
			logger.Logger.InfoContext(ctx, "wrote report", "path", path)
		}

		if bulk.Successes == 0 {
			result := bulk.Results[alias]
			err := fmt.Errorf("problem %q was not published: %s", alias, result.Error)
			span.RecordError(err)
			span.SetStatus(codes.Error, "problem not published")
			return pipelineerrors.ExitErrorWrap(types.ExitErrored, err)
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "problem processed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
