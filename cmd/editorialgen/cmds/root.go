package cmds

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/omegaup-tools/editorialgen/cmd/editorialgen/cmds")

var rootCmd = &cobra.Command{
	Use:   "editorialgen",
	Short: "Generates, grades and publishes problem editorials",
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
