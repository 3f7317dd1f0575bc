package command

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/export"
	"github.com/spf13/cobra"
)

// NewSubcommandGroup returns a command that only exists to group its
// subcommands; invoking it directly prints usage.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: name,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Fatal().Err(err).Msg("Failed to print help")
			}
			os.Exit(0)
		},
	}
	cmd.AddCommand(subcommands...)
	return cmd
}

// WithPipeline applies the logger config, constructs the export pipeline and
// hands it to f. Subcommands that run an export go through here so they all
// bootstrap identically.
func WithPipeline(ctx context.Context, cfg config.Service, f func(ctx context.Context, p *export.Pipeline) error) error {
	cfg.Logger.ApplyLogger()
	return f(ctx, export.NewPipeline(cfg))
}
