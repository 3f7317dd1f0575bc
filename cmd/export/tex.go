package export

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/export"
	"github.com/sealdoc/sealdoc/internal/util/command"
	"github.com/spf13/cobra"
)

// tex prints the composed markup without invoking the compiler, which makes
// template problems visible before a full render.
func newTex() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tex",
		Short: "Prints the composed LaTeX source without compiling it",
		Run: func(cmd *cobra.Command, _ []string) {
			manifestPath, err := cmd.Flags().GetString(manifestFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read manifest flag")
			}

			cfg := config.DefaultServiceConfigFromEnv()
			cfg.Logger.ApplyLogger()

			project, err := loadProject(manifestPath)
			if err != nil {
				log.Fatal().Err(err).Str("manifest", manifestPath).Msg("Failed to load project manifest")
			}

			err = command.WithPipeline(cmd.Context(), cfg, func(_ context.Context, p *export.Pipeline) error {
				markup, err := p.ComposeMarkup(project)
				if err != nil {
					return err
				}
				fmt.Println(markup)
				return nil
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Composition failed")
			}
		},
	}
	cmd.Flags().StringP(manifestFlag, "m", "project.yaml", "Path to the project manifest")
	return cmd
}
