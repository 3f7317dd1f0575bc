package export

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/export"
	"github.com/sealdoc/sealdoc/internal/util/command"
	"github.com/spf13/cobra"
)

func newRun() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Exports a project manifest to a signed PDF",
		Run: func(cmd *cobra.Command, _ []string) {
			manifestPath, err := cmd.Flags().GetString(manifestFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read manifest flag")
			}
			outputPath, err := cmd.Flags().GetString(outputFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read output flag")
			}
			runExport(cmd.Context(), manifestPath, outputPath)
		},
	}
	cmd.Flags().StringP(manifestFlag, "m", "project.yaml", "Path to the project manifest")
	cmd.Flags().StringP(outputFlag, "o", "", "Output PDF path (defaults to <project name>.pdf)")
	return cmd
}

func runExport(ctx context.Context, manifestPath, outputPath string) {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Logger.ApplyLogger()

	project, err := loadProject(manifestPath)
	if err != nil {
		log.Fatal().Err(err).Str("manifest", manifestPath).Msg("Failed to load project manifest")
	}
	if outputPath == "" {
		outputPath = project.DownloadName()
	}

	err = command.WithPipeline(ctx, cfg, func(ctx context.Context, p *export.Pipeline) error {
		return p.ExportToFile(ctx, project, outputPath)
	})
	if err != nil {
		log.Fatal().Err(err).Str("project_name", project.Name).Msg("Export failed")
	}
	log.Info().Str("output", outputPath).Msg("Export written")
}
