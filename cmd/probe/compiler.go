package probe

import (
	"fmt"
	"os/exec"

	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/spf13/cobra"
)

func newCompiler() *cobra.Command {
	return &cobra.Command{
		Use:   "compiler",
		Short: "Checks the configured typesetting compiler is on PATH",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()
			cfg.Logger.ApplyLogger()

			path, err := exec.LookPath(cfg.Render.CompilerBin)
			if err != nil {
				log.Fatal().Err(err).Str("compiler", cfg.Render.CompilerBin).
					Msg("Compiler binary not found")
			}
			fmt.Println(path)
		},
	}
}
