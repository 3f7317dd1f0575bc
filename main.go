package main

import (
	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/cmd/export"
	"github.com/sealdoc/sealdoc/cmd/keys"
	"github.com/sealdoc/sealdoc/cmd/probe"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sealdoc",
		Short: "Signed document assembly pipeline",
		Long:  "Assembles project artifacts into a single signed PDF via LaTeX.",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Fatal().Err(err).Msg("Failed to print help")
			}
		},
	}

	rootCmd.AddCommand(
		export.New(),
		keys.New(),
		probe.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
