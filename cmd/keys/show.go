package keys

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/signature"
	"github.com/spf13/cobra"
)

func newShow() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Prints the current public signing key",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()
			cfg.Logger.ApplyLogger()

			pem, err := signature.New(cfg.Signature).PublicKeyPEM()
			if err != nil {
				log.Fatal().Err(err).Str("keys_dir", cfg.Signature.KeysDir).
					Msg("No public key available")
			}
			fmt.Print(string(pem))
		},
	}
}
