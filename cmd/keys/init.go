package keys

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/signature"
	"github.com/spf13/cobra"
)

func newInit() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Loads or generates the signing key pair and prints the public key",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()
			cfg.Logger.ApplyLogger()

			s := signature.New(cfg.Signature)
			s.Initialize()
			if !s.AsymmetricEnabled() {
				log.Warn().Str("keys_dir", cfg.Signature.KeysDir).
					Msg("No asymmetric key pair available, signatures will use the HMAC fallback")
				return
			}

			pem, err := s.PublicKeyPEM()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read public key")
			}
			fmt.Print(string(pem))
		},
	}
}
