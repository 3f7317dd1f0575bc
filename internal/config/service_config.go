package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Signature configures the signing service. FallbackSecret is only used when
// no asymmetric key pair could be loaded or generated.
type Signature struct {
	KeysDir        string
	FallbackSecret string
}

type Compose struct {
	WorkspaceParent string
}

type Render struct {
	CompilerBin string
	PassTimeout time.Duration
	MarkupFile  string
	OutputFile  string
}

type Logger struct {
	Level              string
	PrettyPrintConsole bool
}

// Service is the root configuration of the export pipeline.
type Service struct {
	Signature Signature
	Compose   Compose
	Render    Render
	Logger    Logger
}

// DefaultServiceConfigFromEnv returns the service config, applying defaults
// and SEALDOC_* environment overrides. A .env file in the working directory
// is loaded first if present.
func DefaultServiceConfigFromEnv() Service {
	_ = gotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SEALDOC")
	v.AutomaticEnv()

	v.SetDefault("KEYS_DIR", "keys")
	v.SetDefault("FALLBACK_SECRET", "fallback-secret")
	v.SetDefault("WORKSPACE_PARENT", os.TempDir())
	v.SetDefault("COMPILER_BIN", "pdflatex")
	v.SetDefault("PASS_TIMEOUT", 60*time.Second)
	v.SetDefault("MARKUP_FILE", "output.tex")
	v.SetDefault("OUTPUT_FILE", "output.pdf")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	return Service{
		Signature: Signature{
			KeysDir:        v.GetString("KEYS_DIR"),
			FallbackSecret: v.GetString("FALLBACK_SECRET"),
		},
		Compose: Compose{
			WorkspaceParent: v.GetString("WORKSPACE_PARENT"),
		},
		Render: Render{
			CompilerBin: v.GetString("COMPILER_BIN"),
			PassTimeout: v.GetDuration("PASS_TIMEOUT"),
			MarkupFile:  v.GetString("MARKUP_FILE"),
			OutputFile:  v.GetString("OUTPUT_FILE"),
		},
		Logger: Logger{
			Level:              v.GetString("LOG_LEVEL"),
			PrettyPrintConsole: v.GetBool("LOG_PRETTY"),
		},
	}
}

// ApplyLogger configures the global zerolog logger from the config.
func (c Logger) ApplyLogger() {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		log.Warn().Err(err).Str("level", c.Level).Msg("Unknown log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
