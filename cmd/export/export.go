package export

import (
	"github.com/sealdoc/sealdoc/internal/util/command"
	"github.com/spf13/cobra"
)

const (
	manifestFlag string = "manifest"
	outputFlag   string = "output"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("export",
		newRun(),
		newTex(),
	)
}
