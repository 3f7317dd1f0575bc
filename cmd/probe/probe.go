package probe

import (
	"github.com/sealdoc/sealdoc/internal/util/command"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newCompiler(),
	)
}
