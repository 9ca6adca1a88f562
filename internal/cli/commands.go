package cli

import (
	"github.com/spf13/cobra"

	cmdpkg "github.com/berrythewa/neowatch/internal/cli/cmd"
)

// registerCommands attaches the subcommands to root
func registerCommands(root *cobra.Command) {
	for _, command := range cmdpkg.GetCommands() {
		root.AddCommand(command)
	}
}
