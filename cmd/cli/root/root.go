package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "blogctl",
	Short:         "blogfeed CLI",
	Long:          "Command line interface for the blogfeed API: accounts, tags, blogs and the dashboard feed.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
