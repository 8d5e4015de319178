package cli

import (
	"github.com/spf13/cobra"

	"github.com/graphsnap/graphsnap/internal/logger"
)

// verbose enables debug logging.
var verbose bool

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "graphsnap",
	Short: "Snapshot your Outlook mail and calendar to a JSON file",
	Long: `Graphsnap authenticates against Microsoft Entra ID, retrieves your inbox,
sent mail, and calendar events from Microsoft Graph, and exports everything
to a single JSON snapshot file.

Credentials are read from a TOML config file (default ~/.graphsnap/config.toml).`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}
