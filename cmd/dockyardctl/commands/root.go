package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dockyardctl",
	Short: "Control the corvus-paas deploy daemon",
	Long: `dockyardctl talks to dockyardd over its Unix control socket to
deploy, inspect, and manage self-hosted projects.`,
}

func init() {
	rootCmd.PersistentFlags().String("socket", defaultSocketPath(), "path to the dockyardd control socket")
}

// Execute runs the root command; called from main.go.
func Execute() error {
	return rootCmd.Execute()
}

func defaultSocketPath() string {
	if path := envOr("DOCKYARD_SOCKET", ""); path != "" {
		return path
	}
	return "/var/lib/dockyard/dockyard.sock"
}
