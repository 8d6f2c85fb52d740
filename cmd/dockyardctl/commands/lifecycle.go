package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <slug>",
	Short: "Rebuild a project from its latest commit (zero-downtime)",
	Args:  cobra.ExactArgs(1),
	RunE:  actionCommand("POST", "/rebuild", "rebuild queued for"),
}

var startCmd = &cobra.Command{
	Use:   "start <slug>",
	Short: "Start a stopped project's container",
	Args:  cobra.ExactArgs(1),
	RunE:  actionCommand("POST", "/start", "started"),
}

var stopCmd = &cobra.Command{
	Use:   "stop <slug>",
	Short: "Stop a running project's container",
	Args:  cobra.ExactArgs(1),
	RunE:  actionCommand("POST", "/stop", "stopped"),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Stop, remove, and forget a project entirely",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(rebuildCmd, startCmd, stopCmd, deleteCmd)
}

// actionCommand builds a RunE for the simple fire-and-confirm subcommands
// that all share the same shape: POST to /api/projects/{slug}<suffix> and
// print a one-line confirmation.
func actionCommand(method, suffix, verb string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		if err := newAPIClient(cmd).do(method, "/api/projects/"+slug+suffix, nil, nil); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", verb, slug)
		return nil
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	slug := args[0]
	if err := newAPIClient(cmd).do("DELETE", "/api/projects/"+slug, nil, nil); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", slug)
	return nil
}
