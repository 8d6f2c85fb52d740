package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs <slug>",
	Short: "Show a project's container logs",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().Uint32("tail", 100, "number of lines to show")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	slug := args[0]
	tail, _ := cmd.Flags().GetUint32("tail")

	var body struct {
		Lines []string `json:"lines"`
	}
	path := fmt.Sprintf("/api/projects/%s/logs?tail=%d", slug, tail)
	if err := newAPIClient(cmd).do("GET", path, nil, &body); err != nil {
		return err
	}

	for _, line := range body.Lines {
		fmt.Println(line)
	}
	return nil
}
