package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all deployed projects",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type projectStatusBody struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	State    string `json:"state"`
	URL      string `json:"url"`
	HostPort uint16 `json:"host_port"`
}

func runList(cmd *cobra.Command, args []string) error {
	var statuses []projectStatusBody
	if err := newAPIClient(cmd).do("GET", "/api/projects", nil, &statuses); err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "SLUG\tSTATE\tPORT\tURL")
	for _, status := range statuses {
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", status.Slug, status.State, status.HostPort, status.URL)
	}
	return writer.Flush()
}
