package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <slug>",
	Short: "Show detailed status for a single project",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type projectDetailBody struct {
	Status        projectStatusBody `json:"status"`
	RepoURL       string            `json:"repo_url"`
	Branch        string            `json:"branch"`
	WebhookSecret string            `json:"webhook_secret"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	slug := args[0]

	var detail projectDetailBody
	if err := newAPIClient(cmd).do("GET", "/api/projects/"+slug, nil, &detail); err != nil {
		return err
	}

	fmt.Printf("slug:     %s\n", detail.Status.Slug)
	fmt.Printf("name:     %s\n", detail.Status.Name)
	fmt.Printf("state:    %s\n", detail.Status.State)
	fmt.Printf("url:      %s\n", detail.Status.URL)
	fmt.Printf("repo:     %s (%s)\n", detail.RepoURL, detail.Branch)
	fmt.Printf("webhook:  secret=%s\n", detail.WebhookSecret)
	return nil
}
