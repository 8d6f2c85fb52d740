package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new project from a git repository",
	RunE:  runDeploy,
}

func init() {
	deployCmd.Flags().String("repo", "", "git repository URL (required)")
	deployCmd.Flags().String("branch", "main", "branch to deploy")
	deployCmd.Flags().Bool("public", false, "expose the project publicly instead of localhost-only")
	deployCmd.Flags().String("domain", "", "public hostname (required when --public is set)")
	deployCmd.Flags().Uint16("port", 3000, "port the container listens on")
	deployCmd.Flags().StringToString("env", nil, "environment variables, e.g. --env KEY=value")
	_ = deployCmd.MarkFlagRequired("repo")

	rootCmd.AddCommand(deployCmd)
}

type deployRequestBody struct {
	RepoURL       string            `json:"repo_url"`
	Branch        string            `json:"branch"`
	NetworkMode   string            `json:"network_mode"`
	Hostname      string            `json:"hostname"`
	ContainerPort uint16            `json:"container_port"`
	EnvVars       map[string]string `json:"env_vars,omitempty"`
}

type deployResponseBody struct {
	Slug       string `json:"Slug"`
	Name       string `json:"Name"`
	URL        string `json:"URL"`
	WebhookURL string `json:"WebhookURL"`
	HostPort   uint16 `json:"HostPort"`
}

func runDeploy(cmd *cobra.Command, args []string) error {
	repo, _ := cmd.Flags().GetString("repo")
	branch, _ := cmd.Flags().GetString("branch")
	public, _ := cmd.Flags().GetBool("public")
	domain, _ := cmd.Flags().GetString("domain")
	port, _ := cmd.Flags().GetUint16("port")
	env, _ := cmd.Flags().GetStringToString("env")

	networkMode := "local_only"
	if public {
		networkMode = "public"
	}

	var response deployResponseBody
	err := newAPIClient(cmd).do("POST", "/api/projects", deployRequestBody{
		RepoURL:       repo,
		Branch:        branch,
		NetworkMode:   networkMode,
		Hostname:      domain,
		ContainerPort: port,
		EnvVars:       env,
	}, &response)
	if err != nil {
		return err
	}

	fmt.Printf("deployed %s\n", response.Slug)
	fmt.Printf("  url:     %s\n", response.URL)
	fmt.Printf("  webhook: %s\n", response.WebhookURL)
	return nil
}
