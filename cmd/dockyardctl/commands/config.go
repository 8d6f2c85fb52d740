package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change daemon-wide configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current daemon configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single configuration key",
	Long: `Recognized keys: github.ssh_key_path, github.api_token,
cloudflare.tunnel_token, cloudflare.enabled`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

type configInfoBody struct {
	GitHubSSHKeyPath   string `json:"github_ssh_key_path,omitempty"`
	GitHubAPITokenSet  bool   `json:"github_api_token_set"`
	CloudflareEnabled  bool   `json:"cloudflare_enabled"`
	CloudflareTunnelID string `json:"cloudflare_tunnel_id,omitempty"`
	WebhookPort        uint16 `json:"webhook_port"`
	SocketPath         string `json:"socket_path"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	var info configInfoBody
	if err := newAPIClient(cmd).do("GET", "/api/config", nil, &info); err != nil {
		return err
	}

	fmt.Printf("github.ssh_key_path:      %s\n", info.GitHubSSHKeyPath)
	fmt.Printf("github.api_token_set:     %t\n", info.GitHubAPITokenSet)
	fmt.Printf("cloudflare.enabled:       %t\n", info.CloudflareEnabled)
	fmt.Printf("cloudflare.tunnel_id:     %s\n", info.CloudflareTunnelID)
	fmt.Printf("daemon.webhook_port:      %d\n", info.WebhookPort)
	fmt.Printf("daemon.socket_path:       %s\n", info.SocketPath)
	return nil
}

type configUpdateBody struct {
	GitHubSSHKeyPath    *string `json:"github_ssh_key_path,omitempty"`
	GitHubAPIToken      *string `json:"github_api_token,omitempty"`
	CloudflareTunnelTok *string `json:"cloudflare_tunnel_token,omitempty"`
	CloudflareEnabled   *bool   `json:"cloudflare_enabled,omitempty"`
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	var update configUpdateBody
	switch key {
	case "github.ssh_key_path":
		update.GitHubSSHKeyPath = &value
	case "github.api_token":
		update.GitHubAPIToken = &value
	case "cloudflare.tunnel_token":
		update.CloudflareTunnelTok = &value
	case "cloudflare.enabled":
		enabled := value == "true"
		update.CloudflareEnabled = &enabled
	default:
		return fmt.Errorf("unrecognized config key %q", key)
	}

	if err := newAPIClient(cmd).do("PUT", "/api/config", update, nil); err != nil {
		return err
	}
	fmt.Printf("set %s\n", key)
	return nil
}
