package daemon

import "github.com/sasta-kro/corvus-paas/corvus-control-plane/config"

// ConfigInfo is a redacted view of the global configuration exposed over
// the Control API (secrets are reported as "set" booleans, never echoed).
type ConfigInfo struct {
	GitHubSSHKeyPath   string `json:"github_ssh_key_path,omitempty"`
	GitHubAPITokenSet  bool   `json:"github_api_token_set"`
	CloudflareEnabled  bool   `json:"cloudflare_enabled"`
	CloudflareTunnelID string `json:"cloudflare_tunnel_id,omitempty"`
	WebhookPort        uint16 `json:"webhook_port"`
	SocketPath         string `json:"socket_path"`
}

// ConfigUpdate is a partial update to the global configuration; nil fields
// are left unchanged, and a non-nil field (even one pointing at an empty
// string) overwrites the setting.
type ConfigUpdate struct {
	GitHubSSHKeyPath    *string
	GitHubAPIToken      *string
	CloudflareTunnelTok *string
	CloudflareEnabled   *bool
}

func (s *State) ConfigInfo() ConfigInfo {
	cfg := s.GlobalConfig()
	return ConfigInfo{
		GitHubSSHKeyPath:   cfg.GitHub.SSHKeyPath,
		GitHubAPITokenSet:  cfg.GitHub.APIToken != "",
		CloudflareEnabled:  cfg.Cloudflare.Enabled,
		CloudflareTunnelID: cfg.Cloudflare.TunnelID,
		WebhookPort:        cfg.Daemon.WebhookPort,
		SocketPath:         cfg.Daemon.SocketPath,
	}
}

func (s *State) UpdateConfig(update ConfigUpdate) error {
	return s.UpdateGlobalConfig(func(cfg *config.GlobalConfig) {
		if update.GitHubSSHKeyPath != nil {
			cfg.GitHub.SSHKeyPath = *update.GitHubSSHKeyPath
		}
		if update.GitHubAPIToken != nil {
			cfg.GitHub.APIToken = *update.GitHubAPIToken
		}
		if update.CloudflareTunnelTok != nil {
			cfg.Cloudflare.TunnelToken = *update.CloudflareTunnelTok
		}
		if update.CloudflareEnabled != nil {
			cfg.Cloudflare.Enabled = *update.CloudflareEnabled
		}
	})
}
