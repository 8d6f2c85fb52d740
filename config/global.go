package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GlobalConfig is the on-disk daemon-wide configuration file (spec §6):
// sections github, cloudflare, daemon, proxy. Unknown fields are ignored on
// read (toml.Decode's default behavior); missing fields take the defaults
// applied by DefaultGlobalConfig.
type GlobalConfig struct {
	GitHub     GitHubConfig     `toml:"github"`
	Cloudflare CloudflareConfig `toml:"cloudflare"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Proxy      ProxyConfig      `toml:"proxy"`
}

type GitHubConfig struct {
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
	APIToken   string `toml:"api_token,omitempty"`
}

type CloudflareConfig struct {
	TunnelToken string `toml:"tunnel_token,omitempty"`
	TunnelID    string `toml:"tunnel_id,omitempty"`
	Enabled     bool   `toml:"enabled"`
}

type DaemonConfig struct {
	WebhookPort uint16 `toml:"webhook_port"`
	SocketPath  string `toml:"socket_path"`
	LogLevel    string `toml:"log_level"`
}

// ProxyConfig describes the reverse-proxy administration endpoint. The
// client that talks to it is an out-of-scope external collaborator
// (spec §1); only the config field describing where it lives is carried.
type ProxyConfig struct {
	AdminAPI string `toml:"admin_api"`
}

// DefaultGlobalConfig returns the configuration a fresh install starts
// with, matching the reference's Default impls.
func DefaultGlobalConfig(socketPath string) GlobalConfig {
	return GlobalConfig{
		Daemon: DaemonConfig{
			WebhookPort: 9876,
			SocketPath:  socketPath,
			LogLevel:    "info",
		},
		Proxy: ProxyConfig{
			AdminAPI: "http://localhost:2019",
		},
	}
}

// LoadGlobalConfig reads the config file at path, falling back to defaults
// (with no error) when the file does not exist.
func LoadGlobalConfig(path string, defaults GlobalConfig) (GlobalConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaults, nil
	}

	cfg := defaults
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return GlobalConfig{}, fmt.Errorf("decode global config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func (cfg GlobalConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode global config: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp config file into place: %w", err)
	}
	return nil
}
