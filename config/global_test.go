package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlobalConfigReturnsDefaultsWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	defaults := DefaultGlobalConfig("/tmp/dockyard.sock")

	loaded, err := LoadGlobalConfig(path, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, loaded)
}

func TestGlobalConfigSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	defaults := DefaultGlobalConfig("/tmp/dockyard.sock")

	original := defaults
	original.GitHub.SSHKeyPath = "/home/user/.ssh/id_ed25519"
	original.Cloudflare.Enabled = true
	original.Cloudflare.TunnelID = "tunnel-123"

	require.NoError(t, original.Save(path))

	loaded, err := LoadGlobalConfig(path, defaults)
	require.NoError(t, err)

	assert.Equal(t, original.GitHub.SSHKeyPath, loaded.GitHub.SSHKeyPath)
	assert.Equal(t, original.Cloudflare.Enabled, loaded.Cloudflare.Enabled)
	assert.Equal(t, original.Cloudflare.TunnelID, loaded.Cloudflare.TunnelID)
	assert.Equal(t, original.Daemon.WebhookPort, loaded.Daemon.WebhookPort)
}
