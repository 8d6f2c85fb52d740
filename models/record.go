// Package models defines the persisted and ephemeral data shapes shared
// across the daemon: project records, derived status, and scheduler jobs.
package models

import (
	"time"

	"github.com/google/uuid"
)

// NetworkMode controls how a project's URL is derived and whether it is
// expected to be reachable only from the host or from the public internet.
type NetworkMode string

const (
	NetworkLocalOnly NetworkMode = "local_only"
	NetworkPublic    NetworkMode = "public"
)

func (m NetworkMode) String() string {
	switch m {
	case NetworkLocalOnly:
		return "Local Only"
	case NetworkPublic:
		return "Public"
	default:
		return string(m)
	}
}

// DomainConfig describes how a project is exposed on the host.
type DomainConfig struct {
	Hostname      string `toml:"hostname,omitempty" json:"hostname,omitempty"`
	ContainerPort uint16 `toml:"container_port" json:"container_port"`
	HostPort      uint16 `toml:"host_port" json:"host_port"`
}

// ContainerConfig names the artifacts a project's build produces and runs.
type ContainerConfig struct {
	ImageName      string            `toml:"image_name" json:"image_name"`
	ContainerName  string            `toml:"container_name" json:"container_name"`
	DockerfilePath string            `toml:"dockerfile_path" json:"dockerfile_path"`
	EnvVars        map[string]string `toml:"env_vars" json:"env_vars"`
}

// WebhookConfig holds the per-project push-notification secret.
type WebhookConfig struct {
	Secret           string `toml:"secret" json:"secret"`
	GitHostWebhookID *int64 `toml:"git_host_webhook_id,omitempty" json:"git_host_webhook_id,omitempty"`
}

// ProjectRecord is the persisted unit of the Project Store (C1). The `id`
// is stable across renames; `slug` is the primary key and is derived once
// at creation time from `name` and never edited independently.
type ProjectRecord struct {
	ID      uuid.UUID `toml:"id" json:"id"`
	Name    string    `toml:"name" json:"name"`
	Slug    string    `toml:"slug" json:"slug"`
	RepoURL string    `toml:"repo_url" json:"repo_url"`
	Branch  string    `toml:"branch" json:"branch"`

	NetworkMode NetworkMode     `toml:"network_mode" json:"network_mode"`
	Domain      DomainConfig    `toml:"domain" json:"domain"`
	Container   ContainerConfig `toml:"container" json:"container"`
	Webhook     WebhookConfig   `toml:"webhook" json:"webhook"`

	CreatedAt time.Time `toml:"created_at" json:"created_at"`
	UpdatedAt time.Time `toml:"updated_at" json:"updated_at"`

	Enabled bool `toml:"enabled" json:"enabled"`
}

// Clone returns a deep-enough copy safe to hand to callers outside the
// daemon state's lock: the records map exclusively owns the original, and
// every external read gets a value clone per the ownership model in §3.
func (r *ProjectRecord) Clone() *ProjectRecord {
	clone := *r
	clone.Container.EnvVars = make(map[string]string, len(r.Container.EnvVars))
	for k, v := range r.Container.EnvVars {
		clone.Container.EnvVars[k] = v
	}
	if r.Webhook.GitHostWebhookID != nil {
		id := *r.Webhook.GitHostWebhookID
		clone.Webhook.GitHostWebhookID = &id
	}
	return &clone
}
