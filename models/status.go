package models

import "time"

// ProjectState is the ephemeral, observed state of a project's container.
type ProjectState string

const (
	StateBuilding   ProjectState = "building"
	StateStarting   ProjectState = "starting"
	StateOnline     ProjectState = "online"
	StateOffline    ProjectState = "offline"
	StateStopped    ProjectState = "stopped"
	StateError      ProjectState = "error"
	StateRebuilding ProjectState = "rebuilding"
)

func (s ProjectState) String() string {
	switch s {
	case StateBuilding:
		return "Building"
	case StateStarting:
		return "Starting"
	case StateOnline:
		return "Online"
	case StateOffline:
		return "Offline"
	case StateStopped:
		return "Stopped"
	case StateError:
		return "Error"
	case StateRebuilding:
		return "Rebuilding"
	default:
		return string(s)
	}
}

// ProjectStatus is synthesized on every query by combining a record with
// live driver observations; it is never persisted.
type ProjectStatus struct {
	Slug          string       `json:"slug"`
	Name          string       `json:"name"`
	State         ProjectState `json:"state"`
	ContainerID   string       `json:"container_id,omitempty"`
	UptimeSecs    *uint64      `json:"uptime_secs,omitempty"`
	MemoryUsageMB *float64     `json:"memory_usage_mb,omitempty"`
	CPUPercent    *float64     `json:"cpu_percent,omitempty"`
	URL           string       `json:"url,omitempty"`
	HostPort      uint16       `json:"host_port"`
	ContainerPort uint16       `json:"container_port"`
	NetworkMode   string       `json:"network_mode"`
	LastDeploy    *time.Time   `json:"last_deploy,omitempty"`
	LastError     string       `json:"last_error,omitempty"`
}

// ProjectDetail extends ProjectStatus with fields only exposed on the
// single-project detail route (the CLI's `status <slug>` prints the repo
// URL, branch and webhook secret).
type ProjectDetail struct {
	Status        ProjectStatus `json:"status"`
	RepoURL       string        `json:"repo_url"`
	Branch        string        `json:"branch"`
	WebhookSecret string        `json:"webhook_secret"`
}
