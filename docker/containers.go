package docker

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	dockerimage "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
)

// EnsureNetwork idempotently creates the shared bridge network joining all
// project containers (spec §4.2, §6). Calling it twice in sequence leaves
// exactly one network with the given name.
func (dockerClient *DockerClient) EnsureNetwork(ctx context.Context, name string) error {
	networks, err := dockerClient.sdk.NetworkList(ctx, network.ListOptions{
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return fmt.Errorf("list networks: %w", err)
	}
	for _, n := range networks {
		if n.Name == name {
			return nil
		}
	}

	if _, err := dockerClient.sdk.NetworkCreate(ctx, name, network.CreateOptions{Driver: "bridge"}); err != nil {
		return fmt.Errorf("create network %s: %w", name, err)
	}
	dockerClient.logger.Info("created docker network", "network", name)
	return nil
}

// CreateAndStart creates and starts a container bound to host_port on the
// host, attached to networkName, with a fixed policy: restart
// "unless-stopped", a single TCP port exposed, env vars flattened to
// KEY=VALUE. Returns the created container ID.
func (dockerClient *DockerClient) CreateAndStart(ctx context.Context, containerName, imageTag string, hostPort, containerPort uint16, envVars map[string]string, networkName string) (string, error) {
	if err := dockerClient.pullImageIfNotPresent(ctx, imageTag); err != nil {
		return "", err
	}

	env := make([]string, 0, len(envVars))
	for k, v := range envVars {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	containerPortKey := nat.Port(fmt.Sprintf("%d/tcp", containerPort))

	config := &container.Config{
		Image: imageTag,
		Env:   env,
		ExposedPorts: nat.PortSet{
			containerPortKey: struct{}{},
		},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			containerPortKey: []nat.PortBinding{
				{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", hostPort)},
			},
		},
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
	}

	networkConfig := &network.NetworkingConfig{
		EndpointsConfig: map[string]*network.EndpointSettings{
			networkName: {},
		},
	}

	created, err := dockerClient.sdk.ContainerCreate(ctx, config, hostConfig, networkConfig, nil, containerName)
	if err != nil {
		return "", fmt.Errorf("create container %s: %w", containerName, err)
	}

	if err := dockerClient.sdk.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("start container %s: %w", containerName, err)
	}

	return created.ID, nil
}

// StartExisting starts an already-created container by name (as opposed
// to CreateAndStart, which creates it first). Used by the health watcher's
// restart action and the Control API's start route.
func (dockerClient *DockerClient) StartExisting(ctx context.Context, containerName string) error {
	if err := dockerClient.sdk.ContainerStart(ctx, containerName, container.StartOptions{}); err != nil {
		return fmt.Errorf("start container %s: %w", containerName, err)
	}
	return nil
}

// Stop gracefully stops a running container with a 10-second deadline.
// Returns nil (not an error) if the container does not exist, matching the
// idempotent "desired state already achieved" contract of this driver.
func (dockerClient *DockerClient) Stop(ctx context.Context, containerName string) error {
	exists, err := dockerClient.findByName(ctx, containerName)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	timeout := 10
	if err := dockerClient.sdk.ContainerStop(ctx, containerName, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("stop container %s: %w", containerName, err)
	}
	return nil
}

// Remove force-removes a container and its volumes. Idempotent: removing
// an absent container is not an error.
func (dockerClient *DockerClient) Remove(ctx context.Context, containerName string) error {
	exists, err := dockerClient.findByName(ctx, containerName)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if err := dockerClient.sdk.ContainerRemove(ctx, containerName, container.RemoveOptions{Force: true, RemoveVolumes: true}); err != nil {
		return fmt.Errorf("remove container %s: %w", containerName, err)
	}
	return nil
}

// RemoveImage force-removes an image by name/tag.
func (dockerClient *DockerClient) RemoveImage(ctx context.Context, imageName string) error {
	if _, err := dockerClient.sdk.ImageRemove(ctx, imageName, dockerimage.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("remove image %s: %w", imageName, err)
	}
	return nil
}

// Rename renames a container, used by the blue-green rollover to promote a
// transient "<container>-new" container to its canonical name.
func (dockerClient *DockerClient) Rename(ctx context.Context, from, to string) error {
	if err := dockerClient.sdk.ContainerRename(ctx, from, to); err != nil {
		return fmt.Errorf("rename container %s to %s: %w", from, to, err)
	}
	return nil
}

// Tag re-tags an image under a new repo:tag reference, used by the
// blue-green rollover to promote a transient build to "<image>:latest".
func (dockerClient *DockerClient) Tag(ctx context.Context, srcTag, destRepo, destTag string) error {
	if err := dockerClient.sdk.ImageTag(ctx, srcTag, fmt.Sprintf("%s:%s", destRepo, destTag)); err != nil {
		return fmt.Errorf("tag image %s as %s:%s: %w", srcTag, destRepo, destTag, err)
	}
	return nil
}

// State maps the engine's container state to a ProjectState per the
// table in spec §4.2.
func (dockerClient *DockerClient) State(ctx context.Context, containerName string) (models.ProjectState, error) {
	summaries, err := dockerClient.listByName(ctx, containerName)
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return models.StateOffline, nil
	}

	switch summaries[0].State {
	case "running":
		return models.StateOnline, nil
	case "exited":
		return models.StateStopped, nil
	case "created", "restarting":
		return models.StateStarting, nil
	default:
		return models.StateOffline, nil
	}
}

// IsRunning reports whether a container by that name is currently running.
func (dockerClient *DockerClient) IsRunning(ctx context.Context, containerName string) (bool, error) {
	summaries, err := dockerClient.listByName(ctx, containerName)
	if err != nil {
		return false, err
	}
	for _, s := range summaries {
		if s.State == "running" {
			return true, nil
		}
	}
	return false, nil
}

// Uptime returns seconds since the container's StartedAt, or nil if the
// container is absent or never started.
func (dockerClient *DockerClient) Uptime(ctx context.Context, containerName string) (*uint64, error) {
	inspect, err := dockerClient.sdk.ContainerInspect(ctx, containerName)
	if err != nil {
		return nil, nil // treated as "no uptime available", not a hard failure
	}
	if inspect.State == nil || inspect.State.StartedAt == "" {
		return nil, nil
	}

	startedAt, err := time.Parse(time.RFC3339Nano, inspect.State.StartedAt)
	if err != nil || startedAt.IsZero() {
		// the engine reports a never-started container's StartedAt as
		// the zero time "0001-01-01T00:00:00Z"
		return nil, nil
	}

	seconds := time.Since(startedAt).Seconds()
	if seconds < 0 {
		seconds = 0
	}
	uptime := uint64(seconds)
	return &uptime, nil
}

// Stats returns (memory_MB, cpu_percent) from a single non-streaming
// stats response. CPU is computed from the delta between the current and
// previous sample: (cpu_delta / system_delta) * num_cpus * 100, zero when
// system_delta <= 0 (spec §4.2).
func (dockerClient *DockerClient) Stats(ctx context.Context, containerName string) (float64, float64, error) {
	// stream=false without one-shot makes the engine wait for a second
	// sample, so PreCPUStats holds the previous sample rather than zeros.
	resp, err := dockerClient.sdk.ContainerStats(ctx, containerName, false)
	if err != nil {
		return 0, 0, fmt.Errorf("stats %s: %w", containerName, err)
	}
	defer resp.Body.Close()

	var stats container.StatsResponse
	if err := decodeJSON(resp.Body, &stats); err != nil {
		return 0, 0, fmt.Errorf("decode stats %s: %w", containerName, err)
	}

	memoryMB := float64(stats.MemoryStats.Usage) / 1_048_576.0

	cpuDelta := float64(stats.CPUStats.CPUUsage.TotalUsage) - float64(stats.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(stats.CPUStats.SystemUsage) - float64(stats.PreCPUStats.SystemUsage)
	numCPUs := float64(len(stats.CPUStats.CPUUsage.PercpuUsage))
	if numCPUs == 0 {
		numCPUs = 1
	}

	var cpuPercent float64
	if systemDelta > 0 {
		cpuPercent = (cpuDelta / systemDelta) * numCPUs * 100.0
	}

	return memoryMB, cpuPercent, nil
}

// Logs returns up to `tail` lines of combined stdout/stderr. When follow is
// false, reading stops after tail lines or stream end (spec §4.2).
func (dockerClient *DockerClient) Logs(ctx context.Context, containerName string, tail uint32, follow bool) ([]string, error) {
	reader, err := dockerClient.sdk.ContainerLogs(ctx, containerName, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       fmt.Sprintf("%d", tail),
		Follow:     follow,
	})
	if err != nil {
		return nil, fmt.Errorf("logs %s: %w", containerName, err)
	}
	defer reader.Close()

	return demuxLogLines(reader, tail, follow)
}

func (dockerClient *DockerClient) pullImageIfNotPresent(ctx context.Context, imageName string) error {
	_, _, err := dockerClient.sdk.ImageInspectWithRaw(ctx, imageName)
	if err == nil {
		return nil
	}

	reader, err := dockerClient.sdk.ImagePull(ctx, imageName, dockerimage.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", imageName, err)
	}
	defer reader.Close()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("drain image pull stream for %s: %w", imageName, err)
	}
	return nil
}

func (dockerClient *DockerClient) listByName(ctx context.Context, containerName string) ([]container.Summary, error) {
	containers, err := dockerClient.sdk.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", containerName)),
	})
	if err != nil {
		return nil, fmt.Errorf("list containers matching %s: %w", containerName, err)
	}

	// The name filter is a substring match; find the exact match by
	// checking Docker's internal "/"-prefixed name convention.
	matches := make([]container.Summary, 0, 1)
	for _, c := range containers {
		for _, name := range c.Names {
			if strings.TrimPrefix(name, "/") == containerName {
				matches = append(matches, c)
				break
			}
		}
	}
	return matches, nil
}

func (dockerClient *DockerClient) findByName(ctx context.Context, containerName string) (bool, error) {
	matches, err := dockerClient.listByName(ctx, containerName)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}
