// Command dockyardd is the corvus control plane daemon: it owns the Docker
// connection, the project store, the job scheduler, the health watcher, and
// the two HTTP front ends (the Unix-socket Control API and the TCP webhook
// ingress).
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/config"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/daemon"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/docker"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/handlers"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/store"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/webhook"
)

func main() {
	bootstrap := config.LoadBootstrapConfig()
	logger := bootstrap.NewLogger()

	if err := os.MkdirAll(bootstrap.Paths.DataDir, 0o755); err != nil {
		logger.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(bootstrap.Paths.ConfigDir, 0o755); err != nil {
		logger.Error("failed to create config directory", "error", err)
		os.Exit(1)
	}

	globalConfig, err := config.LoadGlobalConfig(
		bootstrap.Paths.GlobalConfigPath(),
		config.DefaultGlobalConfig(bootstrap.Paths.SocketPath()),
	)
	if err != nil {
		logger.Error("failed to load global config", "error", err)
		os.Exit(1)
	}

	dockerClient, err := docker.NewClient(logger)
	if err != nil {
		logger.Error("failed to connect to docker", "error", err)
		os.Exit(1)
	}
	defer dockerClient.Close()

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	err = dockerClient.EnsureNetwork(bootCtx, daemon.SharedNetwork)
	cancelBoot()
	if err != nil {
		logger.Error("failed to ensure shared network", "error", err)
		os.Exit(1)
	}

	projectStore := store.New(bootstrap.Paths, logger)
	state := daemon.NewState(globalConfig, bootstrap.Paths, dockerClient, projectStore, logger)

	if err := state.LoadRecords(); err != nil {
		logger.Error("failed to load project records", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded project records", "count", state.ProjectCount())
	state.Reconcile(context.Background())

	pidPath := bootstrap.Paths.PIDFilePath()
	writePIDFile(pidPath, logger)
	defer os.Remove(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go state.RunScheduler(ctx)
	go state.RunWatcher(ctx)

	socketPath := bootstrap.Paths.SocketPath()
	controlServer := &http.Server{
		Handler: handlers.CreateAndSetupRouter(handlers.RouterDependencies{Logger: logger, State: state}),
	}
	webhookServer := &http.Server{
		Addr:    "0.0.0.0:" + strconv.Itoa(int(globalConfig.Daemon.WebhookPort)),
		Handler: webhook.NewHandler(state, logger).Router(),
	}

	go serveControlAPI(controlServer, socketPath, logger)
	go serveWebhookIngress(webhookServer, logger)

	logger.Info("dockyardd started",
		"socket", socketPath,
		"webhook_port", globalConfig.Daemon.WebhookPort,
		"projects", state.ProjectCount(),
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := controlServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("control API shutdown error", "error", err)
	}
	if err := webhookServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("webhook ingress shutdown error", "error", err)
	}
	os.Remove(socketPath)
}

func serveControlAPI(server *http.Server, socketPath string, logger *slog.Logger) {
	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		logger.Error("could not bind control socket", "path", socketPath, "error", err)
		os.Exit(1)
	}
	if err := os.Chmod(socketPath, 0o660); err != nil {
		logger.Error("could not chmod control socket", "path", socketPath, "error", err)
		os.Exit(1)
	}

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("control API server error", "error", err)
		os.Exit(1)
	}
}

func serveWebhookIngress(server *http.Server, logger *slog.Logger) {
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("webhook ingress server error", "error", err)
		os.Exit(1)
	}
}

func writePIDFile(path string, logger *slog.Logger) {
	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		logger.Warn("could not write pid file", "error", err)
	}
}
