package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/daemon"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
)

// ProjectHandler holds the dependencies needed by every project endpoint.
type ProjectHandler struct {
	state  *daemon.State
	logger *slog.Logger
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(state *daemon.State, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{state: state, logger: logger}
}

// deployRequest defines the shape of the JSON body accepted by
// POST /api/projects. fields mirror daemon.DeployRequest; optional fields
// simply default to their zero value when absent (container_port falls
// back to 3000, network_mode falls back to local_only below).
type deployRequest struct {
	RepoURL       string            `json:"repo_url"`
	Branch        string            `json:"branch"`
	NetworkMode   string            `json:"network_mode"`
	Hostname      string            `json:"hostname"`
	ContainerPort uint16            `json:"container_port"`
	EnvVars       map[string]string `json:"env_vars,omitempty"`
}

// List handles GET /api/projects. Returns the live status of every known
// project, an empty JSON array (not null) when there are none.
func (handler *ProjectHandler) List(responseWriter http.ResponseWriter, request *http.Request) {
	statuses, err := handler.state.ListStatuses(request.Context())
	if err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to list projects", handler.logger)
		return
	}
	if statuses == nil {
		statuses = []models.ProjectStatus{}
	}
	writeJsonAndRespond(responseWriter, http.StatusOK, statuses)
}

// Get handles GET /api/projects/{slug}. Returns the project's detail view
// including its repo URL, branch, and webhook secret.
func (handler *ProjectHandler) Get(responseWriter http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	detail, err := handler.state.Detail(request.Context(), slug)
	if errors.Is(err, daemon.ErrProjectNotFound) {
		writeErrorJsonAndLogIt(responseWriter, http.StatusNotFound, "project not found", handler.logger)
		return
	}
	if err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to get project", handler.logger)
		return
	}
	writeJsonAndRespond(responseWriter, http.StatusOK, detail)
}

// Create handles POST /api/projects. Decodes and validates the request,
// derives the project's name/slug from the repo URL, and enqueues the
// initial deploy. The build itself runs asynchronously; this handler
// returns as soon as the record is persisted and the job is queued.
func (handler *ProjectHandler) Create(responseWriter http.ResponseWriter, request *http.Request) {
	var body deployRequest
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusBadRequest, "invalid JSON request body", handler.logger)
		return
	}

	if body.RepoURL == "" {
		writeErrorJsonAndLogIt(responseWriter, http.StatusBadRequest, "repo_url is required", handler.logger)
		return
	}

	networkMode := models.NetworkLocalOnly
	if body.NetworkMode == string(models.NetworkPublic) {
		networkMode = models.NetworkPublic
	}
	if networkMode == models.NetworkPublic && body.Hostname == "" {
		writeErrorJsonAndLogIt(responseWriter, http.StatusBadRequest, "hostname is required for public network_mode", handler.logger)
		return
	}

	containerPort := body.ContainerPort
	if containerPort == 0 {
		containerPort = 3000
	}

	response, err := handler.state.Deploy(request.Context(), daemon.DeployRequest{
		RepoURL:       body.RepoURL,
		Branch:        body.Branch,
		NetworkMode:   networkMode,
		Hostname:      body.Hostname,
		ContainerPort: containerPort,
		EnvVars:       body.EnvVars,
	})
	if errors.Is(err, daemon.ErrProjectAlreadyExists) {
		writeErrorJsonAndLogIt(responseWriter, http.StatusConflict, "a project with this name already exists", handler.logger)
		return
	}
	if err != nil {
		handler.logger.Error("failed to deploy project", "error", err)
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to deploy project", handler.logger)
		return
	}

	writeJsonAndRespond(responseWriter, http.StatusCreated, response)
}

// Rebuild handles POST /api/projects/{slug}/rebuild.
func (handler *ProjectHandler) Rebuild(responseWriter http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")
	if err := handler.state.Rebuild(slug); errors.Is(err, daemon.ErrProjectNotFound) {
		writeErrorJsonAndLogIt(responseWriter, http.StatusNotFound, "project not found", handler.logger)
		return
	} else if err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to enqueue rebuild", handler.logger)
		return
	}
	writeJsonAndRespond(responseWriter, http.StatusAccepted, map[string]string{"status": "rebuild queued"})
}

// Start handles POST /api/projects/{slug}/start.
func (handler *ProjectHandler) Start(responseWriter http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")
	if err := handler.state.Start(request.Context(), slug); errors.Is(err, daemon.ErrProjectNotFound) {
		writeErrorJsonAndLogIt(responseWriter, http.StatusNotFound, "project not found", handler.logger)
		return
	} else if err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to start project", handler.logger)
		return
	}
	writeJsonAndRespond(responseWriter, http.StatusOK, map[string]string{"status": "started"})
}

// Stop handles POST /api/projects/{slug}/stop.
func (handler *ProjectHandler) Stop(responseWriter http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")
	if err := handler.state.Stop(request.Context(), slug); errors.Is(err, daemon.ErrProjectNotFound) {
		writeErrorJsonAndLogIt(responseWriter, http.StatusNotFound, "project not found", handler.logger)
		return
	} else if err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to stop project", handler.logger)
		return
	}
	writeJsonAndRespond(responseWriter, http.StatusOK, map[string]string{"status": "stopped"})
}

// Delete handles DELETE /api/projects/{slug}.
func (handler *ProjectHandler) Delete(responseWriter http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")
	if err := handler.state.Delete(request.Context(), slug); errors.Is(err, daemon.ErrProjectNotFound) {
		writeErrorJsonAndLogIt(responseWriter, http.StatusNotFound, "project not found", handler.logger)
		return
	} else if err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to delete project", handler.logger)
		return
	}
	writeJsonAndRespond(responseWriter, http.StatusOK, map[string]string{"status": "deleted"})
}

// Logs handles GET /api/projects/{slug}/logs?tail=100.
func (handler *ProjectHandler) Logs(responseWriter http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	tail := uint32(100)
	if raw := request.URL.Query().Get("tail"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			tail = uint32(parsed)
		}
	}

	lines, err := handler.state.Logs(request.Context(), slug, tail, false)
	if errors.Is(err, daemon.ErrProjectNotFound) {
		writeErrorJsonAndLogIt(responseWriter, http.StatusNotFound, "project not found", handler.logger)
		return
	}
	if err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to fetch logs", handler.logger)
		return
	}
	writeJsonAndRespond(responseWriter, http.StatusOK, map[string][]string{"lines": lines})
}
