package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/daemon"
)

// HealthHandler holds the dependencies needed by the health endpoint.
type HealthHandler struct {
	state  *daemon.State
	logger *slog.Logger
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(state *daemon.State, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{state: state, logger: logger}
}

// healthResponse is the JSON body returned by the health endpoint.
type healthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	UptimeSecs   uint64 `json:"uptime_secs"`
	ProjectCount int    `json:"project_count"`
}

// Health handles GET /api/health. Returns process liveness plus a couple of
// cheap counters, not a full readiness probe: it does not ping Docker.
func (handler *HealthHandler) Health(responseWriter http.ResponseWriter, request *http.Request) {
	response := healthResponse{
		Status:       "ok",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		UptimeSecs:   handler.state.UptimeSecs(),
		ProjectCount: handler.state.ProjectCount(),
	}
	writeJsonAndRespond(responseWriter, http.StatusOK, response)
}
