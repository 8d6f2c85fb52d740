package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/daemon"
)

// ConfigHandler holds the dependencies needed by the config endpoints.
type ConfigHandler struct {
	state  *daemon.State
	logger *slog.Logger
}

// NewConfigHandler constructs a ConfigHandler.
func NewConfigHandler(state *daemon.State, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{state: state, logger: logger}
}

// configUpdateRequest mirrors daemon.ConfigUpdate with pointer fields so an
// absent key leaves the corresponding setting untouched.
type configUpdateRequest struct {
	GitHubSSHKeyPath    *string `json:"github_ssh_key_path,omitempty"`
	GitHubAPIToken      *string `json:"github_api_token,omitempty"`
	CloudflareTunnelTok *string `json:"cloudflare_tunnel_token,omitempty"`
	CloudflareEnabled   *bool   `json:"cloudflare_enabled,omitempty"`
}

// Get handles GET /api/config. Secrets are reported only as "set" booleans,
// never echoed back in full.
func (handler *ConfigHandler) Get(responseWriter http.ResponseWriter, request *http.Request) {
	writeJsonAndRespond(responseWriter, http.StatusOK, handler.state.ConfigInfo())
}

// Update handles PUT /api/config. Only the fields present in the request
// body are changed; the rest of the configuration is left as-is.
func (handler *ConfigHandler) Update(responseWriter http.ResponseWriter, request *http.Request) {
	var body configUpdateRequest
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		writeErrorJsonAndLogIt(responseWriter, http.StatusBadRequest, "invalid JSON request body", handler.logger)
		return
	}

	err := handler.state.UpdateConfig(daemon.ConfigUpdate{
		GitHubSSHKeyPath:    body.GitHubSSHKeyPath,
		GitHubAPIToken:      body.GitHubAPIToken,
		CloudflareTunnelTok: body.CloudflareTunnelTok,
		CloudflareEnabled:   body.CloudflareEnabled,
	})
	if err != nil {
		handler.logger.Error("failed to update config", "error", err)
		writeErrorJsonAndLogIt(responseWriter, http.StatusInternalServerError, "failed to update config", handler.logger)
		return
	}

	writeJsonAndRespond(responseWriter, http.StatusOK, handler.state.ConfigInfo())
}
