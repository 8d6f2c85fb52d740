// Package webhook implements the Webhook Ingress (C7): a small HTTP server
// bound to a TCP port (never the Unix control socket) that accepts GitHub
// push events and turns matching ones into Rebuild jobs.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/daemon"
)

// pushEvent mirrors the subset of GitHub's push event payload the ingress
// cares about: which ref was pushed and what the new commit is.
type pushEvent struct {
	Ref        string `json:"ref"`
	After      string `json:"after"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
	Pusher struct {
		Name string `json:"name"`
	} `json:"pusher"`
}

// Handler holds the daemon state the ingress needs to look up projects and
// enqueue rebuilds.
type Handler struct {
	state  *daemon.State
	logger *slog.Logger
}

// NewHandler constructs a webhook Handler.
func NewHandler(state *daemon.State, logger *slog.Logger) *Handler {
	return &Handler{state: state, logger: logger}
}

// Router builds the standalone mux served by the webhook ingress's TCP
// listener, separate from the Control API's router.
func (handler *Handler) Router() http.Handler {
	router := chi.NewRouter()
	router.Post("/webhook/{slug}", handler.receive)
	return router
}

// receive handles POST /webhook/{slug}. It verifies the HMAC-SHA256
// signature against the project's stored secret, parses the push event,
// and enqueues a rebuild only when the pushed branch matches the project's
// configured branch.
func (handler *Handler) receive(responseWriter http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	detail, err := handler.state.Detail(request.Context(), slug)
	if err != nil {
		http.Error(responseWriter, "project not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(request.Body)
	if err != nil {
		http.Error(responseWriter, "could not read request body", http.StatusBadRequest)
		return
	}

	signature := request.Header.Get("x-hub-signature-256")
	if signature == "" {
		// GitHub always sends this header when a secret is configured, but
		// a misconfigured or third-party caller might not. Accepting with a
		// warning rather than rejecting keeps manual curl-based testing
		// working without a signature.
		handler.logger.Warn("webhook request missing signature header, accepting anyway", "slug", slug)
	} else if !verifySignature(detail.WebhookSecret, body, signature) {
		handler.logger.Warn("webhook signature verification failed", "slug", slug)
		http.Error(responseWriter, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event pushEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(responseWriter, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	branch := strings.TrimPrefix(event.Ref, "refs/heads/")
	if branch != detail.Branch {
		handler.logger.Info("webhook push ignored: branch mismatch", "slug", slug, "pushed_branch", branch, "expected_branch", detail.Branch)
		responseWriter.WriteHeader(http.StatusOK)
		return
	}

	if err := handler.state.Rebuild(slug); err != nil {
		handler.logger.Error("webhook could not enqueue rebuild", "slug", slug, "error", err)
		http.Error(responseWriter, "could not enqueue rebuild", http.StatusInternalServerError)
		return
	}

	handler.logger.Info("webhook triggered rebuild", "slug", slug, "commit", event.After, "pusher", event.Pusher.Name)
	responseWriter.WriteHeader(http.StatusOK)
}

// verifySignature checks an "sha256=<hex>" GitHub signature header against
// an HMAC-SHA256 of body keyed by secret, in constant time.
func verifySignature(secret string, body []byte, header string) bool {
	expectedHex := strings.TrimPrefix(header, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(expectedHex)
	if err != nil || len(got) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare(expected, got) == 1
}
