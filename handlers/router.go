package handlers

// router.go constructs the chi router, registers all middleware, and wires
// all routes to their respective handlers. it is the single source of truth
// for the HTTP surface area of the corvus control plane Control API, served
// over the Unix control socket (never the public webhook TCP port).

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/daemon"
)

// RouterDependencies groups all external dependencies that the router and
// its handlers need. passing a single struct instead of N arguments keeps
// CreateAndSetupRouter's signature stable as more handlers are added.
type RouterDependencies struct {
	Logger *slog.Logger
	State  *daemon.State
}

// CreateAndSetupRouter constructs the chi multiplexer, attaches middleware,
// constructs all handlers with their dependencies, and registers all
// routes. it returns a plain http.Handler so callers have no chi import or
// awareness.
func CreateAndSetupRouter(dependencies RouterDependencies) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	healthHandler := NewHealthHandler(dependencies.State, dependencies.Logger)
	projectHandler := NewProjectHandler(dependencies.State, dependencies.Logger)
	configHandler := NewConfigHandler(dependencies.State, dependencies.Logger)

	router.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Get("/health", healthHandler.Health)

		apiRouter.Get("/projects", projectHandler.List)
		apiRouter.Post("/projects", projectHandler.Create)
		apiRouter.Get("/projects/{slug}", projectHandler.Get)
		apiRouter.Delete("/projects/{slug}", projectHandler.Delete)
		apiRouter.Post("/projects/{slug}/rebuild", projectHandler.Rebuild)
		apiRouter.Post("/projects/{slug}/start", projectHandler.Start)
		apiRouter.Post("/projects/{slug}/stop", projectHandler.Stop)
		apiRouter.Get("/projects/{slug}/logs", projectHandler.Logs)

		apiRouter.Get("/config", configHandler.Get)
		apiRouter.Put("/config", configHandler.Update)
	})

	return router
}
