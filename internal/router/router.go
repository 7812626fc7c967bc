package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-policy-admin/docs"
	"github.com/FACorreiaa/go-policy-admin/internal/api"
	"github.com/FACorreiaa/go-policy-admin/internal/api/policy"
	"github.com/FACorreiaa/go-policy-admin/internal/api/user"
	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

// Config contains dependencies needed for the router setup
type Config struct {
	UserHandler    user.Handler
	PolicyHandler  policy.Handler
	AllowedOrigins []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) is applied in main.go
// before mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, types.MsgRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, types.MsgRouteNotFound)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSONResponse(w, r, http.StatusOK, types.HealthResponse{Status: "ok"})
	})

	r.Get("/api-docs/*", httpSwagger.Handler(httpSwagger.URL("/api-docs/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.ListUsers)
			r.Post("/", cfg.UserHandler.CreateUser)
			r.Get("/{id}", cfg.UserHandler.GetUser)
			r.Put("/{id}", cfg.UserHandler.UpdateUser)
			r.Patch("/{id}/profile-image", cfg.UserHandler.UpdateProfileImage)
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", cfg.PolicyHandler.ListPolicies)
			r.Post("/assign", cfg.PolicyHandler.AssignPolicy)
			r.Delete("/users/{userId}/{policyId}", cfg.PolicyHandler.RemovePolicy)
		})
	})

	return r
}
