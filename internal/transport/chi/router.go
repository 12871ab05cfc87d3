package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/betahouse/listings/internal/metrics"
	"github.com/betahouse/listings/internal/ratelimit"
)

// RouterConfig carries the cross-cutting middleware settings.
type RouterConfig struct {
	Logger         *zap.Logger
	Limiter        ratelimit.Limiter // nil disables rate limiting
	LimiterDriver  string
	AllowedOrigins []string
}

// NewRouter mounts the API on a chi router with the standard middleware chain.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(wideEventMiddleware(logger))
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(chiMiddleware.Compress(5))
	r.Use(metrics.Middleware())
	r.Use(rateLimitMiddleware(cfg.Limiter, cfg.LimiterDriver, logger))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "Route "+req.URL.RequestURI()+" not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method "+req.Method+" not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.Root)

		r.Post("/auth/signup", s.Signup)
		r.Post("/auth/signin", s.Signin)

		r.With(s.RequireAuth).Get("/users/me", s.Me)
		r.With(s.RequireAuth).Put("/users/me", s.UpdateMe)

		r.Get("/search", s.ListProperties)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", s.ListProperties)
			r.With(s.RequireAuth).Post("/", s.CreateProperty)
			r.Get("/{id}", s.GetProperty)
			r.With(s.RequireAuth).Put("/{id}", s.UpdateProperty)
			r.With(s.RequireAuth).Delete("/{id}", s.DeleteProperty)
		})
	})

	return r
}
