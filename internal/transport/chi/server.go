package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/betahouse/listings/internal/domain"
	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/search/request"
	"github.com/betahouse/listings/internal/domain/search/result"
	domuser "github.com/betahouse/listings/internal/domain/user"
	logpkg "github.com/betahouse/listings/internal/logger"
	healthuc "github.com/betahouse/listings/internal/usecase/health"
)

type propertyService interface {
	Create(ctx context.Context, in domprop.Input, owner string, files []domain.Upload) (domprop.Property, error)
	Get(ctx context.Context, id string) (domprop.Property, error)
	Update(ctx context.Context, id string, in domprop.Input, files []domain.Upload) (domprop.Property, error)
	Delete(ctx context.Context, id string) error
}

type searchService interface {
	Search(ctx context.Context, params request.Params) (result.Page, error)
}

type authService interface {
	Signup(ctx context.Context, name, email, password string) (domuser.User, string, error)
	Signin(ctx context.Context, email, password string) (domuser.User, string, error)
	Authenticate(token string) (string, error)
}

type userService interface {
	Me(ctx context.Context, id string) (domuser.User, error)
	UpdateMe(ctx context.Context, id string, name, avatarURL *string) (domuser.User, error)
}

type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the listings API.
type Server struct {
	properties    propertyService
	search        searchService
	auth          authService
	users         userService
	health        healthService
	logger        *zap.Logger
	exposeDetail  bool
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	properties propertyService,
	search searchService,
	auth authService,
	users userService,
	health healthService,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		properties: properties,
		search:     search,
		auth:       auth,
		users:      users,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		bodyTooLargeHandler,
		sentinelHandler(errMalformedBody, http.StatusBadRequest, "Invalid request body"),
		validationHandler,
		sentinelHandler(domain.ErrInvalidID, http.StatusBadRequest, "Invalid ID"),
		sentinelHandler(domain.ErrPropertyNotFound, http.StatusNotFound, "Property not found"),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, "User not found"),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, "Email already in use"),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, "Invalid token"),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, "Too many requests"),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, "Not implemented"),
	}
	return s
}

// WithErrorDetail includes the internal error text in 500 responses. Never enable in prod.
func (s *Server) WithErrorDetail(expose bool) *Server {
	s.exposeDetail = expose
	return s
}

// Root handles GET /api.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "BetaHouse API"})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: report.Checks})
}

type errorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	Detail  string              `json:"detail,omitempty"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, message)
		return true
	}
}

// validationHandler reports field-level failures.
func validationHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: "Validation failed",
		Errors:  domain.Fields(err),
	})
	return true
}

func bodyTooLargeHandler(w http.ResponseWriter, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}

	log.Error("internal error", zap.Error(err))
	resp := errorResponse{Message: "Internal Server Error"}
	if s.exposeDetail {
		resp.Detail = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}
