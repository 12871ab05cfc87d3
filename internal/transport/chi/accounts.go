package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/betahouse/listings/internal/domain"
	domuser "github.com/betahouse/listings/internal/domain/user"
)

// Signup handles POST /api/auth/signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	u, token, err := s.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionFor(u, token))
}

// Signin handles POST /api/auth/signin.
func (s *Server) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	u, token, err := s.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionFor(u, token))
}

// Me handles GET /api/users/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	u, err := s.users.Me(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: userToView(u)})
}

// UpdateMe handles PUT /api/users/me.
func (s *Server) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	u, err := s.users.UpdateMe(r.Context(), id, req.Name, req.AvatarURL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: userToView(u)})
}

func sessionFor(u domuser.User, token string) sessionResponse {
	return sessionResponse{
		User:  sessionUser{ID: u.ID(), Name: u.Name(), Email: u.Email()},
		Token: token,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}
