package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/betahouse/listings/internal/logger"
)

type userIDKey struct{}

// UserIDFromContext returns the authenticated user id set by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// RequireAuth rejects requests without a valid "Bearer <token>" header
// and stores the token subject in the request context.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "Token error")
			return
		}

		userID, err := s.auth.Authenticate(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		log := logpkg.FromContextOr(ctx, s.logger).With(zap.String("user_id", userID))
		ctx = logpkg.ContextWithLogger(ctx, log)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
