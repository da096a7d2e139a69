package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dtroode/evalca-server/internal/api/http/response"
	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
)

// Authenticator resolves bearer tokens to users and checks roles.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (model.User, error)
	Authorize(user model.User, role model.RoleName) (model.User, error)
}

// Authenticate validates bearer tokens and injects the user into the request context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Handle rejects requests without a valid access token.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			response.Error(w, r, m.logger, apierror.NewErrMissingAuthorizationToken())
			return
		}

		user, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			m.logger.Debug("Authenticate middleware: request rejected",
				"path", r.URL.Path,
				"error", err.Error())
			response.Error(w, r, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserToContext(r.Context(), user)))
	})
}

// RequireRole rejects authenticated users whose role differs from role.
// It must run after Handle.
func (m *Authenticate) RequireRole(role model.RoleName) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.contextManager.GetUserFromContext(r.Context())
			if !ok {
				response.Error(w, r, m.logger, apierror.NewErrMissingAuthorizationToken())
				return
			}
			if _, err := m.authenticator.Authorize(user, role); err != nil {
				m.logger.Info("Authenticate middleware: role check failed",
					"user_id", user.ID,
					"role", user.Role,
					"required", role)
				response.Error(w, r, m.logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
