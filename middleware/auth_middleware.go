package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/upb/forum-backend/internal/observability"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/services"
	"github.com/upb/forum-backend/utils"
	"go.uber.org/zap"
)

// CredentialStore looks up accounts by login. A missing account must be
// reported as a not found domain error.
type CredentialStore interface {
	FindByLogin(ctx context.Context, login string) (*models.User, error)
}

// PasswordVerifier checks a plaintext password against a stored hash
type PasswordVerifier interface {
	Verify(password, hash string) (bool, error)
}

// PermitRule exempts matching requests from authentication
type PermitRule struct {
	Method string
	Path   string
	Prefix bool // match Path and everything below it
}

// Matches reports whether the request method and path fall under the rule
func (p PermitRule) Matches(method, path string) bool {
	if method != p.Method {
		return false
	}
	if path == p.Path {
		return true
	}
	return p.Prefix && strings.HasPrefix(path, strings.TrimSuffix(p.Path, "/")+"/")
}

// AuthMiddleware authenticates requests with HTTP Basic credentials
type AuthMiddleware struct {
	store     CredentialStore
	verifier  PasswordVerifier
	permitAll []PermitRule
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(store CredentialStore, verifier PasswordVerifier, permitAll []PermitRule, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		store:     store,
		verifier:  verifier,
		permitAll: permitAll,
		logger:    logger,
	}
}

// Authenticate verifies the Basic credentials of every request not on the
// permit-all list. On success the principal is stored in the request context
// and the Authorization header is removed before calling next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.isPermitted(r) {
			observability.RecordAuthAttempt(observability.AuthOutcomePermitAll)
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := observability.ForRequest(m.logger, r)

		login, password, ok := r.BasicAuth()
		if !ok {
			observability.RecordAuthAttempt(observability.AuthOutcomeMissing)
			logger.Debug("missing or malformed credentials")
			utils.WriteServiceError(w, r, services.ErrInvalidCredentials, logger)
			return
		}

		user, err := m.store.FindByLogin(ctx, login)
		if err != nil {
			if services.IsNotFoundError(err) {
				observability.RecordAuthAttempt(observability.AuthOutcomeInvalid)
				logger.Info("authentication failed", zap.String("login", login))
				utils.WriteServiceError(w, r, services.ErrInvalidCredentials, logger)
				return
			}
			observability.RecordAuthAttempt(observability.AuthOutcomeError)
			utils.WriteServiceError(w, r, err, logger)
			return
		}

		matched, err := m.verifier.Verify(password, user.PasswordHash)
		if err != nil {
			observability.RecordAuthAttempt(observability.AuthOutcomeError)
			utils.WriteServiceError(w, r, services.WrapInternal("failed to verify password", err), logger)
			return
		}
		if !matched {
			observability.RecordAuthAttempt(observability.AuthOutcomeInvalid)
			logger.Info("authentication failed", zap.String("login", login))
			utils.WriteServiceError(w, r, services.ErrInvalidCredentials, logger)
			return
		}

		principal := NewPrincipal(user.Login, user.RoleNames())

		authed := r.WithContext(WithPrincipal(ctx, principal))
		authed.Header = r.Header.Clone()
		authed.Header.Del("Authorization")

		observability.RecordAuthAttempt(observability.AuthOutcomeSuccess)
		logger.Debug("authentication successful",
			zap.String("login", principal.Login),
			zap.Strings("roles", principal.Roles))

		next.ServeHTTP(w, authed)
	})
}

func (m *AuthMiddleware) isPermitted(r *http.Request) bool {
	for _, rule := range m.permitAll {
		if rule.Matches(r.Method, r.URL.Path) {
			return true
		}
	}
	return false
}
