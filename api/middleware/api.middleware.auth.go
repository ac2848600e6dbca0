package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hidrosense/hub/internal/auth"
	"github.com/hidrosense/hub/internal/errors"
	"github.com/hidrosense/hub/internal/models"
)

// UserDirectory resolves token subjects to current directory records.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthMiddleware authenticates bearer tokens and enforces role
// requirements. Token validation is stateless; the directory lookup on
// every request makes the stored role authoritative, so a demoted or
// deleted user loses access even while their token is still unexpired.
type AuthMiddleware struct {
	tokens *auth.TokenService
	users  UserDirectory
}

type contextKey string

const userContextKey contextKey = "user"

func NewAuthMiddleware(tokens *auth.TokenService, users UserDirectory) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// Authenticate validates the bearer token and attaches the directory
// record to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handleAuthError(w, errors.NewAuthError("could not validate credentials", nil))
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			handleAuthError(w, errors.NewAuthError("could not validate credentials", err))
			return
		}

		user, err := m.users.GetUserByEmail(r.Context(), claims.Subject)
		if err != nil {
			// Covers users deleted after token issuance
			handleAuthError(w, errors.NewAuthError("could not validate credentials", err))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin ensures the authenticated user currently holds the admin
// role in the directory.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			handleAuthError(w, errors.NewAuthError("could not validate credentials", nil))
			return
		}

		if user.Role != models.RoleAdmin {
			handleAuthError(w, errors.NewAuthorizationError("administrator privileges required", nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user stashed by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// Helper functions

func extractToken(r *http.Request) string {
	bearerToken := r.Header.Get("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func handleAuthError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	if err.Code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
}
