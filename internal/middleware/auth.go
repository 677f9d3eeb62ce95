package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"spectres-crm/internal/auth"
	"spectres-crm/internal/models"
	"spectres-crm/internal/permissions"
	"spectres-crm/pkg/utils"

	"github.com/google/uuid"
)

type contextKey string

const (
	userKey contextKey = "user"
	cronKey contextKey = "cron"
)

// UserLookup loads the current user row for every request
type UserLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLookup
	cronSecret string
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLookup, cronSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
		cronSecret: cronSecret,
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>". Browsers
// cannot set headers on websocket upgrades, so GET upgrades may pass ?token=.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if r.Method == http.MethodGet && strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("token")
	}
	return ""
}

// authenticate resolves the user behind the request or writes the error response
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	token := bearerToken(r)
	if token == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Authorization header required")
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return nil, false
	}

	// Check database for current user status (for immediate permission updates)
	user, err := m.users.Get(r.Context(), claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "User not found")
		return nil, false
	}
	if !user.IsActive {
		utils.RespondError(w, http.StatusForbidden, "Account suspended. Please contact administrator.")
		return nil, false
	}
	return user, true
}

// Authenticate validates the JWT and puts the current user row in the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequirePermission must run after Authenticate
func (m *AuthMiddleware) RequirePermission(p permissions.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !permissions.Can(permissions.Normalize(user.Role), p) {
				utils.RespondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CronOrPermission admits the scheduler presenting the shared cron secret as
// its bearer token, or a logged-in user holding p.
func (m *AuthMiddleware) CronOrPermission(p permissions.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if m.cronSecret != "" && token != "" &&
				subtle.ConstantTimeCompare([]byte(token), []byte(m.cronSecret)) == 1 {
				next.ServeHTTP(w, r.WithContext(WithCron(r.Context())))
				return
			}

			user, ok := m.authenticate(w, r)
			if !ok {
				return
			}
			if !permissions.Can(permissions.Normalize(user.Role), p) {
				utils.RespondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user row
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// WithCron marks the request as authorized by the cron secret
func WithCron(ctx context.Context) context.Context {
	return context.WithValue(ctx, cronKey, true)
}

// IsCron reports whether the request was authorized by the cron secret
func IsCron(ctx context.Context) bool {
	v, _ := ctx.Value(cronKey).(bool)
	return v
}
