package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/opskpi/tattrack/internal/domain"
)

type contextKey string

const (
	// ContextKeyWorkspace is the key for storing the workspace email in the
	// request context.
	ContextKeyWorkspace contextKey = "workspace"

	// WorkspaceHeader carries the workspace email on API requests.
	WorkspaceHeader = "X-Workspace-Email"

	// WorkspaceCookie is the session cookie set by the login flow.
	WorkspaceCookie = "kpi_email"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// WorkspaceScope resolves the workspace identifier for every API request.
// The workspace email scopes all data access; it carries no authorization
// beyond that scoping.
type WorkspaceScope struct{}

// NewWorkspaceScope creates a new WorkspaceScope middleware.
func NewWorkspaceScope() *WorkspaceScope {
	return &WorkspaceScope{}
}

// Require extracts the workspace email from the X-Workspace-Email header or
// the kpi_email cookie, normalizes it to lowercase, and stores it in the
// request context. Requests without a plausible email are rejected.
func (m *WorkspaceScope) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.Header.Get(WorkspaceHeader)
		if email == "" {
			if cookie, err := r.Cookie(WorkspaceCookie); err == nil {
				email = cookie.Value
			}
		}

		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			http.Error(w, "workspace email required", http.StatusBadRequest)
			return
		}
		if !emailPattern.MatchString(email) {
			http.Error(w, "workspace email must be a valid email address", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyWorkspace, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetWorkspaceFromContext retrieves the workspace email from the request context.
func GetWorkspaceFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(ContextKeyWorkspace).(string)
	if !ok || email == "" {
		return "", domain.ErrWorkspaceRequired
	}
	return email, nil
}
