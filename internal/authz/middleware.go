package authz

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/laala-app/creator-dashboard/internal"
)

// Authorization wires the guard into the HTTP layer. Handlers behind
// Require never see a request the guard has not allowed.
type Authorization struct {
	guard  *Guard
	logger *slog.Logger
}

func NewAuthorization(guard *Guard, logger *slog.Logger) *Authorization {
	return &Authorization{
		guard:  guard,
		logger: logger,
	}
}

func (a *Authorization) Require(resource ResourceKind, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				a.logger.Warn("authorization check failed: principal not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			decision, err := a.guard.Authorize(r.Context(), *principal, resource, action)
			if err != nil {
				if errors.Is(err, internal.ErrAccountNotFound) {
					// Deleted mid-session: the token is dead as of
					// this request, no grace period.
					a.logger.WarnContext(r.Context(), "authorization check failed: account no longer exists",
						"actor_id", principal.ID)
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				a.logger.ErrorContext(r.Context(), "authorization check failed", "error", err,
					"actor_id", principal.ID, "resource", resource, "action", action)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !decision.Allowed {
				writeDenied(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner guards owner-exclusive routes (co-manager management,
// boutique, audit trail) without consulting the permission table. A
// delegate hitting such a route is denied as a forbidden resource and the
// denial reaches the audit trail like any guard decision.
func (a *Authorization) RequireOwner(resource ResourceKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !principal.IsOwner() {
				a.guard.RecordDenial(r.Context(), *principal, resource, actionForMethod(r.Method), DenyForbiddenResource)
				writeDenied(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeDenied writes the shared denial body. Every refusal looks the same
// to the caller; the reason lives in logs and the audit trail only.
func writeDenied(w http.ResponseWriter) {
	status, body := internal.ErrNotAuthorized.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// actionForMethod maps the HTTP verb onto the action recorded for a denial
// taken before any handler runs.
func actionForMethod(method string) Action {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	}
	return ActionRead
}
