package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/laala-app/creator-dashboard/internal"
	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/transport"
	"github.com/laala-app/creator-dashboard/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, *authz.Principal, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolvePrincipal(ctx context.Context, claims *Claims) (*authz.Principal, error)
	CompleteFirstPasswordChange(ctx context.Context, dto FirstPasswordChangeDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.Default()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, _, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err)

		switch {
		case errors.Is(err, internal.ErrInvalidCredentials):
			// Same body for unknown email and wrong password.
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, internal.ErrAccountSuspended):
			h.WriteError(w, http.StatusForbidden, "account is suspended")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)

		switch {
		case errors.Is(err, internal.ErrInvalidToken), errors.Is(err, internal.ErrTokenExpired),
			errors.Is(err, internal.ErrAccountNotFound):
			h.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, internal.ErrAccountSuspended), errors.Is(err, internal.ErrPasswordChangeRequired):
			h.WriteError(w, http.StatusForbidden, "not authorized")
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	// Tokens are stateless; logout is complete once the client drops
	// them. Server-side revocation happens through account deletion or
	// suspension, which the per-request re-resolution picks up.
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) FirstPasswordChange(w http.ResponseWriter, r *http.Request) {
	var dto FirstPasswordChangeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.CompleteFirstPasswordChange(r.Context(), dto); err != nil {
		h.Logger.Warn("first password change failed", "error", err)

		switch {
		case errors.Is(err, internal.ErrInvalidCredentials):
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, internal.ErrPasswordAlreadyChanged):
			h.WriteError(w, http.StatusConflict, "password has already been changed")
		case errors.Is(err, internal.ErrAccountSuspended):
			h.WriteError(w, http.StatusForbidden, "account is suspended")
		default:
			var appErr *internal.AppError
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else if errors.As(err, &appErr) && appErr.Type == internal.ErrorTypeValidation {
				h.WriteError(w, http.StatusBadRequest, appErr.Message)
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware validates the bearer token, then re-resolves the account
// from the live store before letting the request through. A record deleted
// or flagged since token issue fails here, token validity notwithstanding.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		principal, err := h.Service.ResolvePrincipal(r.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, internal.ErrAccountNotFound):
				h.Logger.Warn("auth middleware: account no longer exists", "account_id", claims.AccountID)
				h.WriteError(w, http.StatusUnauthorized, "invalid token")
			case errors.Is(err, internal.ErrPasswordChangeRequired):
				h.WriteError(w, http.StatusForbidden, "password change required")
			default:
				h.Logger.Error("auth middleware: failed to resolve principal", "error", err, "account_id", claims.AccountID)
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		ctx := authz.ContextWithPrincipal(r.Context(), principal)
		ctx = logger.With(ctx, "actor_id", principal.ID, "actor_kind", principal.Kind)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
