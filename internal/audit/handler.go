package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/transport"
	"github.com/laala-app/creator-dashboard/pkg/logger"
)

type ServiceAPI interface {
	ListForOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.Default()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// List returns the owner's audit trail, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok || principal == nil || !principal.IsOwner() {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	entries, err := h.Service.ListForOwner(r.Context(), principal.ID, limit, offset)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "owner_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}
