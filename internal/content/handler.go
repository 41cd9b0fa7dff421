package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/transport"
	"github.com/laala-app/creator-dashboard/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, ownerID, actorID string, dto CreateContentDTO) (*Content, error)
	Get(ctx context.Context, ownerID, contentID string) (*Content, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*Content, error)
	Update(ctx context.Context, ownerID, contentID string, dto UpdateContentDTO) (*Content, error)
	Delete(ctx context.Context, ownerID, contentID string) error
}

// Handler serves content routes. Authorization already happened in the
// guard middleware by the time these run; handlers only scope queries to
// the caller's owner space.
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

func (h *Handler) principalFromRequest(w http.ResponseWriter, r *http.Request) (*authz.Principal, bool) {
	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return principal, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalFromRequest(w, r)
	if !ok {
		return
	}

	var dto CreateContentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), principal.OwnerID, principal.ID, dto)
	if err != nil {
		h.Logger.Error("Create: service error", "error", err, "actor_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalFromRequest(w, r)
	if !ok {
		return
	}

	contentID := chi.URLParam(r, "id")
	c, err := h.Service.Get(r.Context(), principal.OwnerID, contentID)
	if err != nil {
		h.Logger.Error("Get: service error", "error", err, "content_id", contentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalFromRequest(w, r)
	if !ok {
		return
	}

	limit := 20
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

	contents, err := h.Service.List(r.Context(), principal.OwnerID, limit, offset)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "owner_id", principal.OwnerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, contents)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalFromRequest(w, r)
	if !ok {
		return
	}

	var dto UpdateContentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contentID := chi.URLParam(r, "id")
	c, err := h.Service.Update(r.Context(), principal.OwnerID, contentID, dto)
	if err != nil {
		h.Logger.Error("Update: service error", "error", err, "content_id", contentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalFromRequest(w, r)
	if !ok {
		return
	}

	contentID := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), principal.OwnerID, contentID); err != nil {
		h.Logger.Error("Delete: service error", "error", err, "content_id", contentID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
