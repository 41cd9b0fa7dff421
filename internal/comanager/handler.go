package comanager

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/transport"
	"github.com/laala-app/creator-dashboard/pkg/logger"
)

type ServiceAPI interface {
	Provision(ctx context.Context, ownerID string, dto CreateCoManagerDTO) (*Account, string, error)
	GetForOwner(ctx context.Context, ownerID, accountID string) (*Account, error)
	ListForOwner(ctx context.Context, ownerID string) ([]*Account, error)
	UpdatePermissions(ctx context.Context, ownerID, accountID string, dto UpdatePermissionsDTO) (*Account, error)
	UpdateStatus(ctx context.Context, ownerID, accountID string, dto UpdateStatusDTO) (*Account, error)
	Delete(ctx context.Context, ownerID, accountID string) error
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

// ownerFromRequest returns the owner principal. Routes are mounted behind
// RequireOwner, so a missing or delegate principal is a wiring bug.
func (h *Handler) ownerFromRequest(w http.ResponseWriter, r *http.Request) (*authz.Principal, bool) {
	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok || principal == nil || !principal.IsOwner() {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return principal, true
}

func (h *Handler) Provision(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ownerFromRequest(w, r)
	if !ok {
		return
	}

	var dto CreateCoManagerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Provision: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, tempPassword, err := h.Service.Provision(r.Context(), principal.ID, dto)
	if err != nil {
		h.Logger.Error("Provision: service error", "error", err, "owner_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ProvisionResponse{
		CoManagerResponse: ToResponse(account),
		TemporaryPassword: tempPassword,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ownerFromRequest(w, r)
	if !ok {
		return
	}

	accounts, err := h.Service.ListForOwner(r.Context(), principal.ID)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "owner_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]CoManagerResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, ToResponse(account))
	}
	h.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ownerFromRequest(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	account, err := h.Service.GetForOwner(r.Context(), principal.ID, accountID)
	if err != nil {
		h.Logger.Error("Get: service error", "error", err, "account_id", accountID, "owner_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponse(account))
}

func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ownerFromRequest(w, r)
	if !ok {
		return
	}

	var dto UpdatePermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdatePermissions: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accountID := chi.URLParam(r, "id")
	account, err := h.Service.UpdatePermissions(r.Context(), principal.ID, accountID, dto)
	if err != nil {
		h.Logger.Error("UpdatePermissions: service error", "error", err, "account_id", accountID, "owner_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponse(account))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ownerFromRequest(w, r)
	if !ok {
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accountID := chi.URLParam(r, "id")
	account, err := h.Service.UpdateStatus(r.Context(), principal.ID, accountID, dto)
	if err != nil {
		h.Logger.Error("UpdateStatus: service error", "error", err, "account_id", accountID, "owner_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponse(account))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ownerFromRequest(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), principal.ID, accountID); err != nil {
		h.Logger.Error("Delete: service error", "error", err, "account_id", accountID, "owner_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
