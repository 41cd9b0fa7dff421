package comanager

import (
	"strings"

	"github.com/laala-app/creator-dashboard/internal"
	"github.com/laala-app/creator-dashboard/internal/authz"
)

type GrantDTO struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

type CreateCoManagerDTO struct {
	Email       string     `json:"email"`
	AccessLevel string     `json:"access_level"`
	Permissions []GrantDTO `json:"permissions"`
}

type UpdatePermissionsDTO struct {
	AccessLevel string     `json:"access_level"`
	Permissions []GrantDTO `json:"permissions"`
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

// CoManagerResponse is the owner-facing view; the credential hash never
// leaves the service.
type CoManagerResponse struct {
	ID                     string                  `json:"id"`
	Email                  string                  `json:"email"`
	AccessLevel            authz.AccessLevel       `json:"access_level"`
	Permissions            []authz.PermissionGrant `json:"permissions"`
	Status                 authz.AccountStatus     `json:"status"`
	RequiresPasswordChange bool                    `json:"requires_password_change"`
	CreatedAt              string                  `json:"created_at"`
	UpdatedAt              string                  `json:"updated_at"`
}

// ProvisionResponse additionally carries the one-time temporary password.
// It is shown to the owner exactly once and stored only as a hash.
type ProvisionResponse struct {
	CoManagerResponse
	TemporaryPassword string `json:"temporary_password"`
}

func (d CreateCoManagerDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeInvalidEmail)
	}
	if !strings.Contains(d.Email, "@") {
		return internal.NewValidationFieldError("email", "email is malformed", internal.ErrCodeInvalidEmail)
	}
	if _, err := authz.ParseAccessLevel(d.AccessLevel); err != nil {
		return internal.NewValidationFieldError("access_level", err.Error(), internal.ErrCodeValidationFailed)
	}
	if _, err := toGrants(d.Permissions); err != nil {
		return internal.NewValidationFieldError("permissions", err.Error(), internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d UpdatePermissionsDTO) Validate() error {
	if _, err := authz.ParseAccessLevel(d.AccessLevel); err != nil {
		return internal.NewValidationFieldError("access_level", err.Error(), internal.ErrCodeValidationFailed)
	}
	if _, err := toGrants(d.Permissions); err != nil {
		return internal.NewValidationFieldError("permissions", err.Error(), internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d UpdateStatusDTO) Validate() error {
	switch authz.AccountStatus(d.Status) {
	case authz.StatusActive, authz.StatusSuspended:
		return nil
	}
	return internal.NewValidationFieldError("status", "status must be active or suspended", internal.ErrCodeValidationFailed)
}

// toGrants converts the wire shape into typed grants, enforcing the
// write-time invariants (known grantable kinds, no duplicates).
func toGrants(dtos []GrantDTO) ([]authz.PermissionGrant, error) {
	grants := make([]authz.PermissionGrant, 0, len(dtos))
	for _, dto := range dtos {
		grant := authz.PermissionGrant{Resource: authz.ResourceKind(dto.Resource)}
		for _, action := range dto.Actions {
			grant.Actions = append(grant.Actions, authz.Action(action))
		}
		grants = append(grants, grant)
	}
	if err := authz.ValidateGrants(grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func ToResponse(a *Account) CoManagerResponse {
	permissions := a.Permissions
	if permissions == nil {
		permissions = []authz.PermissionGrant{}
	}
	return CoManagerResponse{
		ID:                     a.ID,
		Email:                  a.Email,
		AccessLevel:            a.AccessLevel,
		Permissions:            permissions,
		Status:                 a.Status,
		RequiresPasswordChange: a.RequiresPasswordChange,
		CreatedAt:              a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:              a.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
