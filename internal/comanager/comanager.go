package comanager

import (
	"context"
	"encoding/json"
	"time"

	accountDatamodel "github.com/laala-app/creator-dashboard/internal/core/datamodel/account"

	"github.com/laala-app/creator-dashboard/internal/authz"
)

// Account is the delegated co-manager account. OwnerID is fixed at
// creation; the hierarchy is strictly owner -> delegate, no transitive
// delegation.
type Account struct {
	ID                     string                  `json:"id"`
	OwnerID                string                  `json:"owner_id"`
	Email                  string                  `json:"email"`
	PasswordHash           string                  `json:"-"`
	AccessLevel            authz.AccessLevel       `json:"access_level"`
	Permissions            []authz.PermissionGrant `json:"permissions"`
	Status                 authz.AccountStatus     `json:"status"`
	RequiresPasswordChange bool                    `json:"requires_password_change"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
}

func (a *Account) IsActive() bool {
	return a.Status == authz.StatusActive
}

// DelegateRecord builds the snapshot the authorization guard rules on.
func (a *Account) DelegateRecord() *authz.DelegateRecord {
	return &authz.DelegateRecord{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		Status:      a.Status,
		AccessLevel: a.AccessLevel,
		Permissions: a.Permissions,
	}
}

// Repository is the account record store contract. Every authorization
// decision goes through FindByID against the live store; callers never
// reuse a record captured earlier in the request.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Account, error)
}

func ToDataModel(a *Account) (*accountDatamodel.CoManager, error) {
	permissions, err := json.Marshal(a.Permissions)
	if err != nil {
		return nil, err
	}
	return &accountDatamodel.CoManager{
		ID:                     a.ID,
		OwnerID:                a.OwnerID,
		Email:                  a.Email,
		PasswordHash:           a.PasswordHash,
		AccessLevel:            string(a.AccessLevel),
		Permissions:            string(permissions),
		Status:                 string(a.Status),
		RequiresPasswordChange: a.RequiresPasswordChange,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}, nil
}

func FromDataModel(m *accountDatamodel.CoManager) (*Account, error) {
	var permissions []authz.PermissionGrant
	if m.Permissions != "" {
		if err := json.Unmarshal([]byte(m.Permissions), &permissions); err != nil {
			return nil, err
		}
	}
	return &Account{
		ID:                     m.ID,
		OwnerID:                m.OwnerID,
		Email:                  m.Email,
		PasswordHash:           m.PasswordHash,
		AccessLevel:            authz.AccessLevel(m.AccessLevel),
		Permissions:            permissions,
		Status:                 authz.AccountStatus(m.Status),
		RequiresPasswordChange: m.RequiresPasswordChange,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}, nil
}
