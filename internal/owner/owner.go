package owner

import (
	"context"
	"time"

	accountDatamodel "github.com/laala-app/creator-dashboard/internal/core/datamodel/account"
)

// Owner is the creator account that resources and co-managers hang off.
type Owner struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Owner, error)
	FindByID(ctx context.Context, id string) (*Owner, error)
	Create(ctx context.Context, owner *Owner) error
}

func ToDataModel(o *Owner) *accountDatamodel.Owner {
	return &accountDatamodel.Owner{
		ID:           o.ID,
		Email:        o.Email,
		Name:         o.Name,
		PasswordHash: o.PasswordHash,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func FromDataModel(m *accountDatamodel.Owner) *Owner {
	return &Owner{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
