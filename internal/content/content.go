package content

import (
	"context"
	"time"

	contentDatamodel "github.com/laala-app/creator-dashboard/internal/core/datamodel/content"
)

// Content is a published item ("contenu") in a creator's space. All
// content is scoped to the owning creator; co-managers reach it only
// through the authorization guard.
type Content struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	MediaURL    *string   `json:"media_url,omitempty"`
	Published   bool      `json:"published"`
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, c *Content) error
	GetByID(ctx context.Context, id string) (*Content, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Content, error)
	Update(ctx context.Context, c *Content) error
	Delete(ctx context.Context, id string) error
}

func ToDataModel(c *Content) *contentDatamodel.Content {
	return &contentDatamodel.Content{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Title:       c.Title,
		Body:        c.Body,
		MediaURL:    c.MediaURL,
		Published:   c.Published,
		CreatedByID: c.CreatedByID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(m *contentDatamodel.Content) *Content {
	return &Content{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Body:        m.Body,
		MediaURL:    m.MediaURL,
		Published:   m.Published,
		CreatedByID: m.CreatedByID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
