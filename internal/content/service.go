package content

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/laala-app/creator-dashboard/internal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create stores a new content item in the owner's space. actorID records
// who actually authored it (owner or co-manager).
func (s *Service) Create(ctx context.Context, ownerID, actorID string, dto CreateContentDTO) (*Content, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Content{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       dto.Title,
		Body:        dto.Body,
		MediaURL:    dto.MediaURL,
		Published:   dto.Published,
		CreatedByID: actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("content created", "content_id", c.ID, "owner_id", ownerID, "created_by", actorID)
	return c, nil
}

func (s *Service) Get(ctx context.Context, ownerID, contentID string) (*Content, error) {
	c, err := s.repo.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	// Content in another creator's space is indistinguishable from
	// missing content.
	if c.OwnerID != ownerID {
		return nil, internal.ErrContentNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]*Content, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) Update(ctx context.Context, ownerID, contentID string, dto UpdateContentDTO) (*Content, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, ownerID, contentID)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		c.Title = *dto.Title
	}
	if dto.Body != nil {
		c.Body = *dto.Body
	}
	if dto.MediaURL != nil {
		c.MediaURL = dto.MediaURL
	}
	if dto.Published != nil {
		c.Published = *dto.Published
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("content updated", "content_id", c.ID, "owner_id", ownerID)
	return c, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, contentID string) error {
	c, err := s.Get(ctx, ownerID, contentID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return err
	}

	s.logger.Info("content deleted", "content_id", c.ID, "owner_id", ownerID)
	return nil
}
