package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/laala-app/creator-dashboard/internal"
	"github.com/laala-app/creator-dashboard/internal/content"
	contentDatamodel "github.com/laala-app/creator-dashboard/internal/core/datamodel/content"
)

// ContentRepository implements the content.Repository interface using GORM.
type ContentRepository struct {
	db            *gorm.DB
	retryAttempts uint64
	retryBaseWait time.Duration
}

func NewContentRepository(db *gorm.DB, retryAttempts uint64, retryBaseWait time.Duration) content.Repository {
	if retryAttempts == 0 {
		retryAttempts = 3
	}
	if retryBaseWait <= 0 {
		retryBaseWait = 100 * time.Millisecond
	}
	return &ContentRepository{
		db:            db,
		retryAttempts: retryAttempts,
		retryBaseWait: retryBaseWait,
	}
}

func (r *ContentRepository) withRetry(ctx context.Context, op func() error) error {
	backoff := retry.WithMaxRetries(r.retryAttempts, retry.NewExponential(r.retryBaseWait))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := op(); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return internal.ErrStoreUnavailable.WithCause(err)
}

func (r *ContentRepository) Create(ctx context.Context, c *content.Content) error {
	model := content.ToDataModel(c)
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Create(model).Error
	})
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*content.Content, error) {
	var model contentDatamodel.Content
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrContentNotFound
		}
		return nil, err
	}
	return content.FromDataModel(&model), nil
}

func (r *ContentRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*content.Content, error) {
	var models []contentDatamodel.Content
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("owner_id = ?", ownerID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	contents := make([]*content.Content, 0, len(models))
	for i := range models {
		contents = append(contents, content.FromDataModel(&models[i]))
	}
	return contents, nil
}

func (r *ContentRepository) Update(ctx context.Context, c *content.Content) error {
	model := content.ToDataModel(c)
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Save(model).Error
	})
}

func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).Delete(&contentDatamodel.Content{}).Error
	})
}
