package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/laala-app/creator-dashboard/internal"
	accountDatamodel "github.com/laala-app/creator-dashboard/internal/core/datamodel/account"
	"github.com/laala-app/creator-dashboard/internal/owner"
)

// OwnerRepository implements the owner.Repository interface using GORM.
// Connectivity faults are retried with capped exponential backoff; record
// outcomes (found / not found) are never retried.
type OwnerRepository struct {
	db            *gorm.DB
	retryAttempts uint64
	retryBaseWait time.Duration
}

func NewOwnerRepository(db *gorm.DB, retryAttempts uint64, retryBaseWait time.Duration) owner.Repository {
	if retryAttempts == 0 {
		retryAttempts = 3
	}
	if retryBaseWait <= 0 {
		retryBaseWait = 100 * time.Millisecond
	}
	return &OwnerRepository{
		db:            db,
		retryAttempts: retryAttempts,
		retryBaseWait: retryBaseWait,
	}
}

func (r *OwnerRepository) backoff() retry.Backoff {
	return retry.WithMaxRetries(r.retryAttempts, retry.NewExponential(r.retryBaseWait))
}

// withRetry runs the store operation, retrying only infrastructure
// failures. gorm.ErrRecordNotFound is a definitive answer and passes
// straight through.
func (r *OwnerRepository) withRetry(ctx context.Context, op func() error) error {
	err := retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
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

func (r *OwnerRepository) FindByEmail(ctx context.Context, email string) (*owner.Owner, error) {
	var model accountDatamodel.Owner
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return owner.FromDataModel(&model), nil
}

func (r *OwnerRepository) FindByID(ctx context.Context, id string) (*owner.Owner, error) {
	var model accountDatamodel.Owner
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return owner.FromDataModel(&model), nil
}

func (r *OwnerRepository) Create(ctx context.Context, o *owner.Owner) error {
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Create(owner.ToDataModel(o)).Error
	})
}
