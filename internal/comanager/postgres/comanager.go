package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/laala-app/creator-dashboard/internal"
	"github.com/laala-app/creator-dashboard/internal/comanager"
	accountDatamodel "github.com/laala-app/creator-dashboard/internal/core/datamodel/account"
)

// CoManagerRepository implements the comanager.Repository interface using GORM.
// Connectivity faults are retried with capped exponential backoff; record
// outcomes (found / not found) are never retried.
type CoManagerRepository struct {
	db            *gorm.DB
	retryAttempts uint64
	retryBaseWait time.Duration
}

func NewCoManagerRepository(db *gorm.DB, retryAttempts uint64, retryBaseWait time.Duration) comanager.Repository {
	if retryAttempts == 0 {
		retryAttempts = 3
	}
	if retryBaseWait <= 0 {
		retryBaseWait = 100 * time.Millisecond
	}
	return &CoManagerRepository{
		db:            db,
		retryAttempts: retryAttempts,
		retryBaseWait: retryBaseWait,
	}
}

func (r *CoManagerRepository) backoff() retry.Backoff {
	return retry.WithMaxRetries(r.retryAttempts, retry.NewExponential(r.retryBaseWait))
}

// withRetry runs the store operation, retrying only infrastructure
// failures. gorm.ErrRecordNotFound is a definitive answer and passes
// straight through.
func (r *CoManagerRepository) withRetry(ctx context.Context, op func() error) error {
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

func (r *CoManagerRepository) FindByEmail(ctx context.Context, email string) (*comanager.Account, error) {
	var model accountDatamodel.CoManager
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return comanager.FromDataModel(&model)
}

func (r *CoManagerRepository) FindByID(ctx context.Context, id string) (*comanager.Account, error) {
	var model accountDatamodel.CoManager
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return comanager.FromDataModel(&model)
}

func (r *CoManagerRepository) Create(ctx context.Context, account *comanager.Account) error {
	model, err := comanager.ToDataModel(account)
	if err != nil {
		return internal.NewInternalError("failed to serialize account", err)
	}
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Create(model).Error
	})
}

// Update is a whole-document write; concurrent edits resolve last-write-wins,
// which matches the store's single-document semantics.
func (r *CoManagerRepository) Update(ctx context.Context, account *comanager.Account) error {
	model, err := comanager.ToDataModel(account)
	if err != nil {
		return internal.NewInternalError("failed to serialize account", err)
	}
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Save(model).Error
	})
}

func (r *CoManagerRepository) Delete(ctx context.Context, id string) error {
	return r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).Delete(&accountDatamodel.CoManager{}).Error
	})
}

func (r *CoManagerRepository) ListByOwner(ctx context.Context, ownerID string) ([]*comanager.Account, error) {
	var models []accountDatamodel.CoManager
	err := r.withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("owner_id = ?", ownerID).
			Order("created_at ASC").
			Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*comanager.Account, 0, len(models))
	for i := range models {
		account, err := comanager.FromDataModel(&models[i])
		if err != nil {
			return nil, internal.NewInternalError("failed to deserialize account", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
