package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/laala-app/creator-dashboard/internal/audit"
	auditDatamodel "github.com/laala-app/creator-dashboard/internal/core/datamodel/audit"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Create(audit.ToDataModel(entry)).Error
}

func (r *AuditRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*audit.Entry, error) {
	var models []auditDatamodel.Entry
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("occurred_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*audit.Entry, 0, len(models))
	for i := range models {
		entries = append(entries, audit.FromDataModel(&models[i]))
	}
	return entries, nil
}
