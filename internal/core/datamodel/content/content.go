package content

import "time"

type Content struct {
	ID          string    `gorm:"primaryKey;column:id"`
	OwnerID     string    `gorm:"column:owner_id;index;not null"`
	Title       string    `gorm:"column:title;not null"`
	Body        string    `gorm:"column:body"`
	MediaURL    *string   `gorm:"column:media_url"`
	Published   bool      `gorm:"column:published;default:false"`
	CreatedByID string    `gorm:"column:created_by_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Content) TableName() string {
	return "contents"
}
