package audit

import "time"

type Entry struct {
	ID         string    `gorm:"primaryKey;column:id"`
	ActorID    string    `gorm:"column:actor_id;index;not null"`
	ActorKind  string    `gorm:"column:actor_kind;not null"`
	OwnerID    string    `gorm:"column:owner_id;index;not null"`
	Resource   string    `gorm:"column:resource;not null"`
	Action     string    `gorm:"column:action;not null"`
	Allowed    bool      `gorm:"column:allowed;not null"`
	Reason     string    `gorm:"column:reason"`
	OccurredAt time.Time `gorm:"column:occurred_at;index;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

func (Entry) TableName() string {
	return "audit_entries"
}
