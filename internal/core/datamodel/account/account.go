package account

import "time"

// Owner is the creator (principal) account row. Owners are fully
// privileged over their own resources and never carry a permission list.
type Owner struct {
	ID           string    `gorm:"primaryKey;column:id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (Owner) TableName() string {
	return "owners"
}

// CoManager is the delegated-account row. Permissions holds the granular
// grant list serialized as JSON; the domain layer owns its shape.
type CoManager struct {
	ID                     string    `gorm:"primaryKey;column:id"`
	OwnerID                string    `gorm:"column:owner_id;index;not null"`
	Email                  string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash           string    `gorm:"column:password_hash;not null"`
	AccessLevel            string    `gorm:"column:access_level;not null"`
	Permissions            string    `gorm:"column:permissions;type:jsonb;default:'[]'"`
	Status                 string    `gorm:"column:status;not null;default:'active'"`
	RequiresPasswordChange bool      `gorm:"column:requires_password_change;default:true"`
	CreatedAt              time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt              time.Time `gorm:"column:updated_at;default:now()"`
}

func (CoManager) TableName() string {
	return "co_managers"
}
