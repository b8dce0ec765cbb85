package directory

import "time"

// Actor is one row of the organization directory: the engine's read-only
// ground truth for who exists, what role they hold and who manages whom.
type Actor struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	FullName    string
	Email       string `gorm:"uniqueIndex"`
	RoleCode    string `gorm:"index"`
	ServiceName string
	ManagerID   *string `gorm:"type:uuid"`
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Actor) TableName() string {
	return "actors"
}
