package notification

import "time"

const (
	StatusNew  = "NEW"
	StatusRead = "READ"
)

// Notification is one in-app inbox row produced by the dispatcher consumer.
// The (recipient, event) unique index makes replayed events (the outbox is
// at-least-once) insert at most one row per recipient.
type Notification struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	RecipientID    string `gorm:"type:uuid;uniqueIndex:uq_notification_recipient_event,priority:1"`
	LeaveRequestID string `gorm:"type:uuid;index"`
	EventID        string `gorm:"type:uuid;uniqueIndex:uq_notification_recipient_event,priority:2"`
	Title          string
	Body           string
	Status         string
	CreatedAt      time.Time
	ReadAt         *time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
