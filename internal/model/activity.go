package model

import "time"

const (
	ActivityCreated = "created"
	ActivityUpdated = "updated"
	ActivityDeleted = "deleted"
	ActivityToggled = "toggled"
)

// Activity is an audit event describing a todo mutation. Events are
// published to the broker by the todo service and persisted by the
// activity worker, so a publish never blocks the request path.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TodoID    uint      `gorm:"not null;index" json:"todo_id"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
