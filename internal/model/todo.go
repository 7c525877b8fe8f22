package model

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	DefaultCategory = "general"

	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

type Todo struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:1000" json:"description"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Priority    string     `gorm:"size:16;not null;default:medium;index" json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	Category    string     `gorm:"size:64;not null;default:general;index" json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
