package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Task struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	Priority    string     `json:"priority" gorm:"not null;default:'medium'"`
	DueDate     *time.Time `json:"due_date"`
	IsImportant bool       `json:"is_important" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskCreate is the create contract: title is mandatory, everything else
// defaults server-side (completed=false, priority=medium, is_important=false).
type TaskCreate struct {
	Title       string     `json:"title" binding:"required,min=1"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority" binding:"omitnil,oneof=high medium low"`
	DueDate     *time.Time `json:"due_date"`
	IsImportant *bool      `json:"is_important"`
}

// TaskPatch is the partial-update contract: any subset of fields may be
// sent, nil fields keep their stored values. Owner and timestamps are never
// client-settable.
type TaskPatch struct {
	Title       *string    `json:"title" binding:"omitnil,min=1"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority" binding:"omitnil,oneof=high medium low"`
	DueDate     *time.Time `json:"due_date"`
	IsImportant *bool      `json:"is_important"`
}
