package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification represents a persisted in-app notification (PostgreSQL).
// ReadAt is nil until the recipient marks the notification read; once set it
// is never cleared. Notifications are never deleted.
type Notification struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	RecipientID uint       `json:"recipient_id" gorm:"index"`
	Type        string     `json:"type" gorm:"size:50;index"` // task_assigned, workspace_deleted, connection_request, ...
	Data        JSONMap    `json:"data" gorm:"type:json"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// MarkAsReadRequest defines the request body for marking one notification read
type MarkAsReadRequest struct {
	NotificationID string `json:"notification_id" validate:"required"`
}
