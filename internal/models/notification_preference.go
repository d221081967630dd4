package models

import "time"

// NotificationPreference is a per-user, per-type channel opt-in record.
// The absence of a row for a (user, type) pair means both channels are
// enabled; rows are only written through the bulk save-preferences action.
type NotificationPreference struct {
	ID               uint      `json:"-" gorm:"primaryKey"`
	UserID           uint      `json:"-" gorm:"uniqueIndex:idx_user_notification_type"`
	NotificationType string    `json:"notification_type" gorm:"size:50;uniqueIndex:idx_user_notification_type"`
	DatabaseEnabled  bool      `json:"database_enabled"`
	EmailEnabled     bool      `json:"email_enabled"`
	UpdatedAt        time.Time `json:"-"`
}

// PreferenceInput is one entry of the bulk save-preferences request
type PreferenceInput struct {
	NotificationType string `json:"notification_type" validate:"required,max=50"`
	DatabaseEnabled  bool   `json:"database_enabled"`
	EmailEnabled     bool   `json:"email_enabled"`
}

// SavePreferencesRequest defines the request body for the bulk preference update
type SavePreferencesRequest struct {
	Preferences []PreferenceInput `json:"preferences" validate:"required,dive"`
}
