package models

import "time"

// Delivery log statuses
const (
	DeliverySent    = "sent"
	DeliverySkipped = "skipped"
	DeliveryFailed  = "failed"
)

// DeliveryLog is one dispatch decision for one channel (MongoDB). It is an
// append-only audit trail; delivery itself is best-effort and the log never
// gates it.
type DeliveryLog struct {
	ID             string    `bson:"_id" json:"id"`
	NotificationID string    `bson:"notification_id,omitempty" json:"notification_id,omitempty"`
	RecipientID    uint      `bson:"recipient_id" json:"recipient_id"`
	Type           string    `bson:"type" json:"type"`
	Channel        string    `bson:"channel" json:"channel"` // database or mail
	Status         string    `bson:"status" json:"status"`   // sent, skipped, failed
	Detail         string    `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
