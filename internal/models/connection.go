package models

import "gorm.io/gorm"

// ConnectionRequest represents a connection request between two scholars
type ConnectionRequest struct {
	gorm.Model
	SenderID   uint   `json:"sender_id" gorm:"index"`   // User ID of the sender
	ReceiverID uint   `json:"receiver_id" gorm:"index"` // User ID of the receiver
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending'"` // "pending", "accepted", "rejected"
}

// CreateConnectionRequest defines the request body for sending a connection request
type CreateConnectionRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

// UpdateConnectionRequest defines the request body for accepting/rejecting a connection request
type UpdateConnectionRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
