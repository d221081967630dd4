package repositories

import (
	"time"

	"github.com/nexscholar/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByID(id string) (*models.Notification, error)
	ListByRecipient(recipientID uint) (unread, read []models.Notification, err error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByID(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByRecipient returns the unread and read sets separately, each ordered
// by creation time descending.
func (r *postgresNotificationRepository) ListByRecipient(recipientID uint) (unread, read []models.Notification, err error) {
	if err := r.db.Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Order("created_at DESC").Find(&unread).Error; err != nil {
		return nil, nil, err
	}

	if err := r.db.Where("recipient_id = ? AND read_at IS NOT NULL", recipientID).
		Order("created_at DESC").Find(&read).Error; err != nil {
		return nil, nil, err
	}

	return unread, read, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND read_at IS NULL", recipientID).Count(&count).Error
	return count, err
}

// MarkAsRead sets read_at on an unread notification. Marking an already-read
// notification is a no-op, so the first read_at value is never overwritten.
func (r *postgresNotificationRepository) MarkAsRead(notificationID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", notificationID).
		Update("read_at", &now).Error
}

// MarkAllAsRead marks every unread notification of the recipient read.
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", &now).Error
}
