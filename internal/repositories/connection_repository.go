package repositories

import (
	"github.com/nexscholar/backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection request operations
type ConnectionRepository interface {
	SendConnectionRequest(request *models.ConnectionRequest) error
	GetConnectionRequestByID(id uint) (*models.ConnectionRequest, error)
	GetConnectionRequestBySenderReceiver(senderID, receiverID uint) (*models.ConnectionRequest, error)
	GetUserPendingConnectionRequests(receiverID uint) ([]models.ConnectionRequest, error)
	UpdateConnectionRequestStatus(id uint, status string) error
	GetUserConnections(userID uint) ([]models.ConnectionRequest, error)
	DeleteConnectionRequest(id uint) error
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

func (r *PostgresConnectionRepository) SendConnectionRequest(request *models.ConnectionRequest) error {
	return r.db.Create(request).Error
}

func (r *PostgresConnectionRepository) GetConnectionRequestByID(id uint) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	if err := r.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *PostgresConnectionRepository) GetConnectionRequestBySenderReceiver(senderID, receiverID uint) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	if err := r.db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *PostgresConnectionRepository) GetUserPendingConnectionRequests(receiverID uint) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	if err := r.db.Where("receiver_id = ? AND status = ?", receiverID, "pending").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PostgresConnectionRepository) UpdateConnectionRequestStatus(id uint, status string) error {
	return r.db.Model(&models.ConnectionRequest{}).Where("id = ?", id).Update("status", status).Error
}

// GetUserConnections returns the accepted requests the user is part of,
// either side.
func (r *PostgresConnectionRepository) GetUserConnections(userID uint) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	if err := r.db.Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, "accepted").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PostgresConnectionRepository) DeleteConnectionRequest(id uint) error {
	return r.db.Delete(&models.ConnectionRequest{}, id).Error
}
