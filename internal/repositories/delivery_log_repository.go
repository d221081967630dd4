package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexscholar/backend/internal/models"
)

// DeliveryLogRepository defines the interface for the dispatch audit trail
type DeliveryLogRepository interface {
	Append(entry *models.DeliveryLog) error
	ListByRecipient(recipientID uint, limit int64) ([]models.DeliveryLog, error)
}

// MongoDeliveryLogRepository implements DeliveryLogRepository for MongoDB
type MongoDeliveryLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDeliveryLogRepository creates a new MongoDeliveryLogRepository
func NewMongoDeliveryLogRepository(db *mongo.Database) *MongoDeliveryLogRepository {
	return &MongoDeliveryLogRepository{collection: db.Collection("delivery_logs")}
}

// Append records one dispatch decision
func (r *MongoDeliveryLogRepository) Append(entry *models.DeliveryLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// ListByRecipient returns the most recent dispatch decisions for a recipient
func (r *MongoDeliveryLogRepository) ListByRecipient(recipientID uint, limit int64) ([]models.DeliveryLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.DeliveryLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
