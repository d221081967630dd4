package repositories

import (
	"errors"

	"github.com/nexscholar/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository defines the interface for notification preference operations
type PreferenceRepository interface {
	ListByUser(userID uint) ([]models.NotificationPreference, error)
	// Resolve returns the effective channel flags for a (user, type) pair.
	// A missing preference row means both channels are enabled.
	Resolve(userID uint, notificationType string) (databaseEnabled, emailEnabled bool, err error)
	SaveAll(userID uint, preferences []models.PreferenceInput) error
}

type postgresPreferenceRepository struct {
	db *gorm.DB
}

func NewPostgresPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &postgresPreferenceRepository{db: db}
}

func (r *postgresPreferenceRepository) ListByUser(userID uint) ([]models.NotificationPreference, error) {
	var preferences []models.NotificationPreference
	if err := r.db.Where("user_id = ?", userID).Order("notification_type").Find(&preferences).Error; err != nil {
		return nil, err
	}
	return preferences, nil
}

func (r *postgresPreferenceRepository) Resolve(userID uint, notificationType string) (bool, bool, error) {
	var pref models.NotificationPreference
	err := r.db.Where("user_id = ? AND notification_type = ?", userID, notificationType).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, true, nil
		}
		return true, true, err
	}
	return pref.DatabaseEnabled, pref.EmailEnabled, nil
}

// SaveAll upserts the given preference rows for the user in one batch.
func (r *postgresPreferenceRepository) SaveAll(userID uint, preferences []models.PreferenceInput) error {
	if len(preferences) == 0 {
		return nil
	}

	rows := make([]models.NotificationPreference, 0, len(preferences))
	for _, p := range preferences {
		rows = append(rows, models.NotificationPreference{
			UserID:           userID,
			NotificationType: p.NotificationType,
			DatabaseEnabled:  p.DatabaseEnabled,
			EmailEnabled:     p.EmailEnabled,
		})
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "notification_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"database_enabled", "email_enabled", "updated_at"}),
	}).Create(&rows).Error
}
