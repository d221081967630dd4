package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nexscholar/backend/internal/models"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.Notification{}, &models.NotificationPreference{}, &models.User{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestNotificationListSplitAndUnreadCount(t *testing.T) {
	db := setupTestDB(t, "notif_list")
	repo := NewPostgresNotificationRepository(db)

	for i := 0; i < 3; i++ {
		err := repo.CreateNotification(&models.Notification{
			RecipientID: 1,
			Type:        "task_assigned",
			Data:        models.JSONMap{"message": fmt.Sprintf("notification %d", i)},
		})
		assert.NoError(t, err)
	}
	// A notification for someone else must not leak in.
	assert.NoError(t, repo.CreateNotification(&models.Notification{
		RecipientID: 2,
		Type:        "task_assigned",
		Data:        models.JSONMap{"message": "other user"},
	}))

	unread, read, err := repo.ListByRecipient(1)
	assert.NoError(t, err)
	assert.Len(t, unread, 3)
	assert.Len(t, read, 0)

	count, err := repo.GetUnreadCount(1)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, int(count), len(unread))

	// Mark one read and check the split moves.
	assert.NoError(t, repo.MarkAsRead(unread[0].ID))
	unread, read, err = repo.ListByRecipient(1)
	assert.NoError(t, err)
	assert.Len(t, unread, 2)
	assert.Len(t, read, 1)
	assert.NotNil(t, read[0].ReadAt)
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	db := setupTestDB(t, "notif_idempotent")
	repo := NewPostgresNotificationRepository(db)

	n := &models.Notification{
		RecipientID: 1,
		Type:        "connection_request",
		Data:        models.JSONMap{"message": "wants to connect"},
	}
	assert.NoError(t, repo.CreateNotification(n))
	assert.NotEmpty(t, n.ID)

	assert.NoError(t, repo.MarkAsRead(n.ID))
	first, err := repo.GetByID(n.ID)
	assert.NoError(t, err)
	assert.NotNil(t, first.ReadAt)

	// Second mark is a no-op: read_at must not move.
	assert.NoError(t, repo.MarkAsRead(n.ID))
	second, err := repo.GetByID(n.ID)
	assert.NoError(t, err)
	assert.NotNil(t, second.ReadAt)
	assert.True(t, first.ReadAt.Equal(*second.ReadAt))
}

func TestMarkAllAsRead(t *testing.T) {
	db := setupTestDB(t, "notif_markall")
	repo := NewPostgresNotificationRepository(db)

	for i := 0; i < 4; i++ {
		assert.NoError(t, repo.CreateNotification(&models.Notification{
			RecipientID: 7,
			Type:        "workspace_invitation",
			Data:        models.JSONMap{"message": "added you"},
		}))
	}

	assert.NoError(t, repo.MarkAllAsRead(7))
	count, err := repo.GetUnreadCount(7)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Repeat call stays a no-op.
	assert.NoError(t, repo.MarkAllAsRead(7))
}

func TestNotificationDataRoundTrip(t *testing.T) {
	db := setupTestDB(t, "notif_data")
	repo := NewPostgresNotificationRepository(db)

	n := &models.Notification{
		RecipientID: 3,
		Type:        "task_due_date_changed",
		Data: models.JSONMap{
			"old_due_date": "Jan 2, 2026",
			"new_due_date": "Feb 9, 2026",
			"changed_by":   "Dr. Chen",
			"message":      "Dr. Chen changed the due date",
		},
	}
	assert.NoError(t, repo.CreateNotification(n))

	loaded, err := repo.GetByID(n.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Feb 9, 2026", loaded.Data.String("new_due_date", ""))
	assert.Equal(t, "Dr. Chen", loaded.Data.String("changed_by", ""))
	assert.Nil(t, loaded.ReadAt)
}
