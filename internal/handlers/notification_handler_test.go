package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/panel"
)

type notificationsResponse struct {
	Unread      []models.Notification `json:"unread"`
	Read        []models.Notification `json:"read"`
	UnreadCount int                   `json:"unread_count"`
}

func seedNotification(t *testing.T, env *testEnv, recipientID uint, notificationType string, data models.JSONMap) *models.Notification {
	t.Helper()
	n := &models.Notification{RecipientID: recipientID, Type: notificationType, Data: data}
	if err := env.notifications.CreateNotification(n); err != nil {
		t.Fatalf("failed to seed notification: %v", err)
	}
	return n
}

func TestGetNotificationsSplitsUnreadAndRead(t *testing.T) {
	env := setupEnv(t, "h_notif_list")
	user := env.seedUser(t, "Prof. Okafor", "okafor@nexscholar.test")

	seedNotification(t, env, user.ID, "task_assigned", models.JSONMap{"message": "one"})
	seedNotification(t, env, user.ID, "task_assigned", models.JSONMap{"message": "two"})
	read := seedNotification(t, env, user.ID, "connection_request", models.JSONMap{"message": "three"})
	assert.NoError(t, env.notifications.MarkAsRead(read.ID))

	rec := env.request(http.MethodGet, "/api/v1/app/notifications", nil, user.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp notificationsResponse
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.Unread, 2)
	assert.Len(t, resp.Read, 1)
	assert.Equal(t, len(resp.Unread), resp.UnreadCount)
	for _, n := range resp.Unread {
		assert.Nil(t, n.ReadAt)
	}
	assert.NotNil(t, resp.Read[0].ReadAt)
}

func TestGetNotificationsRequiresAuthentication(t *testing.T) {
	env := setupEnv(t, "h_notif_unauth")
	rec := env.request(http.MethodGet, "/api/v1/app/notifications", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMarkAsReadEndpointIsIdempotent(t *testing.T) {
	env := setupEnv(t, "h_notif_mark")
	user := env.seedUser(t, "Prof. Okafor", "okafor@nexscholar.test")
	n := seedNotification(t, env, user.ID, "task_assigned", models.JSONMap{"message": "one"})

	body := models.MarkAsReadRequest{NotificationID: n.ID}

	rec := env.request(http.MethodPost, "/api/v1/app/notifications/mark-as-read", body, user.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
	first, err := env.notifications.GetByID(n.ID)
	assert.NoError(t, err)
	assert.NotNil(t, first.ReadAt)

	// Marking again succeeds without moving read_at.
	rec = env.request(http.MethodPost, "/api/v1/app/notifications/mark-as-read", body, user.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
	second, err := env.notifications.GetByID(n.ID)
	assert.NoError(t, err)
	assert.True(t, first.ReadAt.Equal(*second.ReadAt))
}

func TestMarkAsReadRejectsOtherUsersNotification(t *testing.T) {
	env := setupEnv(t, "h_notif_forbidden")
	owner := env.seedUser(t, "Prof. Okafor", "okafor@nexscholar.test")
	intruder := env.seedUser(t, "Dr. Lee", "lee@nexscholar.test")
	n := seedNotification(t, env, owner.ID, "task_assigned", models.JSONMap{"message": "one"})

	rec := env.request(http.MethodPost, "/api/v1/app/notifications/mark-as-read",
		models.MarkAsReadRequest{NotificationID: n.ID}, intruder.ID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Still unread for the owner.
	loaded, err := env.notifications.GetByID(n.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded.ReadAt)
}

func TestMarkAsReadUnknownNotification(t *testing.T) {
	env := setupEnv(t, "h_notif_missing")
	user := env.seedUser(t, "Prof. Okafor", "okafor@nexscholar.test")

	rec := env.request(http.MethodPost, "/api/v1/app/notifications/mark-as-read",
		models.MarkAsReadRequest{NotificationID: "b2f4a7de-0000-0000-0000-000000000000"}, user.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkAllAsReadEndpoint(t *testing.T) {
	env := setupEnv(t, "h_notif_markall")
	user := env.seedUser(t, "Prof. Okafor", "okafor@nexscholar.test")
	for i := 0; i < 3; i++ {
		seedNotification(t, env, user.ID, "workspace_invitation", models.JSONMap{"message": "added"})
	}

	rec := env.request(http.MethodPost, "/api/v1/app/notifications/mark-all-as-read", nil, user.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	count, err := env.notifications.GetUnreadCount(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGetFeedSuppressesLegacyConnectionDuplicate(t *testing.T) {
	env := setupEnv(t, "h_notif_feed")
	user := env.seedUser(t, "Prof. Okafor", "okafor@nexscholar.test")

	seedNotification(t, env, user.ID, "connection_request", models.JSONMap{
		"requester_id":   7,
		"requester_name": "Dr. Chen",
		"message":        "Dr. Chen sent you a connection request",
	})
	// Legacy untyped record for the same requester.
	seedNotification(t, env, user.ID, "generic", models.JSONMap{
		"requester_id": 7,
		"message":      "You have a new Connection Request",
	})

	rec := env.request(http.MethodGet, "/api/v1/app/notifications/feed", nil, user.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Entries     []panel.Entry `json:"entries"`
		UnreadCount int           `json:"unread_count"`
	}
	decodeBody(t, rec, &resp)
	if assert.Len(t, resp.Entries, 1) {
		assert.Equal(t, "connection_request", resp.Entries[0].Type)
		assert.Equal(t, "Dr. Chen sent you a connection request", resp.Entries[0].Message)
	}
	assert.Equal(t, 2, resp.UnreadCount)
}

func TestGetUnreadCountEndpoint(t *testing.T) {
	env := setupEnv(t, "h_notif_count")
	user := env.seedUser(t, "Prof. Okafor", "okafor@nexscholar.test")
	seedNotification(t, env, user.ID, "task_assigned", models.JSONMap{"message": "one"})

	rec := env.request(http.MethodGet, "/api/v1/app/notifications/unread-count", nil, user.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UnreadCount int64 `json:"unread_count"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, int64(1), resp.UnreadCount)
}
