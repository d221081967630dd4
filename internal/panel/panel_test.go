package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/notify"
)

func TestRenderKnownTypes(t *testing.T) {
	cases := []struct {
		name string
		in   models.Notification
		want string
	}{
		{
			name: "task assigned",
			in: models.Notification{Type: notify.TypeTaskAssigned, Data: models.JSONMap{
				"assigner_name": "Dr. Chen", "task_title": "Finish draft",
			}},
			want: `Dr. Chen assigned you the task "Finish draft"`,
		},
		{
			name: "due date changed",
			in: models.Notification{Type: notify.TypeTaskDueDateChanged, Data: models.JSONMap{
				"changed_by": "Dr. Chen", "task_title": "Finish draft",
				"old_due_date": "Jan 2, 2026", "new_due_date": "Feb 9, 2026",
			}},
			want: `Dr. Chen changed the due date of "Finish draft" from Jan 2, 2026 to Feb 9, 2026`,
		},
		{
			name: "workspace deleted",
			in: models.Notification{Type: notify.TypeWorkspaceDeleted, Data: models.JSONMap{
				"deleted_by": "Dr. Chen", "workspace_name": "Lab Alpha",
			}},
			want: `Dr. Chen deleted the workspace "Lab Alpha"`,
		},
		{
			name: "role changed",
			in: models.Notification{Type: notify.TypeWorkspaceRoleChanged, Data: models.JSONMap{
				"workspace_name": "Lab Alpha", "new_role": "admin",
			}},
			want: `Your role in "Lab Alpha" is now admin`,
		},
		{
			name: "connection request",
			in: models.Notification{Type: notify.TypeConnectionRequest, Data: models.JSONMap{
				"requester_name": "Dr. Chen",
			}},
			want: "Dr. Chen sent you a connection request",
		},
		{
			name: "missing payload fields use labeled defaults",
			in:   models.Notification{Type: notify.TypeTaskAssigned, Data: models.JSONMap{}},
			want: `Someone assigned you the task "Unknown Task"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Render(tc.in))
		})
	}
}

func TestRenderUnknownTypeFallsBackToMessage(t *testing.T) {
	n := models.Notification{
		Type: "some_future_type",
		Data: models.JSONMap{"message": "Something happened"},
	}
	assert.Equal(t, "Something happened", Render(n))

	// No message either: generic copy.
	n.Data = models.JSONMap{}
	assert.Equal(t, "You have a new notification.", Render(n))

	n.Data = nil
	assert.Equal(t, "You have a new notification.", Render(n))
}

func TestBuildEntriesSuppressesDuplicatedLegacyConnectionRequest(t *testing.T) {
	notifications := []models.Notification{
		{
			ID:   "typed-1",
			Type: notify.TypeConnectionRequest,
			Data: models.JSONMap{
				"requester_id":   float64(7),
				"requester_name": "Dr. Chen",
				"message":        "Dr. Chen sent you a connection request",
			},
		},
		{
			// Legacy record for the same requester, written before the
			// taxonomy existed.
			ID:   "legacy-1",
			Type: "generic",
			Data: models.JSONMap{
				"requester_id": float64(7),
				"message":      "You have a new Connection Request",
			},
		},
	}

	entries := BuildEntries(notifications)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "typed-1", entries[0].ID)
		assert.Equal(t, "Dr. Chen sent you a connection request", entries[0].Message)
	}
}

func TestBuildEntriesKeepsLegacyForDifferentRequester(t *testing.T) {
	notifications := []models.Notification{
		{
			ID:   "typed-1",
			Type: notify.TypeConnectionRequest,
			Data: models.JSONMap{"requester_id": float64(7), "requester_name": "Dr. Chen"},
		},
		{
			ID:   "legacy-2",
			Type: "generic",
			Data: models.JSONMap{
				"requester_id": float64(9),
				"message":      "You have a new connection request",
			},
		},
	}

	entries := BuildEntries(notifications)
	assert.Len(t, entries, 2)
}

func TestBuildEntriesKeepsUntypedRecordsWithoutRequesterID(t *testing.T) {
	notifications := []models.Notification{
		{
			ID:   "typed-1",
			Type: notify.TypeConnectionRequest,
			Data: models.JSONMap{"requester_id": float64(7), "requester_name": "Dr. Chen"},
		},
		{
			// Mentions a connection request but has no requester_id: not
			// a legacy duplicate, keep it.
			ID:   "plain-1",
			Type: "generic",
			Data: models.JSONMap{"message": "About your connection request"},
		},
	}

	entries := BuildEntries(notifications)
	assert.Len(t, entries, 2)
}

func TestBuildEntriesPreservesInputOrder(t *testing.T) {
	notifications := []models.Notification{
		{ID: "a", Type: notify.TypeTaskCompleted, Data: models.JSONMap{"completed_by": "Dr. Lee", "task_title": "Review"}},
		{ID: "b", Type: notify.TypeWorkspaceInvitation, Data: models.JSONMap{"invited_by": "Dr. Chen", "workspace_name": "Lab Alpha"}},
		{ID: "c", Type: "unknown", Data: models.JSONMap{"message": "hi"}},
	}

	entries := BuildEntries(notifications)
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "a", entries[0].ID)
		assert.Equal(t, "b", entries[1].ID)
		assert.Equal(t, "c", entries[2].ID)
	}
}
