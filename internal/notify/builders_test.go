package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nexscholar/backend/internal/models"
)

func allBuilders(t *testing.T) map[string]Builder {
	t.Helper()
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	task := &models.Task{ID: 11, WorkspaceID: 3, Title: "Finish draft", DueDate: &due, CreatedBy: 1}
	workspace := &models.Workspace{ID: 3, Name: "Lab Alpha", OwnerID: 1}
	actor := &models.User{ID: 1, Name: "Dr. Chen", Email: "chen@nexscholar.test"}

	return map[string]Builder{
		TypeTaskAssigned:         NewTaskAssigned(task, actor),
		TypeTaskDueDateChanged:   NewTaskDueDateChanged(task, nil, actor),
		TypeTaskCompleted:        NewTaskCompleted(task, actor),
		TypeWorkspaceDeleted:     NewWorkspaceDeleted(workspace.Name, actor),
		TypeWorkspaceRoleChanged: NewWorkspaceRoleChanged(workspace, models.RoleAdmin, actor),
		TypeWorkspaceInvitation:  NewWorkspaceInvitation(workspace, models.RoleMember, actor),
		TypeConnectionRequest:    NewConnectionRequest(actor),
		TypeConnectionAccepted:   NewConnectionAccepted(actor),
	}
}

func nilBuilders() map[string]Builder {
	return map[string]Builder{
		TypeTaskAssigned:         NewTaskAssigned(nil, nil),
		TypeTaskDueDateChanged:   NewTaskDueDateChanged(nil, nil, nil),
		TypeTaskCompleted:        NewTaskCompleted(nil, nil),
		TypeWorkspaceDeleted:     NewWorkspaceDeleted("", nil),
		TypeWorkspaceRoleChanged: NewWorkspaceRoleChanged(nil, "", nil),
		TypeWorkspaceInvitation:  NewWorkspaceInvitation(nil, "", nil),
		TypeConnectionRequest:    NewConnectionRequest(nil),
		TypeConnectionAccepted:   NewConnectionAccepted(nil),
	}
}

func TestBuildersDeclareValidChannels(t *testing.T) {
	SetBaseURL("http://localhost:8080")
	for wantType, b := range allBuilders(t) {
		assert.Equal(t, wantType, b.Type())

		via := b.Via()
		assert.NotEmpty(t, via, "type %s declares no channels", wantType)
		for _, ch := range via {
			assert.Contains(t, []Channel{ChannelDatabase, ChannelMail}, ch)
		}
	}
}

func TestBuildersRenderForFullEntities(t *testing.T) {
	SetBaseURL("http://localhost:8080")
	recipient := &models.User{ID: 2, Name: "Prof. Okafor", Email: "okafor@nexscholar.test"}

	for wantType, b := range allBuilders(t) {
		msg := b.ToMail(recipient)
		assert.NotEmpty(t, msg.Subject, "type %s has empty subject", wantType)
		assert.Contains(t, msg.Body(), "Hello Prof. Okafor")

		record := b.ToRecord(recipient)
		assert.NotEmpty(t, record.String("message", ""), "type %s has empty message", wantType)
	}
}

func TestBuildersDegradeOnMissingEntities(t *testing.T) {
	SetBaseURL("http://localhost:8080")
	recipient := &models.User{ID: 2}

	for wantType, b := range nilBuilders() {
		// Must never panic, and must still produce usable copy.
		msg := b.ToMail(recipient)
		assert.NotEmpty(t, msg.Subject, "type %s has empty subject", wantType)
		assert.Contains(t, msg.Body(), "Hello User")

		record := b.ToRecord(recipient)
		assert.NotEmpty(t, record.String("message", ""), "type %s has empty message", wantType)
	}
}

func TestTaskAssignedRecordFields(t *testing.T) {
	SetBaseURL("http://localhost:8080")
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	task := &models.Task{ID: 11, WorkspaceID: 3, Title: "Finish draft", DueDate: &due}
	assigner := &models.User{ID: 1, Name: "Dr. Chen"}
	recipient := &models.User{ID: 2, Name: "Prof. Okafor"}

	record := NewTaskAssigned(task, assigner).ToRecord(recipient)
	assert.Equal(t, "Finish draft", record.String("task_title", ""))
	assert.Equal(t, "Dr. Chen", record.String("assigner_name", ""))
	assert.Equal(t, `Dr. Chen assigned you the task "Finish draft"`, record.String("message", ""))
	assert.Equal(t, uint(11), record["task_id"])
	assert.Equal(t, uint(3), record["workspace_id"])
	assert.Equal(t, "Mar 15, 2026", record.String("due_date", ""))
}

func TestTaskAssignedFallsBackToLabeledDefaults(t *testing.T) {
	SetBaseURL("http://localhost:8080")
	recipient := &models.User{ID: 2}

	record := NewTaskAssigned(nil, nil).ToRecord(recipient)
	assert.Equal(t, "Unknown Task", record.String("task_title", ""))
	assert.Equal(t, "Administrator", record.String("assigner_name", ""))
	assert.NotContains(t, record, "task_id")

	msg := NewTaskAssigned(nil, nil).ToMail(recipient)
	assert.True(t, msg.Degraded)
	assert.Equal(t, BaseURL(), msg.ActionURL)
}

func TestTaskDueDateChangedRecordsBothDates(t *testing.T) {
	SetBaseURL("http://localhost:8080")
	oldDue := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	newDue := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	task := &models.Task{ID: 11, WorkspaceID: 3, Title: "Finish draft", DueDate: &newDue}

	record := NewTaskDueDateChanged(task, &oldDue, &models.User{ID: 1, Name: "Dr. Chen"}).
		ToRecord(&models.User{ID: 2})
	assert.Equal(t, "Jan 2, 2026", record.String("old_due_date", ""))
	assert.Equal(t, "Feb 9, 2026", record.String("new_due_date", ""))
	assert.Equal(t, "Dr. Chen", record.String("changed_by", ""))

	// Clearing a due date renders as "not set".
	task.DueDate = nil
	record = NewTaskDueDateChanged(task, &oldDue, nil).ToRecord(&models.User{ID: 2})
	assert.Equal(t, "not set", record.String("new_due_date", ""))
}

func TestTaskCompletedIsDatabaseOnly(t *testing.T) {
	b := NewTaskCompleted(&models.Task{Title: "Finish draft"}, &models.User{Name: "Dr. Chen"})
	assert.Equal(t, []Channel{ChannelDatabase}, b.Via())
}

func TestWorkspaceDeletedWithUnknownDeleterDegradesMail(t *testing.T) {
	SetBaseURL("http://localhost:8080")
	b := NewWorkspaceDeleted("Lab Alpha", nil)
	recipient := &models.User{ID: 2, Name: "Prof. Okafor"}

	msg := b.ToMail(recipient)
	assert.True(t, msg.Degraded)
	assert.Contains(t, msg.Body(), `The workspace "Lab Alpha" you were a member of has been deleted.`)

	record := b.ToRecord(recipient)
	assert.Equal(t, "Lab Alpha", record.String("workspace_name", ""))
	assert.Equal(t, "Administrator", record.String("deleted_by", ""))
}

func TestWorkspaceNotificationsAreQueued(t *testing.T) {
	assert.Equal(t, ModeQueued, NewWorkspaceDeleted("Lab Alpha", nil).Mode())
	assert.Equal(t, ModeQueued, NewWorkspaceRoleChanged(nil, "", nil).Mode())
	assert.Equal(t, ModeSync, NewWorkspaceInvitation(nil, "", nil).Mode())
}

func TestConnectionRequestRecordCarriesRequesterID(t *testing.T) {
	requester := &models.User{ID: 7, Name: "Dr. Chen"}
	record := NewConnectionRequest(requester).ToRecord(&models.User{ID: 2})
	assert.Equal(t, "Dr. Chen", record.String("requester_name", ""))
	assert.Equal(t, uint(7), record["requester_id"])
	assert.Equal(t, "Dr. Chen sent you a connection request", record.String("message", ""))

	// Unknown requester keeps the id out of the payload.
	record = NewConnectionRequest(nil).ToRecord(&models.User{ID: 2})
	assert.NotContains(t, record, "requester_id")
	assert.Equal(t, "A Nexscholar user sent you a connection request", record.String("message", ""))
}
