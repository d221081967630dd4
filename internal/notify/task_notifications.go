package notify

import (
	"fmt"
	"time"

	"github.com/nexscholar/backend/internal/models"
)

// TaskAssigned notifies a user that a task was assigned to them.
type TaskAssigned struct {
	Task     *models.Task
	Assigner *models.User
}

func NewTaskAssigned(task *models.Task, assigner *models.User) *TaskAssigned {
	return &TaskAssigned{Task: task, Assigner: assigner}
}

func (n *TaskAssigned) Type() string   { return TypeTaskAssigned }
func (n *TaskAssigned) Via() []Channel { return []Channel{ChannelMail, ChannelDatabase} }
func (n *TaskAssigned) Mode() Mode     { return ModeSync }

func (n *TaskAssigned) taskTitle() string {
	if n.Task == nil || n.Task.Title == "" {
		return "Unknown Task"
	}
	return n.Task.Title
}

func (n *TaskAssigned) ToMail(recipient *models.User) MailMessage {
	var due *time.Time
	if n.Task != nil {
		due = n.Task.DueDate
	}

	m := MailMessage{
		Subject:  "New Task Assigned: " + n.taskTitle(),
		Greeting: "Hello " + recipient.DisplayName(),
		Lines: []string{
			fmt.Sprintf("%s assigned you the task \"%s\".", userName(n.Assigner, "Administrator"), n.taskTitle()),
			"Due date: " + formatDate(due) + ".",
		},
		ActionText: "View Task",
	}
	if n.Task != nil {
		if url, ok := actionLink("tasks.show", n.Task.WorkspaceID, n.Task.ID); ok {
			m.ActionURL = url
		} else {
			m.degrade()
		}
	} else {
		m.degrade()
	}
	return m
}

func (n *TaskAssigned) ToRecord(recipient *models.User) models.JSONMap {
	assigner := userName(n.Assigner, "Administrator")
	record := models.JSONMap{
		"task_title":    n.taskTitle(),
		"assigner_name": assigner,
		"message":       fmt.Sprintf("%s assigned you the task \"%s\"", assigner, n.taskTitle()),
	}
	if n.Task != nil {
		record["task_id"] = n.Task.ID
		record["workspace_id"] = n.Task.WorkspaceID
		if n.Task.DueDate != nil {
			record["due_date"] = formatDate(n.Task.DueDate)
		}
	}
	return record
}

// TaskDueDateChanged notifies the assignee that a task's due date moved.
type TaskDueDateChanged struct {
	Task       *models.Task
	OldDueDate *time.Time
	ChangedBy  *models.User
}

func NewTaskDueDateChanged(task *models.Task, oldDueDate *time.Time, changedBy *models.User) *TaskDueDateChanged {
	return &TaskDueDateChanged{Task: task, OldDueDate: oldDueDate, ChangedBy: changedBy}
}

func (n *TaskDueDateChanged) Type() string   { return TypeTaskDueDateChanged }
func (n *TaskDueDateChanged) Via() []Channel { return []Channel{ChannelMail, ChannelDatabase} }
func (n *TaskDueDateChanged) Mode() Mode     { return ModeSync }

func (n *TaskDueDateChanged) taskTitle() string {
	if n.Task == nil || n.Task.Title == "" {
		return "Unknown Task"
	}
	return n.Task.Title
}

func (n *TaskDueDateChanged) newDueDate() *time.Time {
	if n.Task == nil {
		return nil
	}
	return n.Task.DueDate
}

func (n *TaskDueDateChanged) ToMail(recipient *models.User) MailMessage {
	m := MailMessage{
		Subject:  "Due Date Changed: " + n.taskTitle(),
		Greeting: "Hello " + recipient.DisplayName(),
		Lines: []string{
			fmt.Sprintf("%s changed the due date of \"%s\".", userName(n.ChangedBy, "Administrator"), n.taskTitle()),
			fmt.Sprintf("Previous due date: %s.", formatDate(n.OldDueDate)),
			fmt.Sprintf("New due date: %s.", formatDate(n.newDueDate())),
		},
		ActionText: "View Task",
	}
	if n.Task != nil {
		if url, ok := actionLink("tasks.show", n.Task.WorkspaceID, n.Task.ID); ok {
			m.ActionURL = url
		} else {
			m.degrade()
		}
	} else {
		m.degrade()
	}
	return m
}

func (n *TaskDueDateChanged) ToRecord(recipient *models.User) models.JSONMap {
	changedBy := userName(n.ChangedBy, "Administrator")
	record := models.JSONMap{
		"task_title":   n.taskTitle(),
		"old_due_date": formatDate(n.OldDueDate),
		"new_due_date": formatDate(n.newDueDate()),
		"changed_by":   changedBy,
		"message": fmt.Sprintf("%s changed the due date of \"%s\" to %s",
			changedBy, n.taskTitle(), formatDate(n.newDueDate())),
	}
	if n.Task != nil {
		record["task_id"] = n.Task.ID
		record["workspace_id"] = n.Task.WorkspaceID
	}
	return record
}

// TaskCompleted notifies the task creator that the task was marked done.
// In-app only.
type TaskCompleted struct {
	Task        *models.Task
	CompletedBy *models.User
}

func NewTaskCompleted(task *models.Task, completedBy *models.User) *TaskCompleted {
	return &TaskCompleted{Task: task, CompletedBy: completedBy}
}

func (n *TaskCompleted) Type() string   { return TypeTaskCompleted }
func (n *TaskCompleted) Via() []Channel { return []Channel{ChannelDatabase} }
func (n *TaskCompleted) Mode() Mode     { return ModeSync }

func (n *TaskCompleted) taskTitle() string {
	if n.Task == nil || n.Task.Title == "" {
		return "Unknown Task"
	}
	return n.Task.Title
}

func (n *TaskCompleted) ToMail(recipient *models.User) MailMessage {
	// Not declared on the mail channel; kept total so the interface never
	// panics if called anyway.
	return MailMessage{
		Subject:  "Task Completed: " + n.taskTitle(),
		Greeting: "Hello " + recipient.DisplayName(),
		Lines: []string{
			fmt.Sprintf("%s completed the task \"%s\".", userName(n.CompletedBy, "A collaborator"), n.taskTitle()),
		},
	}
}

func (n *TaskCompleted) ToRecord(recipient *models.User) models.JSONMap {
	completedBy := userName(n.CompletedBy, "A collaborator")
	record := models.JSONMap{
		"task_title":   n.taskTitle(),
		"completed_by": completedBy,
		"message":      fmt.Sprintf("%s completed the task \"%s\"", completedBy, n.taskTitle()),
	}
	if n.Task != nil {
		record["task_id"] = n.Task.ID
		record["workspace_id"] = n.Task.WorkspaceID
	}
	return record
}
