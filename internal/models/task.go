package models

import "time"

// Task statuses
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task is a card on a workspace board
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	WorkspaceID uint       `json:"workspace_id" gorm:"index"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'todo'"`
	AssigneeID  *uint      `json:"assignee_id" gorm:"index"`
	DueDate     *time.Time `json:"due_date"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	AssigneeID  *uint  `json:"assignee_id"`
	DueDate     string `json:"due_date" validate:"omitempty"` // RFC 3339 or YYYY-MM-DD
}

type AssignTaskRequest struct {
	AssigneeID uint `json:"assignee_id" validate:"required"`
}

type ChangeDueDateRequest struct {
	DueDate string `json:"due_date" validate:"required"` // RFC 3339 or YYYY-MM-DD
}
