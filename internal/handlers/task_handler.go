package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/notify"
	"github.com/nexscholar/backend/internal/repositories"
	"github.com/nexscholar/backend/pkg/logger"
)

// TaskHandler handles task board HTTP requests
type TaskHandler struct {
	taskRepository      repositories.TaskRepository
	workspaceRepository repositories.WorkspaceRepository
	userRepository      repositories.UserRepository
	dispatcher          *notify.Dispatcher
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskRepo repositories.TaskRepository, workspaceRepo repositories.WorkspaceRepository, userRepo repositories.UserRepository, dispatcher *notify.Dispatcher) *TaskHandler {
	return &TaskHandler{
		taskRepository:      taskRepo,
		workspaceRepository: workspaceRepo,
		userRepository:      userRepo,
		dispatcher:          dispatcher,
	}
}

// RegisterTaskRoutes registers task-related routes
func (h *TaskHandler) RegisterTaskRoutes(g *echo.Group) {
	g.POST("/workspaces/:id/tasks", h.CreateTask)
	g.GET("/workspaces/:id/tasks", h.ListTasks)
	g.PUT("/tasks/:id/assign", h.AssignTask)
	g.PUT("/tasks/:id/due-date", h.ChangeDueDate)
	g.PUT("/tasks/:id/complete", h.CompleteTask)
}

// parseDueDate accepts RFC 3339 or a bare date
func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// requireMember checks workspace membership for the acting user
func (h *TaskHandler) requireMember(workspaceID, userID uint) error {
	workspace, err := h.workspaceRepository.GetWorkspaceByID(workspaceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Workspace not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if workspace.OwnerID == userID {
		return nil
	}
	if _, err := h.workspaceRepository.GetMember(workspaceID, userID); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this workspace")
	}
	return nil
}

// CreateTask creates a task, notifying the assignee when one is set
func (h *TaskHandler) CreateTask(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	workspaceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid workspace ID")
	}

	var req models.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.requireMember(uint(workspaceID), currentUserID); err != nil {
		return err
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid due date format")
	}

	task := &models.Task{
		WorkspaceID: uint(workspaceID),
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusTodo,
		AssigneeID:  req.AssigneeID,
		DueDate:     dueDate,
		CreatedBy:   currentUserID,
	}
	if err := h.taskRepository.CreateTask(task); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if task.AssigneeID != nil && *task.AssigneeID != currentUserID {
		h.notifyAssigned(task, currentUserID, *task.AssigneeID)
	}

	return c.JSON(http.StatusCreated, task)
}

// ListTasks lists the tasks of a workspace board
func (h *TaskHandler) ListTasks(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	workspaceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid workspace ID")
	}

	if err := h.requireMember(uint(workspaceID), currentUserID); err != nil {
		return err
	}

	tasks, err := h.taskRepository.ListTasksByWorkspace(uint(workspaceID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, tasks)
}

// AssignTask assigns a task to a workspace member and notifies them
func (h *TaskHandler) AssignTask(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req models.AssignTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskRepository.GetTaskByID(uint(taskID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.requireMember(task.WorkspaceID, currentUserID); err != nil {
		return err
	}

	task.AssigneeID = &req.AssigneeID
	if err := h.taskRepository.UpdateTask(task); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.AssigneeID != currentUserID {
		h.notifyAssigned(task, currentUserID, req.AssigneeID)
	}

	return c.JSON(http.StatusOK, task)
}

// ChangeDueDate moves a task's due date and notifies the assignee
func (h *TaskHandler) ChangeDueDate(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req models.ChangeDueDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	newDueDate, err := parseDueDate(req.DueDate)
	if err != nil || newDueDate == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid due date format")
	}

	task, err := h.taskRepository.GetTaskByID(uint(taskID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.requireMember(task.WorkspaceID, currentUserID); err != nil {
		return err
	}

	oldDueDate := task.DueDate
	task.DueDate = newDueDate
	if err := h.taskRepository.UpdateTask(task); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if task.AssigneeID != nil && *task.AssigneeID != currentUserID {
		assignee, err := h.userRepository.GetUserByID(*task.AssigneeID)
		if err != nil {
			logger.L.WithError(err).Warn("could not load assignee for due date notification")
		} else {
			changedBy, err := h.userRepository.GetUserByID(currentUserID)
			if err != nil {
				logger.L.WithError(err).Warn("could not load actor for due date notification")
			}
			h.dispatcher.Send(notify.NewTaskDueDateChanged(task, oldDueDate, changedBy), assignee)
		}
	}

	return c.JSON(http.StatusOK, task)
}

// CompleteTask marks a task done and notifies its creator
func (h *TaskHandler) CompleteTask(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.taskRepository.GetTaskByID(uint(taskID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.requireMember(task.WorkspaceID, currentUserID); err != nil {
		return err
	}

	task.Status = models.TaskStatusDone
	if err := h.taskRepository.UpdateTask(task); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if task.CreatedBy != currentUserID {
		creator, err := h.userRepository.GetUserByID(task.CreatedBy)
		if err != nil {
			logger.L.WithError(err).Warn("could not load creator for completion notification")
		} else {
			completedBy, err := h.userRepository.GetUserByID(currentUserID)
			if err != nil {
				logger.L.WithError(err).Warn("could not load actor for completion notification")
			}
			h.dispatcher.Send(notify.NewTaskCompleted(task, completedBy), creator)
		}
	}

	return c.JSON(http.StatusOK, task)
}

// notifyAssigned sends the task_assigned notification, best-effort
func (h *TaskHandler) notifyAssigned(task *models.Task, actorID, assigneeID uint) {
	assignee, err := h.userRepository.GetUserByID(assigneeID)
	if err != nil {
		logger.L.WithError(err).Warn("could not load assignee for assignment notification")
		return
	}
	assigner, err := h.userRepository.GetUserByID(actorID)
	if err != nil {
		// Builder falls back to "Administrator" with a nil assigner.
		logger.L.WithError(err).Warn("could not load assigner for assignment notification")
	}
	h.dispatcher.Send(notify.NewTaskAssigned(task, assigner), assignee)
}
