package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/notify"
	"github.com/nexscholar/backend/internal/repositories"
	"github.com/nexscholar/backend/pkg/logger"
)

// WorkspaceHandler handles workspace and membership HTTP requests
type WorkspaceHandler struct {
	workspaceRepository repositories.WorkspaceRepository
	taskRepository      repositories.TaskRepository
	userRepository      repositories.UserRepository
	dispatcher          *notify.Dispatcher
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceRepo repositories.WorkspaceRepository, taskRepo repositories.TaskRepository, userRepo repositories.UserRepository, dispatcher *notify.Dispatcher) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceRepository: workspaceRepo,
		taskRepository:      taskRepo,
		userRepository:      userRepo,
		dispatcher:          dispatcher,
	}
}

// RegisterWorkspaceRoutes registers workspace-related routes
func (h *WorkspaceHandler) RegisterWorkspaceRoutes(g *echo.Group) {
	g.POST("/workspaces", h.CreateWorkspace)
	g.GET("/workspaces", h.ListWorkspaces)
	g.GET("/workspaces/:id", h.GetWorkspace)
	g.DELETE("/workspaces/:id", h.DeleteWorkspace)
	g.POST("/workspaces/:id/members", h.AddMember)
	g.PUT("/workspaces/:id/members/:userId/role", h.ChangeMemberRole)
}

// requireAdmin checks that the user is the workspace owner or an admin member
func (h *WorkspaceHandler) requireAdmin(workspace *models.Workspace, userID uint) error {
	if workspace.OwnerID == userID {
		return nil
	}
	member, err := h.workspaceRepository.GetMember(workspace.ID, userID)
	if err != nil || member.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to manage this workspace")
	}
	return nil
}

// CreateWorkspace creates a workspace and adds the creator as an admin member
func (h *WorkspaceHandler) CreateWorkspace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	workspace := &models.Workspace{
		Name:    req.Name,
		OwnerID: currentUserID,
	}
	if err := h.workspaceRepository.CreateWorkspace(workspace); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      currentUserID,
		Role:        models.RoleAdmin,
	}
	if err := h.workspaceRepository.AddMember(member); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, workspace)
}

// ListWorkspaces lists the workspaces the user is a member of
func (h *WorkspaceHandler) ListWorkspaces(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	workspaces, err := h.workspaceRepository.ListWorkspacesByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, workspaces)
}

// GetWorkspace returns one workspace with its members
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	workspaceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid workspace ID")
	}

	workspace, err := h.workspaceRepository.GetWorkspaceByID(uint(workspaceID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Workspace not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.workspaceRepository.GetMember(workspace.ID, currentUserID); err != nil && workspace.OwnerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this workspace")
	}

	members, err := h.workspaceRepository.ListMembers(workspace.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"workspace": workspace,
		"members":   members,
	})
}

// AddMember adds a user to the workspace and notifies them
func (h *WorkspaceHandler) AddMember(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	workspaceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid workspace ID")
	}

	var req models.AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	workspace, err := h.workspaceRepository.GetWorkspaceByID(uint(workspaceID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Workspace not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.requireAdmin(workspace, currentUserID); err != nil {
		return err
	}

	invitee, err := h.userRepository.GetUserByID(req.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      req.UserID,
		Role:        req.Role,
	}
	if err := h.workspaceRepository.AddMember(member); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "User is already a member of this workspace")
	}

	// Best-effort notification; membership stands even if this fails.
	inviter, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		logger.L.WithError(err).Warn("could not load inviter for notification")
	}
	h.dispatcher.Send(notify.NewWorkspaceInvitation(workspace, req.Role, inviter), invitee)

	return c.JSON(http.StatusCreated, member)
}

// ChangeMemberRole updates a member's role and notifies them
func (h *WorkspaceHandler) ChangeMemberRole(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	workspaceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid workspace ID")
	}
	memberUserID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	var req models.ChangeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	workspace, err := h.workspaceRepository.GetWorkspaceByID(uint(workspaceID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Workspace not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.requireAdmin(workspace, currentUserID); err != nil {
		return err
	}

	if _, err := h.workspaceRepository.GetMember(workspace.ID, uint(memberUserID)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Member not found")
	}

	if err := h.workspaceRepository.UpdateMemberRole(workspace.ID, uint(memberUserID), req.Role); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	member, err := h.userRepository.GetUserByID(uint(memberUserID))
	if err != nil {
		logger.L.WithError(err).Warn("could not load member for role change notification")
	} else {
		changedBy, err := h.userRepository.GetUserByID(currentUserID)
		if err != nil {
			logger.L.WithError(err).Warn("could not load actor for role change notification")
		}
		h.dispatcher.Send(notify.NewWorkspaceRoleChanged(workspace, req.Role, changedBy), member)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteWorkspace deletes a workspace and notifies its members. The deletion
// always succeeds even when member notification fails.
func (h *WorkspaceHandler) DeleteWorkspace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	workspaceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid workspace ID")
	}

	workspace, err := h.workspaceRepository.GetWorkspaceByID(uint(workspaceID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Workspace not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if workspace.OwnerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the owner can delete a workspace")
	}

	members, err := h.workspaceRepository.ListMembers(workspace.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.taskRepository.DeleteTasksByWorkspace(workspace.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.workspaceRepository.RemoveMembers(workspace.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.workspaceRepository.DeleteWorkspace(workspace.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	deleter, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		// Builder degrades to generic copy with a nil deleter.
		logger.L.WithError(err).Warn("could not load deleter for workspace deletion notification")
	}

	recipientIDs := make([]uint, 0, len(members))
	for _, m := range members {
		if m.UserID != currentUserID {
			recipientIDs = append(recipientIDs, m.UserID)
		}
	}
	recipients, err := h.userRepository.GetUsersByIDs(recipientIDs)
	if err != nil {
		logger.L.WithError(err).Warn("could not load members for workspace deletion notification")
	}

	builder := notify.NewWorkspaceDeleted(workspace.Name, deleter)
	for i := range recipients {
		h.dispatcher.Send(builder, &recipients[i])
	}

	return c.NoContent(http.StatusNoContent)
}
