package notify

import (
	"fmt"

	"github.com/nexscholar/backend/internal/models"
)

// WorkspaceDeleted notifies a member that their workspace was deleted. The
// workspace row is already gone when this dispatches, so the name travels
// with the builder.
type WorkspaceDeleted struct {
	WorkspaceName string
	DeletedBy     *models.User
}

func NewWorkspaceDeleted(workspaceName string, deletedBy *models.User) *WorkspaceDeleted {
	return &WorkspaceDeleted{WorkspaceName: workspaceName, DeletedBy: deletedBy}
}

func (n *WorkspaceDeleted) Type() string   { return TypeWorkspaceDeleted }
func (n *WorkspaceDeleted) Via() []Channel { return []Channel{ChannelMail, ChannelDatabase} }
func (n *WorkspaceDeleted) Mode() Mode     { return ModeQueued }

func (n *WorkspaceDeleted) workspaceName() string {
	if n.WorkspaceName == "" {
		return "Unknown Workspace"
	}
	return n.WorkspaceName
}

func (n *WorkspaceDeleted) ToMail(recipient *models.User) MailMessage {
	m := MailMessage{
		Subject:  "Workspace Deleted: " + n.workspaceName(),
		Greeting: "Hello " + recipient.DisplayName(),
	}
	if n.DeletedBy == nil {
		// Deleter profile was not loaded; send the generic fallback copy.
		m.Lines = []string{
			fmt.Sprintf("The workspace \"%s\" you were a member of has been deleted.", n.workspaceName()),
			"Some details of this notification could not be loaded.",
		}
		m.degrade()
		return m
	}
	m.Lines = []string{
		fmt.Sprintf("%s deleted the workspace \"%s\".", n.DeletedBy.DisplayName(), n.workspaceName()),
		"All tasks and boards in this workspace are no longer available.",
	}
	m.ActionText = "Open Nexscholar"
	m.ActionURL = BaseURL()
	return m
}

func (n *WorkspaceDeleted) ToRecord(recipient *models.User) models.JSONMap {
	deletedBy := userName(n.DeletedBy, "Administrator")
	return models.JSONMap{
		"workspace_name": n.workspaceName(),
		"deleted_by":     deletedBy,
		"message":        fmt.Sprintf("%s deleted the workspace \"%s\"", deletedBy, n.workspaceName()),
	}
}

// WorkspaceRoleChanged notifies a member that their role in a workspace changed.
type WorkspaceRoleChanged struct {
	Workspace *models.Workspace
	NewRole   string
	ChangedBy *models.User
}

func NewWorkspaceRoleChanged(workspace *models.Workspace, newRole string, changedBy *models.User) *WorkspaceRoleChanged {
	return &WorkspaceRoleChanged{Workspace: workspace, NewRole: newRole, ChangedBy: changedBy}
}

func (n *WorkspaceRoleChanged) Type() string   { return TypeWorkspaceRoleChanged }
func (n *WorkspaceRoleChanged) Via() []Channel { return []Channel{ChannelMail, ChannelDatabase} }
func (n *WorkspaceRoleChanged) Mode() Mode     { return ModeQueued }

func (n *WorkspaceRoleChanged) workspaceName() string {
	if n.Workspace == nil || n.Workspace.Name == "" {
		return "Unknown Workspace"
	}
	return n.Workspace.Name
}

func (n *WorkspaceRoleChanged) newRole() string {
	if n.NewRole == "" {
		return "member"
	}
	return n.NewRole
}

func (n *WorkspaceRoleChanged) ToMail(recipient *models.User) MailMessage {
	m := MailMessage{
		Subject:  "Your Role Changed in " + n.workspaceName(),
		Greeting: "Hello " + recipient.DisplayName(),
		Lines: []string{
			fmt.Sprintf("%s changed your role in \"%s\" to %s.",
				userName(n.ChangedBy, "Administrator"), n.workspaceName(), n.newRole()),
		},
		ActionText: "View Workspace",
	}
	if n.Workspace != nil {
		if url, ok := actionLink("workspaces.show", n.Workspace.ID); ok {
			m.ActionURL = url
		} else {
			m.degrade()
		}
	} else {
		m.degrade()
	}
	return m
}

func (n *WorkspaceRoleChanged) ToRecord(recipient *models.User) models.JSONMap {
	changedBy := userName(n.ChangedBy, "Administrator")
	record := models.JSONMap{
		"workspace_name": n.workspaceName(),
		"new_role":       n.newRole(),
		"changed_by":     changedBy,
		"message": fmt.Sprintf("%s changed your role in \"%s\" to %s",
			changedBy, n.workspaceName(), n.newRole()),
	}
	if n.Workspace != nil {
		record["workspace_id"] = n.Workspace.ID
	}
	return record
}

// WorkspaceInvitation notifies a user that they were added to a workspace.
type WorkspaceInvitation struct {
	Workspace *models.Workspace
	Role      string
	InvitedBy *models.User
}

func NewWorkspaceInvitation(workspace *models.Workspace, role string, invitedBy *models.User) *WorkspaceInvitation {
	return &WorkspaceInvitation{Workspace: workspace, Role: role, InvitedBy: invitedBy}
}

func (n *WorkspaceInvitation) Type() string   { return TypeWorkspaceInvitation }
func (n *WorkspaceInvitation) Via() []Channel { return []Channel{ChannelMail, ChannelDatabase} }
func (n *WorkspaceInvitation) Mode() Mode     { return ModeSync }

func (n *WorkspaceInvitation) workspaceName() string {
	if n.Workspace == nil || n.Workspace.Name == "" {
		return "Unknown Workspace"
	}
	return n.Workspace.Name
}

func (n *WorkspaceInvitation) ToMail(recipient *models.User) MailMessage {
	m := MailMessage{
		Subject:  "You Were Added to " + n.workspaceName(),
		Greeting: "Hello " + recipient.DisplayName(),
		Lines: []string{
			fmt.Sprintf("%s added you to the workspace \"%s\".",
				userName(n.InvitedBy, "Administrator"), n.workspaceName()),
		},
		ActionText: "View Workspace",
	}
	if n.Workspace != nil {
		if url, ok := actionLink("workspaces.show", n.Workspace.ID); ok {
			m.ActionURL = url
		} else {
			m.degrade()
		}
	} else {
		m.degrade()
	}
	return m
}

func (n *WorkspaceInvitation) ToRecord(recipient *models.User) models.JSONMap {
	invitedBy := userName(n.InvitedBy, "Administrator")
	role := n.Role
	if role == "" {
		role = "member"
	}
	record := models.JSONMap{
		"workspace_name": n.workspaceName(),
		"role":           role,
		"invited_by":     invitedBy,
		"message":        fmt.Sprintf("%s added you to the workspace \"%s\"", invitedBy, n.workspaceName()),
	}
	if n.Workspace != nil {
		record["workspace_id"] = n.Workspace.ID
	}
	return record
}
