package models

import "time"

// Workspace is a lightweight project board shared by a group of scholars
type Workspace struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	OwnerID   uint      `json:"owner_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// Workspace member roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// WorkspaceMember links a user to a workspace with a role
type WorkspaceMember struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	WorkspaceID uint      `json:"workspace_id" gorm:"uniqueIndex:idx_workspace_user"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex:idx_workspace_user"`
	Role        string    `json:"role" gorm:"type:varchar(20);default:'member'"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=admin member"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}
