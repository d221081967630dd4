package repositories

import (
	"github.com/nexscholar/backend/internal/models"
	"gorm.io/gorm"
)

// WorkspaceRepository defines the interface for workspace operations
type WorkspaceRepository interface {
	CreateWorkspace(workspace *models.Workspace) error
	GetWorkspaceByID(id uint) (*models.Workspace, error)
	ListWorkspacesByUser(userID uint) ([]models.Workspace, error)
	DeleteWorkspace(id uint) error
	AddMember(member *models.WorkspaceMember) error
	GetMember(workspaceID, userID uint) (*models.WorkspaceMember, error)
	ListMembers(workspaceID uint) ([]models.WorkspaceMember, error)
	UpdateMemberRole(workspaceID, userID uint, role string) error
	RemoveMembers(workspaceID uint) error
}

type postgresWorkspaceRepository struct {
	db *gorm.DB
}

func NewPostgresWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &postgresWorkspaceRepository{db: db}
}

func (r *postgresWorkspaceRepository) CreateWorkspace(workspace *models.Workspace) error {
	return r.db.Create(workspace).Error
}

func (r *postgresWorkspaceRepository) GetWorkspaceByID(id uint) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := r.db.First(&workspace, id).Error; err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *postgresWorkspaceRepository) ListWorkspacesByUser(userID uint) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := r.db.Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Find(&workspaces).Error
	return workspaces, err
}

func (r *postgresWorkspaceRepository) DeleteWorkspace(id uint) error {
	return r.db.Delete(&models.Workspace{}, id).Error
}

func (r *postgresWorkspaceRepository) AddMember(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

func (r *postgresWorkspaceRepository) GetMember(workspaceID, userID uint) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	if err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *postgresWorkspaceRepository) ListMembers(workspaceID uint) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	if err := r.db.Where("workspace_id = ?", workspaceID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *postgresWorkspaceRepository) UpdateMemberRole(workspaceID, userID uint, role string) error {
	return r.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Update("role", role).Error
}

func (r *postgresWorkspaceRepository) RemoveMembers(workspaceID uint) error {
	return r.db.Where("workspace_id = ?", workspaceID).Delete(&models.WorkspaceMember{}).Error
}
