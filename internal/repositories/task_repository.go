package repositories

import (
	"github.com/nexscholar/backend/internal/models"
	"gorm.io/gorm"
)

// TaskRepository defines the interface for task operations
type TaskRepository interface {
	CreateTask(task *models.Task) error
	GetTaskByID(id uint) (*models.Task, error)
	ListTasksByWorkspace(workspaceID uint) ([]models.Task, error)
	UpdateTask(task *models.Task) error
	DeleteTasksByWorkspace(workspaceID uint) error
}

type postgresTaskRepository struct {
	db *gorm.DB
}

func NewPostgresTaskRepository(db *gorm.DB) TaskRepository {
	return &postgresTaskRepository{db: db}
}

func (r *postgresTaskRepository) CreateTask(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *postgresTaskRepository) GetTaskByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *postgresTaskRepository) ListTasksByWorkspace(workspaceID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("workspace_id = ?", workspaceID).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *postgresTaskRepository) UpdateTask(task *models.Task) error {
	return r.db.Save(task).Error
}

func (r *postgresTaskRepository) DeleteTasksByWorkspace(workspaceID uint) error {
	return r.db.Where("workspace_id = ?", workspaceID).Delete(&models.Task{}).Error
}
