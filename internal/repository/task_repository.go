package repository

import (
	"context"

	"gorm.io/gorm"

	"taskmanager/internal/model"
)

// TaskRepository defines task persistence operations.
// Every method is scoped to an owner; a task of another owner is reported as gorm.ErrRecordNotFound.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Task, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, id, ownerID uint, update model.TaskUpdate) (*model.Task, error)
	SetCompleted(ctx context.Context, id, ownerID uint, completed bool) (*model.Task, error)
	Delete(ctx context.Context, id, ownerID uint) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TaskRepository) error) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// ListByOwner lists the owner's tasks in creation order.
func (r *taskRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByIDAndOwner finds a task by ID within the owner's tasks.
func (r *taskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Create creates a new task; the store assigns the ID.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update applies the fields set in update and returns the stored task.
func (r *taskRepository) Update(ctx context.Context, id, ownerID uint, update model.TaskUpdate) (*model.Task, error) {
	var updated *model.Task
	err := r.WithTransaction(ctx, func(ctx context.Context, repo TaskRepository) error {
		tx := repo.(*taskRepository)
		task, err := tx.FindByIDAndOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if !update.IsEmpty() {
			if err := tx.db.WithContext(ctx).Model(task).Updates(update.Columns()).Error; err != nil {
				return err
			}
		}
		updated, err = tx.FindByIDAndOwner(ctx, id, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetCompleted sets the completed flag and returns the stored task.
func (r *taskRepository) SetCompleted(ctx context.Context, id, ownerID uint, completed bool) (*model.Task, error) {
	return r.Update(ctx, id, ownerID, model.TaskUpdate{Completed: &completed})
}

// Delete removes the task.
func (r *taskRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// WithTransaction executes a function within a database transaction.
// The transaction is rolled back when fn returns an error.
func (r *taskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &taskRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
