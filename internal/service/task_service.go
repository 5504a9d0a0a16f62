package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Name        string
	Description *string
	Completed   bool
}

// TaskService handles task operations. Every call is scoped to ownerID.
type TaskService interface {
	ListTasks(ctx context.Context, ownerID uint) ([]model.Task, error)
	GetTask(ctx context.Context, id, ownerID uint) (*model.Task, error)
	CreateTask(ctx context.Context, ownerID uint, input CreateTaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id, ownerID uint, update model.TaskUpdate) (*model.Task, error)
	SetCompleted(ctx context.Context, id, ownerID uint, completed bool) (*model.Task, error)
	DeleteTask(ctx context.Context, id, ownerID uint) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) ListTasks(ctx context.Context, ownerID uint) ([]model.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Persistence("list tasks", err)
	}
	return tasks, nil
}

func (s *taskService) GetTask(ctx context.Context, id, ownerID uint) (*model.Task, error) {
	task, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, taskError("get task", err)
	}
	return task, nil
}

func (s *taskService) CreateTask(ctx context.Context, ownerID uint, input CreateTaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.Validation("name must not be blank")
	}

	task := &model.Task{
		Name:        input.Name,
		Description: input.Description,
		Completed:   input.Completed,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, apperrors.Persistence("create task", err)
	}
	return task, nil
}

// UpdateTask applies only the fields present in update.
func (s *taskService) UpdateTask(ctx context.Context, id, ownerID uint, update model.TaskUpdate) (*model.Task, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, apperrors.Validation("name must not be blank")
	}

	task, err := s.repo.Update(ctx, id, ownerID, update)
	if err != nil {
		return nil, taskError("update task", err)
	}
	return task, nil
}

func (s *taskService) SetCompleted(ctx context.Context, id, ownerID uint, completed bool) (*model.Task, error) {
	task, err := s.repo.SetCompleted(ctx, id, ownerID, completed)
	if err != nil {
		return nil, taskError("set completed", err)
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id, ownerID uint) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return taskError("delete task", err)
	}
	return nil
}

// taskError maps a missing row to ErrTaskNotFound; other failures are storage errors.
func taskError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrTaskNotFound
	}
	return apperrors.Persistence(op, err)
}
