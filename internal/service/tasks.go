package service

import (
	"context"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/xid"
)

const (
	minTaskPriority     = 1
	maxTaskPriority     = 3
	defaultTaskPriority = 2
)

func (s *Service) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return cachedList(ctx, s, keyTasks, s.repo.ListTasks)
}

func (s *Service) CreateTask(ctx context.Context, req domain.TaskCreateRequest) (domain.Task, error) {
	task := domain.Task{
		ID:          xid.New("tsk"),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   s.now(),
	}
	if task.Priority == 0 {
		task.Priority = defaultTaskPriority
	}
	if err := validateTask(task); err != nil {
		return domain.Task{}, err
	}

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}
	s.invalidate(ctx, keyTasks)
	s.logWrite(ctx, "task_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateTask(ctx context.Context, id string, req domain.TaskUpdateRequest) (domain.Task, error) {
	existing, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	updated := *existing
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		updated.Priority = *req.Priority
	}
	if req.DueDate != nil {
		updated.DueDate = *req.DueDate
	}
	if req.IsDone != nil {
		updated.IsDone = *req.IsDone
	}
	if err := validateTask(updated); err != nil {
		return domain.Task{}, err
	}

	saved, err := s.repo.UpdateTask(ctx, updated)
	if err != nil {
		return domain.Task{}, err
	}
	s.invalidate(ctx, keyTasks)
	s.logWrite(ctx, "task_update", saved.ID)
	return *saved, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyTasks)
	s.logWrite(ctx, "task_delete", id)
	return nil
}

func validateTask(t domain.Task) error {
	if t.Title == "" {
		return invalid("title is required")
	}
	if t.Priority < minTaskPriority || t.Priority > maxTaskPriority {
		return invalid("priority must be between %d and %d", minTaskPriority, maxTaskPriority)
	}
	return nil
}
