package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/pkg/logger"
	"github.com/fastygo/coachboard/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	events repository.EventRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, events repository.EventRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		events: events,
		logger: logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) []domain.Task {
	return uc.tasks.List(filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	t, ok := uc.tasks.Get(id)
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, nil
}

// CreateTask never fails; the store assigns the id and forces the active status.
func (uc *UseCase) CreateTask(ctx context.Context, task domain.Task) domain.Task {
	created := uc.tasks.Add(task)
	logger.WithRequestID(ctx, uc.logger).Debug("task created", zap.Int64("task_id", created.ID))
	return created
}

// UpdateTask merges patch into the task. A status change must be a legal
// transition from the status held at write time; re-sending the current status is allowed.
func (uc *UseCase) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	var guard repository.TaskGuard
	if patch.Status != nil {
		next := *patch.Status
		guard = func(current domain.Task) error {
			if next == current.Status || current.Status.CanTransition(next) {
				return nil
			}
			return domain.ErrInvalidTransition
		}
	}

	updated, ok, err := uc.tasks.Update(id, patch, guard)
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		logger.WithRequestID(ctx, uc.logger).Debug("status transition rejected",
			zap.Int64("task_id", id),
			zap.String("from", string(updated.Status)),
			zap.String("to", string(*patch.Status)),
		)
		return domain.Task{}, err
	}
	return updated, nil
}

func (uc *UseCase) CompleteTask(ctx context.Context, id int64) (domain.Task, error) {
	return uc.transition(ctx, id, domain.TaskCompleted)
}

func (uc *UseCase) ArchiveTask(ctx context.Context, id int64) (domain.Task, error) {
	return uc.transition(ctx, id, domain.TaskArchived)
}

// transition is stricter than UpdateTask: the task must still be active.
func (uc *UseCase) transition(ctx context.Context, id int64, next domain.TaskStatus) (domain.Task, error) {
	updated, ok, err := uc.tasks.Update(id, domain.TaskPatch{Status: &next}, func(current domain.Task) error {
		if !current.Status.CanTransition(next) {
			return domain.ErrInvalidTransition
		}
		return nil
	})
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		logger.WithRequestID(ctx, uc.logger).Debug("status transition rejected",
			zap.Int64("task_id", id),
			zap.String("from", string(updated.Status)),
			zap.String("to", string(next)),
		)
		return domain.Task{}, err
	}
	return updated, nil
}

// DeleteTask is idempotent: removing an unknown id succeeds without effect.
func (uc *UseCase) DeleteTask(ctx context.Context, id int64) error {
	log := logger.WithRequestID(ctx, uc.logger)
	if !uc.tasks.Remove(id) {
		log.Debug("task already absent", zap.Int64("task_id", id))
		return nil
	}
	log.Debug("task deleted", zap.Int64("task_id", id))
	return nil
}

func (uc *UseCase) ListEvents(ctx context.Context) []domain.CalendarEvent {
	return uc.events.List()
}

// Stats summarises active tasks and counts calendar events.
func (uc *UseCase) Stats(ctx context.Context) domain.Stats {
	stats := domain.Stats{Events: uc.events.Count()}
	for _, t := range uc.tasks.List(repository.AllTasks()) {
		if !t.IsActive() {
			continue
		}
		stats.Active++
		if t.Priority == domain.PriorityCritical {
			stats.Critical++
		}
		stats.Hours += t.EstimatedHours
	}
	return stats
}
