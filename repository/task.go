package repository

import (
	"github.com/fastygo/coachboard/domain"
)

// TaskFilter narrows a task listing. Search matches title or description, ignoring case.
type TaskFilter struct {
	Search   string
	Priority domain.PriorityFilter
	Status   domain.StatusFilter
}

// AllTasks matches every task in the store.
func AllTasks() TaskFilter {
	return TaskFilter{
		Priority: domain.PriorityFilter{All: true},
		Status:   domain.StatusFilter{All: true},
	}
}

// ActiveTasks matches tasks whose status is active.
func ActiveTasks() TaskFilter {
	return TaskFilter{
		Priority: domain.PriorityFilter{All: true},
		Status:   domain.StatusFilter{Status: domain.TaskActive},
	}
}

// TaskGuard inspects the stored task before a patch lands. A non-nil error
// aborts the update and is returned unchanged.
type TaskGuard func(current domain.Task) error

// TaskRepository owns the task collection. Lookups that miss are no-ops, not errors.
type TaskRepository interface {
	Add(task domain.Task) domain.Task
	Get(id int64) (domain.Task, bool)
	// Update runs guard and applies patch under one write lock. A nil guard always passes.
	Update(id int64, patch domain.TaskPatch, guard TaskGuard) (domain.Task, bool, error)
	Remove(id int64) bool
	List(filter TaskFilter) []domain.Task
}
