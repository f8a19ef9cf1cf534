package memory

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/repository"
)

type taskRepository struct {
	mu     sync.RWMutex
	tasks  []domain.Task
	nextID int64
}

// NewTaskRepository returns an in-memory TaskRepository holding seed in order.
// Seed entries with an id already present are dropped.
func NewTaskRepository(seed ...domain.Task) repository.TaskRepository {
	r := &taskRepository{nextID: 1}
	seen := make(map[int64]struct{}, len(seed))
	for _, task := range seed {
		if _, dup := seen[task.ID]; dup || task.ID <= 0 {
			continue
		}
		seen[task.ID] = struct{}{}
		task.Priority = domain.ParsePriority(string(task.Priority))
		task.EstimatedHours = domain.NormalizeHours(task.EstimatedHours)
		r.tasks = append(r.tasks, task)
		if task.ID >= r.nextID {
			r.nextID = task.ID + 1
		}
	}
	return r
}

// Add assigns the next id and forces the task to active.
func (r *taskRepository) Add(task domain.Task) domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = r.nextID
	r.nextID++
	task.Status = domain.TaskActive
	task.Priority = domain.ParsePriority(string(task.Priority))
	task.EstimatedHours = domain.NormalizeHours(task.EstimatedHours)
	r.tasks = append(r.tasks, task)
	return task
}

func (r *taskRepository) Get(id int64) (domain.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.tasks[i], true
	}
	return domain.Task{}, false
}

func (r *taskRepository) Update(id int64, patch domain.TaskPatch, guard repository.TaskGuard) (domain.Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return domain.Task{}, false, nil
	}
	if guard != nil {
		if err := guard(r.tasks[i]); err != nil {
			return r.tasks[i], true, err
		}
	}
	patch.Apply(&r.tasks[i])
	return r.tasks[i], true, nil
}

func (r *taskRepository) Remove(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.tasks = append(r.tasks[:i:i], r.tasks[i+1:]...)
	return true
}

// List projects the current tasks through filter, keeping insertion order.
func (r *taskRepository) List(filter repository.TaskFilter) []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fold := cases.Fold()
	needle := fold.String(filter.Search)

	out := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if !filter.Priority.Match(task.Priority) || !filter.Status.Match(task.Status) {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(task.Title), needle) &&
			!strings.Contains(fold.String(task.Description), needle) {
			continue
		}
		out = append(out, task)
	}
	return out
}

func (r *taskRepository) indexOf(id int64) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
