package domain

import (
	"fmt"
	"math"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityCritical    Priority = "critical"
	PriorityImportant   Priority = "important"
	PriorityStrategic   Priority = "strategic"
	PriorityMaintenance Priority = "maintenance"
)

// ParsePriority maps free text onto a Priority. Anything unrecognized is maintenance.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityCritical, PriorityImportant, PriorityStrategic, PriorityMaintenance:
		return Priority(s)
	default:
		return PriorityMaintenance
	}
}

// Rank orders priorities by urgency, critical first.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityImportant:
		return 1
	case PriorityStrategic:
		return 2
	case PriorityMaintenance:
		return 3
	default:
		return 3
	}
}

// TaskStatus is the lifecycle position of a task.
type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskCompleted TaskStatus = "completed"
	TaskArchived  TaskStatus = "archived"
)

// ParseTaskStatus accepts only the three known statuses.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskActive, TaskCompleted, TaskArchived:
		return TaskStatus(s), nil
	default:
		return "", WrapError(ErrCodeInvalid, "unknown task status", fmt.Errorf("%q", s))
	}
}

// CanTransition reports whether a task may move from s to next.
// Only active tasks move, and never back to active.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	switch s {
	case TaskActive:
		return next == TaskCompleted || next == TaskArchived
	case TaskCompleted, TaskArchived:
		return false
	default:
		return false
	}
}

// Task represents a dashboard work item.
type Task struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       Priority   `json:"priority"`
	Deadline       string     `json:"deadline"`
	EstimatedHours float64    `json:"estimatedHours"`
	Status         TaskStatus `json:"status"`
	Category       string     `json:"category"`
}

func (t *Task) IsActive() bool {
	return t != nil && t.Status == TaskActive
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title          *string
	Description    *string
	Priority       *Priority
	Deadline       *string
	EstimatedHours *float64
	Status         *TaskStatus
	Category       *string
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = NormalizeHours(*p.EstimatedHours)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
}

// NormalizeHours clamps estimates to a non-negative finite number.
func NormalizeHours(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0
	}
	return h
}

// PriorityFilter selects one priority, or every priority when All is set.
type PriorityFilter struct {
	All      bool
	Priority Priority
}

// StatusFilter selects one status, or every status when All is set.
type StatusFilter struct {
	All    bool
	Status TaskStatus
}

const filterAll = "all"

// ParsePriorityFilter accepts "all" (or empty) and the four priority names.
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	if s == "" || s == filterAll {
		return PriorityFilter{All: true}, nil
	}
	switch Priority(s) {
	case PriorityCritical, PriorityImportant, PriorityStrategic, PriorityMaintenance:
		return PriorityFilter{Priority: Priority(s)}, nil
	default:
		return PriorityFilter{}, WrapError(ErrCodeInvalid, ErrInvalidFilter.Message, fmt.Errorf("priority %q", s))
	}
}

// ParseStatusFilter accepts "all" (or empty) and the three status names.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || s == filterAll {
		return StatusFilter{All: true}, nil
	}
	status, err := ParseTaskStatus(s)
	if err != nil {
		return StatusFilter{}, WrapError(ErrCodeInvalid, ErrInvalidFilter.Message, fmt.Errorf("status %q", s))
	}
	return StatusFilter{Status: status}, nil
}

func (f PriorityFilter) Match(p Priority) bool {
	return f.All || f.Priority == p
}

func (f StatusFilter) Match(s TaskStatus) bool {
	return f.All || f.Status == s
}

// Stats is the dashboard summary. Task figures cover active tasks only.
type Stats struct {
	Active   int     `json:"active"`
	Critical int     `json:"critical"`
	Events   int     `json:"events"`
	Hours    float64 `json:"hours"`
}
