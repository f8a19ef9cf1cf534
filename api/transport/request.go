package transport

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fastygo/coachboard/domain"
)

// TaskRequest is the body of task create and patch calls. Absent fields stay nil.
type TaskRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Priority       *string `json:"priority"`
	Deadline       *string `json:"deadline"`
	EstimatedHours Hours   `json:"estimatedHours"`
	Status         *string `json:"status"`
	Category       *string `json:"category"`
}

// Hours accepts a JSON number or a numeric string. Anything else reads as zero.
type Hours struct {
	Set   bool
	Value float64
}

func (h *Hours) UnmarshalJSON(data []byte) error {
	h.Set = true
	h.Value = 0

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		h.Set = false
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		h.Value = domain.NormalizeHours(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			h.Value = domain.NormalizeHours(parsed)
		}
	}
	return nil
}

// NewTask builds a task for creation. Status is ignored; new tasks are always active.
func (r TaskRequest) NewTask() domain.Task {
	t := domain.Task{
		Title:          deref(r.Title),
		Description:    deref(r.Description),
		Priority:       domain.ParsePriority(deref(r.Priority)),
		Deadline:       deref(r.Deadline),
		EstimatedHours: r.EstimatedHours.Value,
		Category:       deref(r.Category),
	}
	return t
}

// Patch converts the request into a partial update.
func (r TaskRequest) Patch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		Category:    r.Category,
	}
	if r.Priority != nil {
		p := domain.ParsePriority(*r.Priority)
		patch.Priority = &p
	}
	if r.EstimatedHours.Set {
		h := r.EstimatedHours.Value
		patch.EstimatedHours = &h
	}
	if r.Status != nil {
		status, err := domain.ParseTaskStatus(*r.Status)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Status = &status
	}
	return patch, nil
}

type ChatRequest struct {
	Message string `json:"message"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
