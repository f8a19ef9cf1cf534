package memory

import (
	"sync"

	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/repository"
)

type eventRepository struct {
	mu     sync.RWMutex
	events []domain.CalendarEvent
}

// NewEventRepository returns an in-memory EventRepository starting with seed.
func NewEventRepository(seed ...domain.CalendarEvent) repository.EventRepository {
	r := &eventRepository{}
	r.Replace(seed)
	return r
}

func (r *eventRepository) List() []domain.CalendarEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]domain.CalendarEvent, 0, len(r.events)), r.events...)
}

// Replace swaps the whole collection in one step. A nil slice empties the store.
func (r *eventRepository) Replace(events []domain.CalendarEvent) {
	next := append(make([]domain.CalendarEvent, 0, len(events)), events...)
	r.mu.Lock()
	r.events = next
	r.mu.Unlock()
}

func (r *eventRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}
