package repository

import "github.com/fastygo/coachboard/domain"

// EventRepository owns the calendar events. The collection is only ever replaced whole.
type EventRepository interface {
	List() []domain.CalendarEvent
	Replace(events []domain.CalendarEvent)
	Count() int
}
