package domain

// EventStatus places a calendar event relative to now.
type EventStatus string

const (
	EventCurrent   EventStatus = "current"
	EventUpcoming  EventStatus = "upcoming"
	EventCompleted EventStatus = "completed"
)

// CalendarEvent is a display-ready calendar entry. Time is a label such as "14:00 - 15:00".
type CalendarEvent struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Time   string      `json:"time"`
	Status EventStatus `json:"status"`
}
