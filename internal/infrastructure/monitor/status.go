package monitor

import "time"

// Integration names one external service the dashboard talks to.
type Integration string

const (
	IntegrationAI       Integration = "ai"
	IntegrationCalendar Integration = "calendar"
)

// State is the connection lifecycle of a single integration.
type State string

const (
	StateUnconfigured State = "unconfigured"
	StateConfiguring  State = "configuring"
	StateReady        State = "ready"
	StateFailed       State = "failed"
)

// Display is the combined, user-facing connection label.
type Display string

const (
	DisplayFullyConnected Display = "Fully Connected"
	DisplayAIConnected    Display = "Gemini AI Connected"
	DisplayOffline        Display = "Offline Mode"
)

// Status is a point-in-time snapshot of both integrations.
type Status struct {
	AIReady       bool      `json:"aiReady"`
	CalendarReady bool      `json:"calendarReady"`
	AIState       State     `json:"aiState"`
	CalendarState State     `json:"calendarState"`
	LastChange    time.Time `json:"lastChange"`
}

// Display derives the combined label from the two readiness flags.
func (s Status) Display() Display {
	switch {
	case s.AIReady && s.CalendarReady:
		return DisplayFullyConnected
	case s.AIReady && !s.CalendarReady:
		return DisplayAIConnected
	case !s.AIReady && s.CalendarReady:
		return DisplayOffline
	default:
		return DisplayOffline
	}
}
