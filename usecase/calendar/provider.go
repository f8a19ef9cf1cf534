package calendar

import (
	"context"
	"time"

	"github.com/fastygo/coachboard/domain"
)

// Query is the events listing request sent to the provider.
type Query struct {
	CalendarID   string
	TimeMin      time.Time
	MaxResults   int64
	SingleEvents bool
	OrderBy      string
}

// UpcomingQuery lists at most ten single events on the primary calendar from now on.
func UpcomingQuery(now time.Time) Query {
	return Query{
		CalendarID:   "primary",
		TimeMin:      now,
		MaxResults:   10,
		SingleEvents: true,
		OrderBy:      "startTime",
	}
}

// Provider is the remote calendar driven by the sync pipeline, one method per stage.
type Provider interface {
	// Load bootstraps the provider client library.
	Load(ctx context.Context) error
	// SignIn runs the interactive authorization.
	SignIn(ctx context.Context) error
	// Events lists events matching q.
	Events(ctx context.Context, q Query) ([]domain.CalendarEvent, error)
}
