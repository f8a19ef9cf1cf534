package google

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/fastygo/coachboard/domain"
	calendarUC "github.com/fastygo/coachboard/usecase/calendar"
)

// Config carries the calendar credentials read at startup.
type Config struct {
	ClientID     string
	ClientSecret string
	APIKey       string
	RedirectURL  string
}

// CalendarProvider talks to Google Calendar on behalf of the signed-in user.
type CalendarProvider struct {
	cfg       Config
	authorize Authorizer
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.RWMutex
	oauth *oauth2.Config
	srv   *calendar.Service
}

// NewCalendarProvider wires the provider. A nil authorize falls back to WebAuthorizer.
func NewCalendarProvider(cfg Config, authorize Authorizer, logger *zap.Logger) *CalendarProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if authorize == nil {
		authorize = WebAuthorizer(0, logger)
	}
	return &CalendarProvider{
		cfg:       cfg,
		authorize: authorize,
		logger:    logger,
		now:       time.Now,
	}
}

// Load prepares the OAuth client configuration.
func (p *CalendarProvider) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg, err := oauthConfig(p.cfg.ClientID, p.cfg.ClientSecret, p.cfg.RedirectURL)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.oauth = cfg
	p.mu.Unlock()
	return nil
}

// SignIn authorizes the user and builds the Calendar service on the resulting token.
func (p *CalendarProvider) SignIn(ctx context.Context) error {
	p.mu.RLock()
	cfg := p.oauth
	p.mu.RUnlock()
	if cfg == nil {
		return errors.New("calendar library not loaded")
	}

	tok, err := p.authorize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("calendar sign-in failed: %w", err)
	}

	// The token source refreshes in the background, so it must outlive ctx.
	client := cfg.Client(context.WithoutCancel(ctx), tok)
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create calendar service: %w", err)
	}

	p.mu.Lock()
	p.srv = srv
	p.mu.Unlock()
	return nil
}

// Events lists events and maps them to dashboard entries.
func (p *CalendarProvider) Events(ctx context.Context, q calendarUC.Query) ([]domain.CalendarEvent, error) {
	p.mu.RLock()
	srv := p.srv
	p.mu.RUnlock()
	if srv == nil {
		return nil, errors.New("calendar not signed in")
	}

	call := srv.Events.List(q.CalendarID).
		TimeMin(q.TimeMin.Format(time.RFC3339)).
		MaxResults(q.MaxResults).
		SingleEvents(q.SingleEvents).
		OrderBy(q.OrderBy).
		Context(ctx)

	var opts []googleapi.CallOption
	if p.cfg.APIKey != "" {
		opts = append(opts, googleapi.QueryParameter("key", p.cfg.APIKey))
	}

	events, err := call.Do(opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}

	now := p.now()
	out := make([]domain.CalendarEvent, 0, len(events.Items))
	for _, item := range events.Items {
		if item == nil {
			continue
		}
		out = append(out, toDomainEvent(item, now, time.Local))
	}
	p.logger.Debug("calendar events fetched", zap.Int("count", len(out)))
	return out, nil
}

// toDomainEvent turns an API event into a labelled entry placed relative to now.
func toDomainEvent(e *calendar.Event, now time.Time, loc *time.Location) domain.CalendarEvent {
	title := e.Summary
	if title == "" {
		title = "(No title)"
	}
	out := domain.CalendarEvent{ID: e.Id, Title: title, Status: domain.EventUpcoming}

	start, startAllDay, startOK := parseEventTime(e.Start, loc)
	end, _, endOK := parseEventTime(e.End, loc)
	if !startOK {
		return out
	}
	if !endOK || end.Before(start) {
		end = start
	}

	if startAllDay {
		out.Time = "All day"
	} else {
		out.Time = fmt.Sprintf("%s - %s", start.In(loc).Format("15:04"), end.In(loc).Format("15:04"))
	}

	switch {
	case now.Before(start):
		out.Status = domain.EventUpcoming
	case !now.Before(end):
		out.Status = domain.EventCompleted
	default:
		out.Status = domain.EventCurrent
	}
	return out
}

func parseEventTime(dt *calendar.EventDateTime, loc *time.Location) (t time.Time, allDay bool, ok bool) {
	if dt == nil {
		return time.Time{}, false, false
	}
	if dt.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return time.Time{}, false, false
		}
		return parsed, false, true
	}
	if dt.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dt.Date, loc)
		if err != nil {
			return time.Time{}, false, false
		}
		return parsed, true, true
	}
	return time.Time{}, false, false
}
