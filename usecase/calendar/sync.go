package calendar

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/internal/infrastructure/monitor"
	"github.com/fastygo/coachboard/pkg/logger"
	"github.com/fastygo/coachboard/repository"
)

// Outcome is how a connect or refresh run ended.
type Outcome string

const (
	OutcomeSynced               Outcome = "synced"
	OutcomeConfigurationMissing Outcome = "configuration_missing"
	OutcomeNotConnected         Outcome = "not_connected"
	OutcomeLoadFailed           Outcome = "load_failed"
	OutcomeAuthFailed           Outcome = "auth_failed"
	OutcomeFetchFailed          Outcome = "fetch_failed"
)

// Result is returned instead of an error; failures never escape the pipeline.
type Result struct {
	Outcome Outcome                `json:"outcome"`
	Events  []domain.CalendarEvent `json:"events"`
	Err     error                  `json:"-"`
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeSynced
}

// ConnectionTracker is the slice of the connection manager the pipeline drives.
type ConnectionTracker interface {
	Begin(i monitor.Integration) bool
	Succeed(i monitor.Integration) bool
	Fail(i monitor.Integration, err error) bool
	IsReady(i monitor.Integration) bool
}

// Config carries the two credentials that gate the connect action.
type Config struct {
	ClientID string
	APIKey   string
	// Timeout bounds the load and fetch stages. Sign-in is bounded by the provider.
	Timeout time.Duration
}

const (
	flightConnect = "connect"
	flightLoad    = "load"

	defaultStageTimeout = 15 * time.Second
)

// Client runs initialize, load, authenticate and fetch in order and writes
// successful fetches into the event store.
type Client struct {
	cfg      Config
	provider Provider
	events   repository.EventRepository
	conns    ConnectionTracker
	logger   *zap.Logger
	now      func() time.Time

	flight singleflight.Group
	loaded atomic.Bool
}

func New(cfg Config, provider Provider, events repository.EventRepository, conns ConnectionTracker, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultStageTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:      cfg,
		provider: provider,
		events:   events,
		conns:    conns,
		logger:   log,
		now:      time.Now,
	}
}

// Available reports whether both calendar credentials are configured.
// Without them the connect action is disabled.
func (c *Client) Available() bool {
	return c.cfg.ClientID != "" && c.cfg.APIKey != ""
}

// Connect runs the full pipeline. Overlapping calls share a single run.
func (c *Client) Connect(ctx context.Context) Result {
	v, _, _ := c.flight.Do(flightConnect, func() (interface{}, error) {
		return c.connect(ctx), nil
	})
	return v.(Result)
}

// Refresh re-runs only the fetch stage for an already authorized calendar.
func (c *Client) Refresh(ctx context.Context) Result {
	if !c.conns.IsReady(monitor.IntegrationCalendar) {
		return Result{Outcome: OutcomeNotConnected}
	}
	v, _, _ := c.flight.Do(flightConnect, func() (interface{}, error) {
		return c.fetch(ctx), nil
	})
	return v.(Result)
}

func (c *Client) connect(ctx context.Context) Result {
	log := logger.WithRequestID(ctx, c.logger)

	if !c.Available() {
		log.Warn("calendar credentials not configured")
		return Result{Outcome: OutcomeConfigurationMissing, Err: domain.ErrConfigurationMissing}
	}

	if c.conns.IsReady(monitor.IntegrationCalendar) {
		return c.fetch(ctx)
	}
	c.conns.Begin(monitor.IntegrationCalendar)

	if err := c.load(ctx); err != nil {
		c.conns.Fail(monitor.IntegrationCalendar, err)
		return Result{Outcome: OutcomeLoadFailed, Err: err}
	}

	if err := c.provider.SignIn(ctx); err != nil {
		c.conns.Fail(monitor.IntegrationCalendar, err)
		return Result{Outcome: OutcomeAuthFailed, Err: err}
	}
	c.conns.Succeed(monitor.IntegrationCalendar)
	log.Info("calendar authorized")

	return c.fetch(ctx)
}

// load bootstraps the provider once per process; concurrent callers share the attempt.
func (c *Client) load(ctx context.Context) error {
	if c.loaded.Load() {
		return nil
	}
	_, err, _ := c.flight.Do(flightLoad, func() (interface{}, error) {
		if c.loaded.Load() {
			return nil, nil
		}
		stageCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
		if err := c.provider.Load(stageCtx); err != nil {
			return nil, err
		}
		c.loaded.Store(true)
		return nil, nil
	})
	return err
}

// fetch lists upcoming events. Only a successful fetch replaces the store.
func (c *Client) fetch(ctx context.Context) Result {
	log := logger.WithRequestID(ctx, c.logger)

	stageCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	events, err := c.provider.Events(stageCtx, UpcomingQuery(c.now()))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("calendar fetch timed out", zap.Duration("timeout", c.cfg.Timeout))
		} else {
			log.Warn("failed to fetch calendar events", zap.Error(err))
		}
		return Result{
			Outcome: OutcomeFetchFailed,
			Err:     domain.WrapError(domain.ErrCodeTransientNetwork, "calendar fetch failed", err),
		}
	}

	if events == nil {
		events = []domain.CalendarEvent{}
	}
	c.events.Replace(events)
	log.Info("calendar synced", zap.Int("events", len(events)))
	return Result{Outcome: OutcomeSynced, Events: events}
}
