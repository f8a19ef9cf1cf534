package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/coachboard/usecase/calendar"
)

// CalendarSync is the part of the calendar client the refresher drives.
type CalendarSync interface {
	Refresh(ctx context.Context) calendar.Result
}

// RefresherConfig controls how often a connected calendar is re-fetched.
type RefresherConfig struct {
	// Spec is a cron expression with a seconds field, or a descriptor such as "@every 5m".
	Spec    string
	Timeout time.Duration
}

// CalendarRefresher re-fetches events on a schedule while the calendar is connected.
type CalendarRefresher struct {
	sync   CalendarSync
	logger *zap.Logger
	cron   *cron.Cron
	cfg    RefresherConfig
}

func NewCalendarRefresher(sync CalendarSync, logger *zap.Logger, cfg RefresherConfig) (*CalendarRefresher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cr := &CalendarRefresher{
		sync:   sync,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	if _, err := cr.cron.AddFunc(cfg.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		cr.RunOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid calendar refresh schedule %q: %w", cfg.Spec, err)
	}

	return cr, nil
}

// Start launches the cron scheduler.
func (cr *CalendarRefresher) Start() {
	if cr == nil || cr.cron == nil {
		return
	}
	cr.cron.Start()
	cr.logger.Info("calendar refresher started", zap.String("schedule", cr.cfg.Spec))
}

// Stop waits for a running refresh to finish or for ctx to expire.
func (cr *CalendarRefresher) Stop(ctx context.Context) {
	if cr == nil || cr.cron == nil {
		return
	}
	stopCtx := cr.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	cr.logger.Info("calendar refresher stopped")
}

// RunOnce performs a single refresh and logs its outcome.
func (cr *CalendarRefresher) RunOnce(ctx context.Context) calendar.Result {
	res := cr.sync.Refresh(ctx)
	switch res.Outcome {
	case calendar.OutcomeSynced:
		cr.logger.Debug("calendar refreshed", zap.Int("events", len(res.Events)))
	case calendar.OutcomeNotConnected:
		cr.logger.Debug("calendar refresh skipped, not connected")
	default:
		cr.logger.Warn("calendar refresh failed", zap.String("outcome", string(res.Outcome)), zap.Error(res.Err))
	}
	return res
}
