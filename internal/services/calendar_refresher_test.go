package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fastygo/coachboard/usecase/calendar"
)

type countingSync struct {
	calls   int32
	outcome calendar.Outcome
}

func (c *countingSync) Refresh(ctx context.Context) calendar.Result {
	atomic.AddInt32(&c.calls, 1)
	return calendar.Result{Outcome: c.outcome}
}

func TestNewCalendarRefresherRejectsBadSpec(t *testing.T) {
	if _, err := NewCalendarRefresher(&countingSync{}, nil, RefresherConfig{Spec: "every now and then"}); err == nil {
		t.Fatal("expected invalid schedule error")
	}
}

func TestRunOnceDelegatesToRefresh(t *testing.T) {
	s := &countingSync{outcome: calendar.OutcomeNotConnected}
	cr, err := NewCalendarRefresher(s, nil, RefresherConfig{Spec: "@every 1h"})
	if err != nil {
		t.Fatalf("NewCalendarRefresher failed: %v", err)
	}
	res := cr.RunOnce(context.Background())
	if res.Outcome != calendar.OutcomeNotConnected {
		t.Errorf("unexpected outcome %s", res.Outcome)
	}
	if n := atomic.LoadInt32(&s.calls); n != 1 {
		t.Errorf("expected one refresh, got %d", n)
	}
}

func TestRefresherRunsOnSchedule(t *testing.T) {
	s := &countingSync{outcome: calendar.OutcomeSynced}
	cr, err := NewCalendarRefresher(s, nil, RefresherConfig{Spec: "* * * * * *", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewCalendarRefresher failed: %v", err)
	}
	cr.Start()

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(&s.calls) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cr.Stop(ctx)

	if atomic.LoadInt32(&s.calls) == 0 {
		t.Fatal("expected at least one scheduled refresh")
	}
}
