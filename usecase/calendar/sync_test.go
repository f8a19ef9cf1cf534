package calendar

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/internal/infrastructure/monitor"
	"github.com/fastygo/coachboard/repository"
	"github.com/fastygo/coachboard/repository/memory"
)

type fakeProvider struct {
	loadErr   error
	signInErr error
	eventsErr error
	events    []domain.CalendarEvent

	loads   int32
	signIns int32
	fetches int32
	lastQ   Query

	// gate, when set, blocks SignIn until closed.
	gate chan struct{}
}

func (f *fakeProvider) Load(ctx context.Context) error {
	atomic.AddInt32(&f.loads, 1)
	return f.loadErr
}

func (f *fakeProvider) SignIn(ctx context.Context) error {
	atomic.AddInt32(&f.signIns, 1)
	if f.gate != nil {
		<-f.gate
	}
	return f.signInErr
}

func (f *fakeProvider) Events(ctx context.Context, q Query) ([]domain.CalendarEvent, error) {
	atomic.AddInt32(&f.fetches, 1)
	f.lastQ = q
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events, nil
}

var fetched = []domain.CalendarEvent{
	{ID: "g1", Title: "Board sync", Time: "10:00 - 11:00", Status: domain.EventUpcoming},
}

func newClient(p *fakeProvider, cfg Config) (*Client, repository.EventRepository, *monitor.Manager) {
	events := memory.NewEventRepository(memory.SampleEvents()...)
	conns := monitor.New(nil)
	c := New(cfg, p, events, conns, nil)
	return c, events, conns
}

var credentials = Config{ClientID: "client", APIKey: "key", Timeout: time.Second}

func TestConnectWithoutCredentials(t *testing.T) {
	p := &fakeProvider{}
	c, events, conns := newClient(p, Config{ClientID: "client"})

	if c.Available() {
		t.Fatal("connect must be unavailable without api key")
	}
	res := c.Connect(context.Background())
	if res.Outcome != OutcomeConfigurationMissing {
		t.Fatalf("expected configuration missing, got %s", res.Outcome)
	}
	if !domain.IsDomainError(res.Err, domain.ErrCodeConfigurationMissing) {
		t.Errorf("expected configuration error, got %v", res.Err)
	}
	if p.loads != 0 || p.signIns != 0 || p.fetches != 0 {
		t.Errorf("expected no provider calls, got load=%d signin=%d fetch=%d", p.loads, p.signIns, p.fetches)
	}
	if conns.State(monitor.IntegrationCalendar) != monitor.StateUnconfigured {
		t.Errorf("state must stay unconfigured, got %s", conns.State(monitor.IntegrationCalendar))
	}
	if events.Count() != 4 {
		t.Errorf("event store must be unchanged, got %d", events.Count())
	}
}

func TestConnectSyncsEvents(t *testing.T) {
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	p := &fakeProvider{events: fetched}
	c, events, conns := newClient(p, credentials)
	c.now = func() time.Time { return now }

	res := c.Connect(context.Background())
	if !res.OK() {
		t.Fatalf("expected synced, got %s (%v)", res.Outcome, res.Err)
	}
	if !conns.IsReady(monitor.IntegrationCalendar) {
		t.Fatal("expected calendar ready")
	}
	got := events.List()
	if len(got) != 1 || got[0].ID != "g1" {
		t.Fatalf("expected store replaced with fetched events, got %+v", got)
	}
	if p.lastQ != UpcomingQuery(now) {
		t.Errorf("unexpected query %+v", p.lastQ)
	}
}

func TestConnectAuthFailureIsRepeatable(t *testing.T) {
	p := &fakeProvider{signInErr: errors.New("popup closed")}
	c, events, conns := newClient(p, credentials)

	for i := 0; i < 3; i++ {
		res := c.Connect(context.Background())
		if res.Outcome != OutcomeAuthFailed {
			t.Fatalf("attempt %d: expected auth failed, got %s", i, res.Outcome)
		}
		if len(res.Events) != 0 {
			t.Errorf("attempt %d: failure must carry no events", i)
		}
		if conns.IsReady(monitor.IntegrationCalendar) {
			t.Fatalf("attempt %d: calendar must not be ready", i)
		}
		if conns.State(monitor.IntegrationCalendar) != monitor.StateFailed {
			t.Errorf("attempt %d: expected failed state, got %s", i, conns.State(monitor.IntegrationCalendar))
		}
		if events.Count() != 4 {
			t.Errorf("attempt %d: event store changed to %d entries", i, events.Count())
		}
	}
	if p.loads != 1 {
		t.Errorf("library must load once, loaded %d times", p.loads)
	}
	if p.fetches != 0 {
		t.Errorf("fetch must not run after failed sign-in, ran %d times", p.fetches)
	}
}

func TestConnectLoadFailure(t *testing.T) {
	p := &fakeProvider{loadErr: errors.New("bad redirect")}
	c, events, conns := newClient(p, credentials)

	res := c.Connect(context.Background())
	if res.Outcome != OutcomeLoadFailed {
		t.Fatalf("expected load failed, got %s", res.Outcome)
	}
	if p.signIns != 0 {
		t.Error("sign-in must not run after load failure")
	}
	if conns.State(monitor.IntegrationCalendar) != monitor.StateFailed {
		t.Errorf("expected failed state, got %s", conns.State(monitor.IntegrationCalendar))
	}
	if events.Count() != 4 {
		t.Errorf("event store changed to %d entries", events.Count())
	}
}

func TestFetchFailureKeepsReadinessAndStore(t *testing.T) {
	p := &fakeProvider{eventsErr: errors.New("503")}
	c, events, conns := newClient(p, credentials)

	res := c.Connect(context.Background())
	if res.Outcome != OutcomeFetchFailed {
		t.Fatalf("expected fetch failed, got %s", res.Outcome)
	}
	if !domain.IsDomainError(res.Err, domain.ErrCodeTransientNetwork) {
		t.Errorf("expected transient network error, got %v", res.Err)
	}
	if !conns.IsReady(monitor.IntegrationCalendar) {
		t.Error("fetch failure must not revert readiness")
	}
	if events.Count() != 4 {
		t.Errorf("event store changed to %d entries", events.Count())
	}

	p.eventsErr = nil
	p.events = fetched
	res = c.Connect(context.Background())
	if !res.OK() {
		t.Fatalf("expected retry to sync, got %s", res.Outcome)
	}
	if p.signIns != 1 {
		t.Errorf("ready calendar must skip sign-in, signed in %d times", p.signIns)
	}
}

func TestRefresh(t *testing.T) {
	p := &fakeProvider{events: fetched}
	c, events, _ := newClient(p, credentials)

	if res := c.Refresh(context.Background()); res.Outcome != OutcomeNotConnected {
		t.Fatalf("expected not connected before sign-in, got %s", res.Outcome)
	}
	if p.fetches != 0 {
		t.Fatal("refresh must not fetch before sign-in")
	}

	c.Connect(context.Background())
	p.events = nil
	res := c.Refresh(context.Background())
	if !res.OK() {
		t.Fatalf("expected refresh to sync, got %s", res.Outcome)
	}
	if events.Count() != 0 {
		t.Errorf("expected empty calendar after refresh, got %d", events.Count())
	}
}

func TestConcurrentConnectSharesOneRun(t *testing.T) {
	p := &fakeProvider{events: fetched, gate: make(chan struct{})}
	c, _, _ := newClient(p, credentials)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]Result, callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = c.Connect(context.Background())
		}(i)
	}

	// Let the first caller reach SignIn before releasing it.
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&p.signIns) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(p.gate)
	wg.Wait()

	if n := atomic.LoadInt32(&p.signIns); n != 1 {
		t.Errorf("expected one sign-in, got %d", n)
	}
	for i, res := range results {
		if !res.OK() {
			t.Errorf("caller %d: expected synced, got %s", i, res.Outcome)
		}
	}
}
