package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager tracks the AI and calendar integrations as two independent state machines.
// Ready means configured or authorized; later call failures never revert it.
type Manager struct {
	mu         sync.RWMutex
	states     map[Integration]State
	lastChange time.Time
	now        func() time.Time
	logger     *zap.Logger
}

func New(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		states: map[Integration]State{
			IntegrationAI:       StateUnconfigured,
			IntegrationCalendar: StateUnconfigured,
		},
		now:    time.Now,
		logger: logger,
	}
	m.lastChange = m.now()
	return m
}

// ConfigureAI applies the startup credential check. The AI provider needs no
// handshake, so a present key moves straight through configuring to ready.
func (m *Manager) ConfigureAI(hasKey bool) {
	if !hasKey {
		m.logger.Info("ai credential missing, running in offline mode")
		return
	}
	if m.Begin(IntegrationAI) {
		m.Succeed(IntegrationAI)
	}
}

// Begin moves an integration into configuring. Only unconfigured and failed
// integrations may begin; it reports whether the transition happened.
func (m *Manager) Begin(i Integration) bool {
	return m.transition(i, StateConfiguring)
}

// Succeed marks a configuring integration ready.
func (m *Manager) Succeed(i Integration) bool {
	return m.transition(i, StateReady)
}

// Fail marks a configuring integration failed. The error is logged, not returned.
func (m *Manager) Fail(i Integration, err error) bool {
	ok := m.transition(i, StateFailed)
	if ok {
		m.logger.Warn("integration connect failed", zap.String("integration", string(i)), zap.Error(err))
	}
	return ok
}

// State returns the current state of one integration.
func (m *Manager) State(i Integration) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[i]
}

// IsReady reports whether an integration is configured or authorized.
func (m *Manager) IsReady(i Integration) bool {
	return m.State(i) == StateReady
}

func (m *Manager) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		AIReady:       m.states[IntegrationAI] == StateReady,
		CalendarReady: m.states[IntegrationCalendar] == StateReady,
		AIState:       m.states[IntegrationAI],
		CalendarState: m.states[IntegrationCalendar],
		LastChange:    m.lastChange,
	}
}

func (m *Manager) transition(i Integration, next State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, known := m.states[i]
	if !known || !allowed(current, next) {
		m.logger.Debug("ignored connection transition",
			zap.String("integration", string(i)),
			zap.String("from", string(current)),
			zap.String("to", string(next)),
		)
		return false
	}
	m.states[i] = next
	m.lastChange = m.now()
	m.logger.Info("connection state changed",
		zap.String("integration", string(i)),
		zap.String("from", string(current)),
		zap.String("to", string(next)),
	)
	return true
}

func allowed(from, to State) bool {
	switch from {
	case StateUnconfigured:
		return to == StateConfiguring
	case StateConfiguring:
		return to == StateReady || to == StateFailed
	case StateFailed:
		return to == StateConfiguring
	case StateReady:
		return false
	default:
		return false
	}
}
