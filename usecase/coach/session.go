package coach

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/pkg/logger"
	"github.com/fastygo/coachboard/repository"
)

const (
	Greeting = "👋 Hello! I'm your AI productivity coach. I understand your role as Marketing Director at HAY and your current projects. How can I help you optimize your productivity today?"

	FallbackUnconfigured = "I'm having trouble connecting right now. Please check if the Gemini API key is configured."
	FallbackNetwork      = "I'm experiencing connection issues. Please try again in a moment."
	FallbackMalformed    = "I'm having trouble generating a response right now."

	timestampLayout = "15:04"
)

// Assistant is the text generation backend.
type Assistant interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// RejectReason says why a message was not accepted.
type RejectReason string

const (
	RejectEmpty RejectReason = "empty"
	RejectBusy  RejectReason = "busy"
)

type SendResult struct {
	Accepted bool               `json:"accepted"`
	Reason   RejectReason       `json:"reason,omitempty"`
	User     domain.ChatMessage `json:"user"`
	Reply    domain.ChatMessage `json:"reply"`
}

// Session is a single linear chat transcript. At most one send is in flight;
// overlapping sends are dropped.
type Session struct {
	ai      Assistant
	tasks   repository.TaskRepository
	events  repository.EventRepository
	prompts *PromptBuilder
	logger  *zap.Logger
	now     func() time.Time

	pending atomic.Bool

	mu         sync.RWMutex
	transcript []domain.ChatMessage
	lastID     int64
}

func NewSession(ai Assistant, tasks repository.TaskRepository, events repository.EventRepository, prompts *PromptBuilder, log *zap.Logger) *Session {
	if prompts == nil {
		prompts = NewPromptBuilder("")
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		ai:      ai,
		tasks:   tasks,
		events:  events,
		prompts: prompts,
		logger:  log,
		now:     time.Now,
	}
	s.append(domain.MessageAI, Greeting)
	return s
}

// Send appends text and the coach's reply. Failures surface as fallback replies.
func (s *Session) Send(ctx context.Context, text string) SendResult {
	if strings.TrimSpace(text) == "" {
		return SendResult{Reason: RejectEmpty}
	}
	if !s.pending.CompareAndSwap(false, true) {
		return SendResult{Reason: RejectBusy}
	}
	defer s.pending.Store(false)

	user := s.append(domain.MessageUser, text)
	reply := s.append(domain.MessageAI, s.respond(ctx, text))
	return SendResult{Accepted: true, User: user, Reply: reply}
}

func (s *Session) respond(ctx context.Context, text string) string {
	log := logger.WithRequestID(ctx, s.logger)

	if s.ai == nil || !s.ai.Configured() {
		return FallbackUnconfigured
	}

	snap := Snapshot{
		Tasks:  s.tasks.List(repository.ActiveTasks()),
		Events: s.events.List(),
	}
	prompt, err := s.prompts.Build(text, snap)
	if err != nil {
		log.Error("failed to build prompt", zap.Error(err))
		return FallbackMalformed
	}

	reply, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		log.Warn("coach reply failed", zap.Error(err))
		return fallbackFor(err)
	}
	return reply
}

func fallbackFor(err error) string {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeConfigurationMissing):
		return FallbackUnconfigured
	case domain.IsDomainError(err, domain.ErrCodeMalformedResponse):
		return FallbackMalformed
	default:
		return FallbackNetwork
	}
}

func (s *Session) append(kind domain.MessageType, content string) domain.ChatMessage {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	msg := domain.ChatMessage{
		ID:        id,
		Type:      kind,
		Content:   content,
		Timestamp: now.Format(timestampLayout),
	}
	s.transcript = append(s.transcript, msg)
	return msg
}

// Transcript returns a copy of the messages in creation order.
func (s *Session) Transcript() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Pending reports whether a send is waiting on the assistant.
func (s *Session) Pending() bool {
	return s.pending.Load()
}
