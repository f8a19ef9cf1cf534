package coach

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/fastygo/coachboard/domain"
)

// DefaultPersona frames the coach for the dashboard owner.
const DefaultPersona = `You are an AI productivity coach specifically for HAY, a neighborhood development company.

HAY COMPANY CONTEXT:
- HAY is a "soft developer" focused on human-centric neighborhood development
- Core philosophy: Balance "hard elements" (infrastructure, buildings) with "soft elements" (community, culture, experiences)
- Target market: People seeking authentic, community-focused living experiences
- Brand positioning: Premium but approachable, innovative yet grounded in human values

USER CONTEXT:
- Role: Marketing Director at HAY
- Responsible for: Digital campaigns, community engagement, brand positioning, event planning
- Current priority projects: August digital campaign, sales office customer journey, November community event
- Focus areas: Neighborhood showcase marketing, customer experience design, community building`

const guidelines = `Provide specific, actionable advice that:
1. Understands HAY's unique positioning as a "soft developer"
2. Considers the user's role as Marketing Director
3. References actual projects and deadlines when relevant
4. Offers strategic marketing insights for neighborhood development
5. Balances business objectives with HAY's human-centric values`

const closing = "Respond as a knowledgeable productivity coach who understands both marketing strategy and HAY's specific business model."

// Snapshot is the dashboard state the coach sees when a message is sent.
type Snapshot struct {
	Tasks  []domain.Task
	Events []domain.CalendarEvent
}

// PromptBuilder renders a prompt. Output depends only on its inputs.
type PromptBuilder struct {
	persona string
}

func NewPromptBuilder(persona string) *PromptBuilder {
	if strings.TrimSpace(persona) == "" {
		persona = DefaultPersona
	}
	return &PromptBuilder{persona: strings.TrimSpace(persona)}
}

// LoadPersona reads a persona preamble from path. An empty path yields DefaultPersona.
func LoadPersona(path string) (string, error) {
	if path == "" {
		return DefaultPersona, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read persona file: %w", err)
	}
	return string(raw), nil
}

// Build renders the prompt for message. Tasks are listed most urgent first,
// keeping their store order within a priority.
func (b *PromptBuilder) Build(message string, snap Snapshot) (string, error) {
	tasks := append(make([]domain.Task, 0, len(snap.Tasks)), snap.Tasks...)
	slices.SortStableFunc(tasks, func(a, c domain.Task) int {
		return cmp.Compare(a.Priority.Rank(), c.Priority.Rank())
	})
	events := snap.Events
	if events == nil {
		events = []domain.CalendarEvent{}
	}

	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("encode events: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(b.persona)
	sb.WriteString("\n\nCURRENT TASKS: ")
	sb.Write(tasksJSON)
	sb.WriteString("\nCALENDAR EVENTS: ")
	sb.Write(eventsJSON)
	sb.WriteString("\n\n")
	sb.WriteString(guidelines)
	sb.WriteString("\n\nUSER MESSAGE: ")
	sb.WriteString(message)
	sb.WriteString("\n\n")
	sb.WriteString(closing)
	return sb.String(), nil
}
