package memory

import "github.com/fastygo/coachboard/domain"

// SampleTasks is the starter task list shown on a fresh dashboard.
func SampleTasks() []domain.Task {
	return []domain.Task{
		{
			ID:             1,
			Title:          "Sales office customer journey",
			Description:    "Design and map the complete customer journey for the sales office experience",
			Priority:       domain.PriorityCritical,
			Deadline:       "2 weeks",
			EstimatedHours: 8,
			Status:         domain.TaskActive,
			Category:       "Customer Experience",
		},
		{
			ID:             2,
			Title:          "August digital campaign",
			Description:    "Launch comprehensive digital marketing campaign for August neighborhood showcase",
			Priority:       domain.PriorityCritical,
			Deadline:       "Aug 1-2",
			EstimatedHours: 12,
			Status:         domain.TaskActive,
			Category:       "Marketing Campaign",
		},
		{
			ID:             3,
			Title:          "November event planning",
			Description:    "Plan and coordinate the November community engagement event",
			Priority:       domain.PriorityImportant,
			Deadline:       "Oct 15",
			EstimatedHours: 15,
			Status:         domain.TaskActive,
			Category:       "Event Management",
		},
		{
			ID:             4,
			Title:          "Q3 marketing analysis",
			Description:    "Analyze Q3 marketing performance and prepare insights for Q4 planning",
			Priority:       domain.PriorityStrategic,
			Deadline:       "Sep 30",
			EstimatedHours: 6,
			Status:         domain.TaskActive,
			Category:       "Analytics",
		},
		{
			ID:             5,
			Title:          "Website enhancements",
			Description:    "Implement user experience improvements and content updates",
			Priority:       domain.PriorityMaintenance,
			Deadline:       "TBD",
			EstimatedHours: 10,
			Status:         domain.TaskActive,
			Category:       "Development",
		},
	}
}

// SampleEvents is the placeholder agenda shown until a calendar is connected.
func SampleEvents() []domain.CalendarEvent {
	return []domain.CalendarEvent{
		{ID: "1", Title: "JET Task List Session", Time: "14:00 - 15:00", Status: domain.EventCurrent},
		{ID: "2", Title: "August Campaign Brief", Time: "15:00 - 16:00", Status: domain.EventUpcoming},
		{ID: "3", Title: "Team Standup", Time: "09:00 - 09:30", Status: domain.EventCompleted},
		{ID: "4", Title: "Client Review Meeting", Time: "16:30 - 17:30", Status: domain.EventUpcoming},
	}
}
