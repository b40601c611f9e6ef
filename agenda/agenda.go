// Package agenda derives the dashboard views (reminders, focus list, priority
// matrix, calendar and kanban board) from a user's todos. Every function is pure:
// callers pass the candidate rows, the owner and the reference time.
package agenda

import (
	"time"

	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
)

const (
	DashboardReminderLimit = 5
	PollingReminderLimit   = 20
	DailyFocusLimit        = 10
	UrgentLimit            = 5
	NotUrgentLimit         = 5
	AllImportantLimit      = 8

	SoonWindow = time.Hour
)

// Today is the calendar date of now in now's location, as UTC midnight.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return models.NewDate(y, m, d)
}

func dueDay(t models.Todo) (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	return models.DateOf(*t.DueDate), true
}

func owned(todos []models.Todo, owner uuid.UUID, undoneOnly bool, keep func(models.Todo) bool) []models.Todo {
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if t.UserID != owner {
			continue
		}
		if undoneOnly && t.Done {
			continue
		}
		if keep != nil && !keep(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func limit(todos []models.Todo, n int) []models.Todo {
	if n >= 0 && len(todos) > n {
		return todos[:n]
	}
	return todos
}
