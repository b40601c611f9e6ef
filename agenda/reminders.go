package agenda

import (
	"sort"
	"time"

	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
)

type Reminders struct {
	Overdue  []models.Todo `json:"overdue"`
	Upcoming []models.Todo `json:"upcoming"`
	Soon     []models.Todo `json:"soon"`

	OverdueCount  int `json:"overdue_count"`
	UpcomingCount int `json:"upcoming_count"`
	SoonCount     int `json:"soon_count"`
}

func (r Reminders) HasAlerts() bool {
	return r.OverdueCount > 0 || r.SoonCount > 0
}

// BucketReminders splits the owner's open todos with a reminder into overdue
// (reminder < now), upcoming (reminder >= now) and soon (upcoming within SoonWindow).
// Lists are sorted by reminder and capped to n; counts cover the full sets.
func BucketReminders(todos []models.Todo, owner uuid.UUID, now time.Time, n int) Reminders {
	candidates := owned(todos, owner, true, func(t models.Todo) bool { return t.Reminder != nil })
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Reminder.Before(*candidates[j].Reminder)
	})

	soonUntil := now.Add(SoonWindow)
	var r Reminders
	for _, t := range candidates {
		if t.Reminder.Before(now) {
			r.Overdue = append(r.Overdue, t)
			continue
		}
		r.Upcoming = append(r.Upcoming, t)
		if !t.Reminder.After(soonUntil) {
			r.Soon = append(r.Soon, t)
		}
	}

	r.OverdueCount = len(r.Overdue)
	r.UpcomingCount = len(r.Upcoming)
	r.SoonCount = len(r.Soon)
	r.Overdue = limit(r.Overdue, n)
	r.Upcoming = limit(r.Upcoming, n)
	r.Soon = limit(r.Soon, n)
	return r
}
