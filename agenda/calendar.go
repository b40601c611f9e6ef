package agenda

import (
	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
)

const MonthLabelLayout = "January 2006"

type MonthGroup struct {
	Label string        `json:"label"`
	Todos []models.Todo `json:"todos"`
}

type CalendarData struct {
	Pending   []MonthGroup `json:"grouped_pending"`
	Completed []MonthGroup `json:"grouped_completed"`
}

// GroupByMonth buckets dated todos by the month of their due date. Groups follow the
// ascending due order, and so do the todos inside each group.
func GroupByMonth(todos []models.Todo) []MonthGroup {
	dated := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if t.DueDate != nil {
			dated = append(dated, t)
		}
	}
	sortByDue(dated)

	var groups []MonthGroup
	index := make(map[string]int)
	for _, t := range dated {
		label := models.DateOf(*t.DueDate).Format(MonthLabelLayout)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, MonthGroup{Label: label})
		}
		groups[i].Todos = append(groups[i].Todos, t)
	}
	return groups
}

// Calendar splits the owner's dated todos into pending and completed month groups.
func Calendar(todos []models.Todo, owner uuid.UUID) CalendarData {
	mine := owned(todos, owner, false, nil)
	var pending, completed []models.Todo
	for _, t := range mine {
		if t.Done {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return CalendarData{
		Pending:   GroupByMonth(pending),
		Completed: GroupByMonth(completed),
	}
}
