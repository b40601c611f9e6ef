package agenda

import (
	"sort"
	"time"

	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
)

// DailyFocus returns the owner's open todos due today, earliest first.
func DailyFocus(todos []models.Todo, owner uuid.UUID, now time.Time) []models.Todo {
	today := Today(now)
	focus := owned(todos, owner, true, func(t models.Todo) bool {
		due, ok := dueDay(t)
		return ok && due.Equal(today)
	})
	sortByDue(focus)
	return limit(focus, DailyFocusLimit)
}

type Matrix struct {
	ImportantUrgent    []models.Todo `json:"important_urgent"`
	ImportantNotUrgent []models.Todo `json:"important_not_urgent"`
	AllImportant       []models.Todo `json:"all_important"`
}

// PriorityMatrix classifies open important todos. A todo is urgent when it is due
// on or before tomorrow; todos without a due date are never urgent and only appear
// in AllImportant, ahead of the dated ones.
func PriorityMatrix(todos []models.Todo, owner uuid.UUID, now time.Time) Matrix {
	tomorrow := Today(now).AddDate(0, 0, 1)
	important := owned(todos, owner, true, func(t models.Todo) bool { return t.IsImportant })
	sortByDue(important)

	var m Matrix
	for _, t := range important {
		due, ok := dueDay(t)
		if !ok {
			continue
		}
		if due.After(tomorrow) {
			m.ImportantNotUrgent = append(m.ImportantNotUrgent, t)
		} else {
			m.ImportantUrgent = append(m.ImportantUrgent, t)
		}
	}

	m.ImportantUrgent = limit(m.ImportantUrgent, UrgentLimit)
	m.ImportantNotUrgent = limit(m.ImportantNotUrgent, NotUrgentLimit)
	m.AllImportant = limit(important, AllImportantLimit)
	return m
}

// sortByDue orders by due date ascending with undated todos first, the way SQL
// sorts NULLs; ties keep their input order.
func sortByDue(todos []models.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		di, iok := dueDay(todos[i])
		dj, jok := dueDay(todos[j])
		switch {
		case iok && jok:
			return di.Before(dj)
		case jok:
			return true
		default:
			return false
		}
	})
}
