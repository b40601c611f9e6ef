package agenda

import (
	"sort"

	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
)

type Column struct {
	Status models.TodoStatus
	Label  string
	Todos  []models.Todo
}

type Board struct {
	Pending    []models.Todo `json:"pending"`
	InProgress []models.Todo `json:"in_progress"`
	Completed  []models.Todo `json:"completed"`
}

// Columns lists the board in workflow order for rendering.
func (b Board) Columns() []Column {
	return []Column{
		{Status: models.StatusPending, Label: models.StatusPending.Label(), Todos: b.Pending},
		{Status: models.StatusInProgress, Label: models.StatusInProgress.Label(), Todos: b.InProgress},
		{Status: models.StatusCompleted, Label: models.StatusCompleted.Label(), Todos: b.Completed},
	}
}

// Kanban places each of the owner's todos in the column of its status, newest first.
func Kanban(todos []models.Todo, owner uuid.UUID) Board {
	mine := owned(todos, owner, false, nil)
	sort.SliceStable(mine, func(i, j int) bool {
		if mine[i].CreatedAt.Equal(mine[j].CreatedAt) {
			return mine[i].ID > mine[j].ID
		}
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	var b Board
	for _, t := range mine {
		switch t.Status {
		case models.StatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case models.StatusCompleted:
			b.Completed = append(b.Completed, t)
		default:
			b.Pending = append(b.Pending, t)
		}
	}
	return b
}
