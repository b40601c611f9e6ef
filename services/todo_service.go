package services

import (
	"errors"
	"fmt"
	"time"

	"smartapp-notes/smartapp/broker"
	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TodoServiceInterface interface {
	ListTodos(db *database.Database, ownerID uuid.UUID) ([]models.Todo, error)
	GetTodo(db *database.Database, ownerID uuid.UUID, id uint) (models.Todo, error)
	CreateTodo(db *database.Database, ownerID uuid.UUID, input forms.TodoInput, now time.Time) (models.Todo, error)
	UpdateTodo(db *database.Database, ownerID uuid.UUID, id uint, input forms.TodoInput, now time.Time) (models.Todo, error)
	DeleteTodo(db *database.Database, ownerID uuid.UUID, id uint) error
	UpdateStatus(db *database.Database, ownerID uuid.UUID, id uint, status models.TodoStatus) (models.Todo, error)
	MarkTodoDone(db *database.Database, ownerID uuid.UUID, id uint) (models.Todo, error)
}

// mutable columns replaced on update; id, user_id and created_at are never written after insert.
var todoUpdateColumns = []string{
	"task", "done", "status", "due_date", "activity", "activity_custom", "reminder", "is_important",
}

type TodoService struct {
	// Location interprets reminder input without an offset.
	Location *time.Location
}

func NewTodoService(loc *time.Location) *TodoService {
	if loc == nil {
		loc = time.UTC
	}
	return &TodoService{Location: loc}
}

func (s *TodoService) ListTodos(db *database.Database, ownerID uuid.UUID) ([]models.Todo, error) {
	var todos []models.Todo
	if err := db.DB.Where("user_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) GetTodo(db *database.Database, ownerID uuid.UUID, id uint) (models.Todo, error) {
	return findTodo(db.DB, ownerID, id)
}

func findTodo(tx *gorm.DB, ownerID uuid.UUID, id uint) (models.Todo, error) {
	var todo models.Todo
	if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Todo{}, ErrTodoNotFound
		}
		return models.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) CreateTodo(db *database.Database, ownerID uuid.UUID, input forms.TodoInput, now time.Time) (models.Todo, error) {
	valid, err := forms.ValidateTodo(input, now, forms.TodoOptions{Location: s.Location})
	if err != nil {
		return models.Todo{}, err
	}

	todo := models.Todo{UserID: ownerID}
	valid.Apply(&todo)

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Todo{}, tx.Error
	}

	if err := tx.Create(&todo).Error; err != nil {
		tx.Rollback()
		return models.Todo{}, fmt.Errorf("create todo: %w", err)
	}

	if err := recordEvent(tx, broker.TodoCreated, "todo", "create", ownerID, todoEventData(todo)); err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

func (s *TodoService) UpdateTodo(db *database.Database, ownerID uuid.UUID, id uint, input forms.TodoInput, now time.Time) (models.Todo, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Todo{}, tx.Error
	}

	todo, err := findTodo(tx, ownerID, id)
	if err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	valid, err := forms.ValidateTodo(input, now, forms.TodoOptions{Location: s.Location, Current: &todo})
	if err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}
	valid.Apply(&todo)

	if err := tx.Model(&todo).Select(todoUpdateColumns).Updates(&todo).Error; err != nil {
		tx.Rollback()
		return models.Todo{}, fmt.Errorf("update todo: %w", err)
	}

	if err := recordEvent(tx, broker.TodoUpdated, "todo", "update", ownerID, todoEventData(todo)); err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

func (s *TodoService) DeleteTodo(db *database.Database, ownerID uuid.UUID, id uint) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	todo, err := findTodo(tx, ownerID, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&todo).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete todo: %w", err)
	}

	if err := recordEvent(tx, broker.TodoDeleted, "todo", "delete", ownerID, map[string]interface{}{
		"id":      todo.ID,
		"user_id": todo.UserID.String(),
	}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// UpdateStatus moves a todo through the workflow. Any transition between the three
// statuses is allowed; status and done are written by the same statement.
func (s *TodoService) UpdateStatus(db *database.Database, ownerID uuid.UUID, id uint, status models.TodoStatus) (models.Todo, error) {
	if !status.Valid() {
		return models.Todo{}, ErrInvalidStatus
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Todo{}, tx.Error
	}

	todo, err := findTodo(tx, ownerID, id)
	if err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	previous := todo.Status
	todo.SetStatus(status)

	if err := tx.Model(&todo).Updates(map[string]interface{}{
		"status": todo.Status,
		"done":   todo.Done,
	}).Error; err != nil {
		tx.Rollback()
		return models.Todo{}, fmt.Errorf("update todo status: %w", err)
	}

	if err := recordEvent(tx, broker.TodoStatusChanged, "todo", "status", ownerID, map[string]interface{}{
		"id":       todo.ID,
		"user_id":  todo.UserID.String(),
		"previous": previous,
		"status":   todo.Status,
		"done":     todo.Done,
	}); err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

func (s *TodoService) MarkTodoDone(db *database.Database, ownerID uuid.UUID, id uint) (models.Todo, error) {
	return s.UpdateStatus(db, ownerID, id, models.StatusCompleted)
}

func todoEventData(todo models.Todo) map[string]interface{} {
	return map[string]interface{}{
		"id":           todo.ID,
		"user_id":      todo.UserID.String(),
		"task":         todo.Task,
		"status":       todo.Status,
		"done":         todo.Done,
		"due_date":     todo.DueDate,
		"reminder":     todo.Reminder,
		"is_important": todo.IsImportant,
	}
}

var TodoServiceInstance TodoServiceInterface = NewTodoService(time.UTC)
