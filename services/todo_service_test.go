package services

import (
	"errors"
	"testing"
	"time"

	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/models"
	"smartapp-notes/smartapp/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TodoServiceSuite struct {
	suite.Suite
	svc   *TodoService
	owner uuid.UUID
	now   time.Time
}

func (s *TodoServiceSuite) SetupTest() {
	s.svc = NewTodoService(time.UTC)
	s.owner = uuid.New()
	s.now = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
}

func (s *TodoServiceSuite) TestCreateTodo() {
	db := testutils.SetupTestDB(s.T())

	todo, err := s.svc.CreateTodo(db, s.owner, forms.TodoInput{
		Task:        "Buy milk",
		DueDate:     "2025-10-16",
		Activity:    "shopping",
		Reminder:    "2025-10-16T08:30",
		IsImportant: true,
	}, s.now)
	s.Require().NoError(err)
	s.NotZero(todo.ID)
	s.Equal(models.StatusPending, todo.Status)
	s.False(todo.Done)

	stored, err := s.svc.GetTodo(db, s.owner, todo.ID)
	s.Require().NoError(err)
	s.Equal("Buy milk", stored.Task)
	s.Equal(models.ActivityShopping, stored.Activity)
	s.Equal("2025-10-16", stored.DueDate.Format("2006-01-02"))
	s.True(stored.Reminder.Equal(time.Date(2025, 10, 16, 8, 30, 0, 0, time.UTC)))
	s.True(stored.IsImportant)

	s.Equal([]string{"todo.created"}, testutils.EventTypes(testutils.PendingEvents(s.T(), db)))
}

func (s *TodoServiceSuite) TestCreateTodoRejectsPastDueDate() {
	db := testutils.SetupTestDB(s.T())

	_, err := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "late", DueDate: "2025-10-14"}, s.now)
	s.True(errors.Is(err, forms.ErrValidation))
	s.Contains(forms.FieldErrors(err), "due_date")
}

func (s *TodoServiceSuite) TestCreateTodoDoneStartsCompleted() {
	db := testutils.SetupTestDB(s.T())
	done := true

	todo, err := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "already", Done: &done}, s.now)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, todo.Status)
	s.True(todo.Done)
}

func (s *TodoServiceSuite) TestUpdateTodoKeepsIdentity() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "draft", Activity: "custom", ActivityCustom: "Piano"}, s.now)

	updated, err := s.svc.UpdateTodo(db, s.owner, todo.ID, forms.TodoInput{Task: "final", Activity: "workout", ActivityCustom: "Piano"}, s.now)
	s.Require().NoError(err)
	s.Equal("final", updated.Task)

	stored, _ := s.svc.GetTodo(db, s.owner, todo.ID)
	s.Equal(models.ActivityWorkout, stored.Activity)
	s.Empty(stored.ActivityCustom)
	s.Equal(s.owner, stored.UserID)
	s.True(stored.CreatedAt.Equal(todo.CreatedAt))
}

func (s *TodoServiceSuite) TestUpdateTodoAcceptsStoredPastDueDate() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "t", DueDate: "2025-10-15"}, s.now)

	later := s.now.AddDate(0, 0, 3)
	_, err := s.svc.UpdateTodo(db, s.owner, todo.ID, forms.TodoInput{Task: "renamed", DueDate: "2025-10-15"}, later)
	s.NoError(err)
}

func (s *TodoServiceSuite) TestUpdateTodoClearsOptionalFields() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "t", DueDate: "2025-10-20", Reminder: "2025-10-20 10:00", IsImportant: true}, s.now)

	_, err := s.svc.UpdateTodo(db, s.owner, todo.ID, forms.TodoInput{Task: "t"}, s.now)
	s.Require().NoError(err)

	stored, _ := s.svc.GetTodo(db, s.owner, todo.ID)
	s.Nil(stored.DueDate)
	s.Nil(stored.Reminder)
	s.False(stored.IsImportant)
}

func (s *TodoServiceSuite) TestForeignTodoIsInvisible() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "mine"}, s.now)
	stranger := uuid.New()

	_, err := s.svc.GetTodo(db, stranger, todo.ID)
	s.True(errors.Is(err, ErrTodoNotFound))
	_, err = s.svc.UpdateTodo(db, stranger, todo.ID, forms.TodoInput{Task: "x"}, s.now)
	s.True(errors.Is(err, ErrTodoNotFound))
	_, err = s.svc.UpdateStatus(db, stranger, todo.ID, models.StatusCompleted)
	s.True(errors.Is(err, ErrTodoNotFound))
	s.True(errors.Is(s.svc.DeleteTodo(db, stranger, todo.ID), ErrTodoNotFound))

	list, _ := s.svc.ListTodos(db, stranger)
	s.Empty(list)

	stored, _ := s.svc.GetTodo(db, s.owner, todo.ID)
	s.Equal("mine", stored.Task)
	s.Equal(models.StatusPending, stored.Status)
}

func (s *TodoServiceSuite) TestUpdateStatusTransitions() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "flow"}, s.now)

	for _, status := range []models.TodoStatus{models.StatusInProgress, models.StatusCompleted, models.StatusPending, models.StatusCompleted} {
		updated, err := s.svc.UpdateStatus(db, s.owner, todo.ID, status)
		s.Require().NoError(err)
		s.Equal(status, updated.Status)

		stored, _ := s.svc.GetTodo(db, s.owner, todo.ID)
		s.Equal(status, stored.Status)
		s.Equal(status == models.StatusCompleted, stored.Done)
	}

	events := testutils.PendingEvents(s.T(), db)
	s.Equal("todo.status_changed", events[len(events)-1].Event)
	data := testutils.EventData(s.T(), events[len(events)-1])
	s.Equal("PENDING", data["previous"])
	s.Equal("COMPLETED", data["status"])
}

func (s *TodoServiceSuite) TestUpdateStatusInvalid() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "flow"}, s.now)

	_, err := s.svc.UpdateStatus(db, s.owner, todo.ID, models.TodoStatus("DONE"))
	s.True(errors.Is(err, ErrInvalidStatus))

	stored, _ := s.svc.GetTodo(db, s.owner, todo.ID)
	s.Equal(models.StatusPending, stored.Status)
	s.Len(testutils.PendingEvents(s.T(), db), 1)
}

func (s *TodoServiceSuite) TestMarkTodoDone() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "quick"}, s.now)

	done, err := s.svc.MarkTodoDone(db, s.owner, todo.ID)
	s.Require().NoError(err)
	s.True(done.Done)
	s.Equal(models.StatusCompleted, done.Status)
}

func (s *TodoServiceSuite) TestUncheckDoneReopens() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "t"}, s.now)
	_, _ = s.svc.MarkTodoDone(db, s.owner, todo.ID)

	undone := false
	updated, err := s.svc.UpdateTodo(db, s.owner, todo.ID, forms.TodoInput{Task: "t", Done: &undone}, s.now)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, updated.Status)
	s.False(updated.Done)
}

func (s *TodoServiceSuite) TestDeleteTodo() {
	db := testutils.SetupTestDB(s.T())
	todo, _ := s.svc.CreateTodo(db, s.owner, forms.TodoInput{Task: "bye"}, s.now)

	s.Require().NoError(s.svc.DeleteTodo(db, s.owner, todo.ID))
	s.True(errors.Is(s.svc.DeleteTodo(db, s.owner, todo.ID), ErrTodoNotFound))
}

func TestTodoServiceSuite(t *testing.T) {
	suite.Run(t, new(TodoServiceSuite))
}

func TestUpdateStatus_InvalidStatusNeverTouchesDatabase(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	_, err := NewTodoService(nil).UpdateStatus(db, uuid.New(), 1, models.TodoStatus("ARCHIVED"))
	assert.Equal(t, ErrInvalidStatus, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTodo_DatabaseError(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT \* FROM "todos" WHERE id = \$1 AND user_id = \$2`).
		WillReturnError(errors.New("timeout"))

	_, err := NewTodoService(nil).GetTodo(db, uuid.New(), 3)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
