// Package mocks holds testify mocks of the service interfaces for handler tests.
package mocks

import (
	"net/http"
	"time"

	"smartapp-notes/smartapp/agenda"
	"smartapp-notes/smartapp/broker"
	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/models"
	"smartapp-notes/smartapp/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) ListNotes(db *database.Database, ownerID uuid.UUID) ([]models.Note, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockNoteService) GetNote(db *database.Database, ownerID uuid.UUID, id uint) (models.Note, error) {
	args := m.Called(db, ownerID, id)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) CreateNote(db *database.Database, ownerID uuid.UUID, input forms.NoteInput) (models.Note, error) {
	args := m.Called(db, ownerID, input)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) UpdateNote(db *database.Database, ownerID uuid.UUID, id uint, input forms.NoteInput) (models.Note, error) {
	args := m.Called(db, ownerID, id, input)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) DeleteNote(db *database.Database, ownerID uuid.UUID, id uint) error {
	args := m.Called(db, ownerID, id)
	return args.Error(0)
}

type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) ListTodos(db *database.Database, ownerID uuid.UUID) ([]models.Todo, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockTodoService) GetTodo(db *database.Database, ownerID uuid.UUID, id uint) (models.Todo, error) {
	args := m.Called(db, ownerID, id)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *MockTodoService) CreateTodo(db *database.Database, ownerID uuid.UUID, input forms.TodoInput, now time.Time) (models.Todo, error) {
	args := m.Called(db, ownerID, input, now)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *MockTodoService) UpdateTodo(db *database.Database, ownerID uuid.UUID, id uint, input forms.TodoInput, now time.Time) (models.Todo, error) {
	args := m.Called(db, ownerID, id, input, now)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *MockTodoService) DeleteTodo(db *database.Database, ownerID uuid.UUID, id uint) error {
	args := m.Called(db, ownerID, id)
	return args.Error(0)
}

func (m *MockTodoService) UpdateStatus(db *database.Database, ownerID uuid.UUID, id uint, status models.TodoStatus) (models.Todo, error) {
	args := m.Called(db, ownerID, id, status)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *MockTodoService) MarkTodoDone(db *database.Database, ownerID uuid.UUID, id uint) (models.Todo, error) {
	args := m.Called(db, ownerID, id)
	return args.Get(0).(models.Todo), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetDashboardStats(db *database.Database, ownerID uuid.UUID, query string) (services.DashboardStats, error) {
	args := m.Called(db, ownerID, query)
	return args.Get(0).(services.DashboardStats), args.Error(1)
}

func (m *MockDashboardService) GetDashboard(db *database.Database, ownerID uuid.UUID, query string, now time.Time) (services.Dashboard, error) {
	args := m.Called(db, ownerID, query, now)
	return args.Get(0).(services.Dashboard), args.Error(1)
}

func (m *MockDashboardService) GetReminders(db *database.Database, ownerID uuid.UUID, now time.Time) (agenda.Reminders, error) {
	args := m.Called(db, ownerID, now)
	return args.Get(0).(agenda.Reminders), args.Error(1)
}

func (m *MockDashboardService) GetReminderStatus(db *database.Database, ownerID uuid.UUID, now time.Time, loc *time.Location) (services.ReminderStatus, error) {
	args := m.Called(db, ownerID, now, loc)
	return args.Get(0).(services.ReminderStatus), args.Error(1)
}

func (m *MockDashboardService) GetDailyFocus(db *database.Database, ownerID uuid.UUID, now time.Time) ([]models.Todo, error) {
	args := m.Called(db, ownerID, now)
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockDashboardService) GetPriorityMatrix(db *database.Database, ownerID uuid.UUID, now time.Time) (agenda.Matrix, error) {
	args := m.Called(db, ownerID, now)
	return args.Get(0).(agenda.Matrix), args.Error(1)
}

func (m *MockDashboardService) GetCalendarData(db *database.Database, ownerID uuid.UUID) (agenda.CalendarData, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).(agenda.CalendarData), args.Error(1)
}

func (m *MockDashboardService) GetKanbanBoard(db *database.Database, ownerID uuid.UUID) (agenda.Board, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).(agenda.Board), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(db *database.Database, input forms.RegisterInput) (models.User, error) {
	args := m.Called(db, input)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) Login(db *database.Database, username, password string) (string, models.User, error) {
	args := m.Called(db, username, password)
	return args.String(0), args.Get(1).(models.User), args.Error(2)
}

func (m *MockAuthService) GenerateToken(user models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*services.JWTClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

func (m *MockAuthService) TokenTTL() time.Duration {
	return time.Hour
}

type MockWebSocketService struct {
	mock.Mock
}

func (m *MockWebSocketService) Publish(msg broker.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockWebSocketService) Start() { m.Called() }

func (m *MockWebSocketService) Stop() { m.Called() }

func (m *MockWebSocketService) HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	m.Called(w, r, userID)
}

func (m *MockWebSocketService) ClientCount(userID uuid.UUID) int {
	args := m.Called(userID)
	return args.Int(0)
}
