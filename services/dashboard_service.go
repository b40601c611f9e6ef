package services

import (
	"fmt"
	"strings"
	"time"

	"smartapp-notes/smartapp/agenda"
	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
)

const (
	reminderTimeLayout = "2006-01-02 15:04"
	dateOnlyLayout     = "2006-01-02"
	nowLayout          = "2006-01-02 15:04:05"
)

type DashboardServiceInterface interface {
	GetDashboardStats(db *database.Database, ownerID uuid.UUID, query string) (DashboardStats, error)
	GetDashboard(db *database.Database, ownerID uuid.UUID, query string, now time.Time) (Dashboard, error)
	GetReminders(db *database.Database, ownerID uuid.UUID, now time.Time) (agenda.Reminders, error)
	GetReminderStatus(db *database.Database, ownerID uuid.UUID, now time.Time, loc *time.Location) (ReminderStatus, error)
	GetDailyFocus(db *database.Database, ownerID uuid.UUID, now time.Time) ([]models.Todo, error)
	GetPriorityMatrix(db *database.Database, ownerID uuid.UUID, now time.Time) (agenda.Matrix, error)
	GetCalendarData(db *database.Database, ownerID uuid.UUID) (agenda.CalendarData, error)
	GetKanbanBoard(db *database.Database, ownerID uuid.UUID) (agenda.Board, error)
}

type DashboardStats struct {
	NotesCount     int64         `json:"notes_count"`
	TodosCount     int64         `json:"todos_count"`
	CompletedTodos int64         `json:"completed_todos"`
	Query          string        `json:"query"`
	Notes          []models.Note `json:"notes"`
	Todos          []models.Todo `json:"todos"`
}

// Dashboard bundles everything the home page renders.
type Dashboard struct {
	DashboardStats
	Reminders agenda.Reminders
	Focus     []models.Todo
	Matrix    agenda.Matrix
}

type ReminderItem struct {
	ID          uint    `json:"id"`
	Task        string  `json:"task"`
	Reminder    string  `json:"reminder"`
	DueDate     *string `json:"due_date"`
	Activity    string  `json:"activity"`
	IsImportant bool    `json:"is_important"`
	Done        bool    `json:"done"`
	CreatedAt   string  `json:"created_at"`
	EditURL     string  `json:"edit_url"`
}

// ReminderStatus is the payload polled by the browser for reminder alerts.
type ReminderStatus struct {
	Overdue      []ReminderItem `json:"overdue"`
	Soon         []ReminderItem `json:"soon"`
	Now          string         `json:"now"`
	OverdueCount int            `json:"overdue_count"`
	SoonCount    int            `json:"soon_count"`
	HasAlerts    bool           `json:"has_alerts"`
}

type DashboardService struct{}

func (s *DashboardService) GetDashboardStats(db *database.Database, ownerID uuid.UUID, query string) (DashboardStats, error) {
	stats := DashboardStats{Query: strings.TrimSpace(query)}

	if err := db.DB.Model(&models.Note{}).Where("user_id = ?", ownerID).Count(&stats.NotesCount).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count notes: %w", err)
	}
	if err := db.DB.Model(&models.Todo{}).Where("user_id = ?", ownerID).Count(&stats.TodosCount).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count todos: %w", err)
	}
	if err := db.DB.Model(&models.Todo{}).Where("user_id = ? AND done = ?", ownerID, true).Count(&stats.CompletedTodos).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count completed todos: %w", err)
	}

	if stats.Query == "" {
		return stats, nil
	}

	pattern := "%" + escapeLike(stats.Query) + "%"
	if err := db.DB.Where("user_id = ? AND LOWER(title) LIKE LOWER(?) ESCAPE '!'", ownerID, pattern).
		Order("created_at DESC").Order("id DESC").
		Find(&stats.Notes).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("search notes: %w", err)
	}
	if err := db.DB.Where("user_id = ? AND LOWER(task) LIKE LOWER(?) ESCAPE '!'", ownerID, pattern).
		Order("created_at DESC").Order("id DESC").
		Find(&stats.Todos).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("search todos: %w", err)
	}
	return stats, nil
}

func (s *DashboardService) GetDashboard(db *database.Database, ownerID uuid.UUID, query string, now time.Time) (Dashboard, error) {
	stats, err := s.GetDashboardStats(db, ownerID, query)
	if err != nil {
		return Dashboard{}, err
	}

	open, err := openTodos(db, ownerID)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		DashboardStats: stats,
		Reminders:      agenda.BucketReminders(open, ownerID, now, agenda.DashboardReminderLimit),
		Focus:          agenda.DailyFocus(open, ownerID, now),
		Matrix:         agenda.PriorityMatrix(open, ownerID, now),
	}, nil
}

func (s *DashboardService) GetReminders(db *database.Database, ownerID uuid.UUID, now time.Time) (agenda.Reminders, error) {
	open, err := openTodos(db, ownerID)
	if err != nil {
		return agenda.Reminders{}, err
	}
	return agenda.BucketReminders(open, ownerID, now, agenda.DashboardReminderLimit), nil
}

func (s *DashboardService) GetReminderStatus(db *database.Database, ownerID uuid.UUID, now time.Time, loc *time.Location) (ReminderStatus, error) {
	if loc == nil {
		loc = time.UTC
	}

	open, err := openTodos(db, ownerID)
	if err != nil {
		return ReminderStatus{}, err
	}

	r := agenda.BucketReminders(open, ownerID, now, agenda.PollingReminderLimit)
	return ReminderStatus{
		Overdue:      reminderItems(r.Overdue, loc),
		Soon:         reminderItems(r.Soon, loc),
		Now:          now.In(loc).Format(nowLayout),
		OverdueCount: r.OverdueCount,
		SoonCount:    r.SoonCount,
		HasAlerts:    r.HasAlerts(),
	}, nil
}

func (s *DashboardService) GetDailyFocus(db *database.Database, ownerID uuid.UUID, now time.Time) ([]models.Todo, error) {
	open, err := openTodos(db, ownerID)
	if err != nil {
		return nil, err
	}
	return agenda.DailyFocus(open, ownerID, now), nil
}

func (s *DashboardService) GetPriorityMatrix(db *database.Database, ownerID uuid.UUID, now time.Time) (agenda.Matrix, error) {
	open, err := openTodos(db, ownerID)
	if err != nil {
		return agenda.Matrix{}, err
	}
	return agenda.PriorityMatrix(open, ownerID, now), nil
}

func (s *DashboardService) GetCalendarData(db *database.Database, ownerID uuid.UUID) (agenda.CalendarData, error) {
	var todos []models.Todo
	if err := db.DB.Where("user_id = ? AND due_date IS NOT NULL", ownerID).
		Order("due_date ASC").Order("id ASC").
		Find(&todos).Error; err != nil {
		return agenda.CalendarData{}, fmt.Errorf("load calendar: %w", err)
	}
	return agenda.Calendar(todos, ownerID), nil
}

func (s *DashboardService) GetKanbanBoard(db *database.Database, ownerID uuid.UUID) (agenda.Board, error) {
	var todos []models.Todo
	if err := db.DB.Where("user_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&todos).Error; err != nil {
		return agenda.Board{}, fmt.Errorf("load kanban: %w", err)
	}
	return agenda.Kanban(todos, ownerID), nil
}

// openTodos loads the owner's undone todos, the candidate set for every dashboard widget.
func openTodos(db *database.Database, ownerID uuid.UUID) ([]models.Todo, error) {
	var todos []models.Todo
	if err := db.DB.Where("user_id = ? AND done = ?", ownerID, false).
		Order("id ASC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("load open todos: %w", err)
	}
	return todos, nil
}

func reminderItems(todos []models.Todo, loc *time.Location) []ReminderItem {
	items := make([]ReminderItem, 0, len(todos))
	for _, t := range todos {
		item := ReminderItem{
			ID:          t.ID,
			Task:        t.Task,
			Activity:    t.ActivityDisplay(),
			IsImportant: t.IsImportant,
			Done:        t.Done,
			CreatedAt:   t.CreatedAt.In(loc).Format(dateOnlyLayout),
			EditURL:     fmt.Sprintf("/todos/edit/%d/", t.ID),
		}
		if t.Reminder != nil {
			item.Reminder = t.Reminder.In(loc).Format(reminderTimeLayout)
		}
		if t.DueDate != nil {
			due := models.DateOf(*t.DueDate).Format(dateOnlyLayout)
			item.DueDate = &due
		}
		items = append(items, item)
	}
	return items
}

func escapeLike(s string) string {
	return strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`).Replace(s)
}

var DashboardServiceInstance DashboardServiceInterface = &DashboardService{}
