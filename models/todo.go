package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TodoStatus string

const (
	StatusPending    TodoStatus = "PENDING"
	StatusInProgress TodoStatus = "IN_PROGRESS"
	StatusCompleted  TodoStatus = "COMPLETED"
)

// Statuses lists the workflow states in board order.
var Statuses = []TodoStatus{StatusPending, StatusInProgress, StatusCompleted}

func (s TodoStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s TodoStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

type Activity string

const (
	ActivityShopping Activity = "shopping"
	ActivityMeeting  Activity = "meeting"
	ActivityOutdoor  Activity = "outdoor"
	ActivityWorkout  Activity = "workout"
	ActivityOther    Activity = "custom"
)

// Activities lists the activity choices in display order.
var Activities = []Activity{ActivityShopping, ActivityMeeting, ActivityOutdoor, ActivityWorkout, ActivityOther}

func (a Activity) Valid() bool {
	switch a {
	case ActivityShopping, ActivityMeeting, ActivityOutdoor, ActivityWorkout, ActivityOther:
		return true
	}
	return false
}

func (a Activity) Label() string {
	switch a {
	case ActivityShopping:
		return "Shopping"
	case ActivityMeeting:
		return "Meeting"
	case ActivityOutdoor:
		return "Outdoor"
	case ActivityWorkout:
		return "Workout"
	case ActivityOther:
		return "Other (custom)"
	}
	return string(a)
}

type Todo struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:char(36);not null;index" json:"user_id"`
	Task           string     `gorm:"size:255;not null" json:"task"`
	Done           bool       `gorm:"not null" json:"done"`
	Status         TodoStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	CreatedAt      time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	DueDate        *time.Time `gorm:"type:date;index" json:"due_date,omitempty"`
	Activity       Activity   `gorm:"size:50;not null;default:custom" json:"activity"`
	ActivityCustom string     `gorm:"size:100;not null" json:"activity_custom"`
	Reminder       *time.Time `gorm:"index" json:"reminder,omitempty"`
	IsImportant    bool       `gorm:"not null" json:"is_important"`
}

// SetStatus moves the todo to status and keeps the legacy Done flag in step.
func (t *Todo) SetStatus(status TodoStatus) {
	t.Status = status
	t.Done = status == StatusCompleted
}

// SetDone applies a legacy done toggle. Unchecking a completed todo reopens it as
// pending; any other unchecked status is left alone.
func (t *Todo) SetDone(done bool) {
	switch {
	case done:
		t.SetStatus(StatusCompleted)
	case t.Status == StatusCompleted || !t.Status.Valid():
		t.SetStatus(StatusPending)
	default:
		t.Done = false
	}
}

// ActivityDisplay prefers the custom text for "Other" activities.
func (t Todo) ActivityDisplay() string {
	if t.Activity == ActivityOther && t.ActivityCustom != "" {
		return t.ActivityCustom
	}
	return t.Activity.Label()
}

func (t Todo) String() string {
	if t.Reminder != nil {
		return fmt.Sprintf("%s [%s] (reminder: %s)", t.Task, t.ActivityDisplay(), t.Reminder.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s [%s]", t.Task, t.ActivityDisplay())
}

// BeforeSave enforces the status/done and activity invariants on every struct write.
func (t *Todo) BeforeSave(tx *gorm.DB) error {
	if !t.Status.Valid() {
		t.Status = StatusPending
	}
	t.Done = t.Status == StatusCompleted
	if t.Activity == "" {
		t.Activity = ActivityOther
	}
	if t.Activity != ActivityOther {
		t.ActivityCustom = ""
	}
	if t.Reminder != nil {
		utc := t.Reminder.UTC()
		t.Reminder = &utc
	}
	if t.DueDate != nil {
		d := DateOf(*t.DueDate)
		t.DueDate = &d
	}
	return nil
}

// DateOf strips the clock from t, keeping its calendar day as UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDate returns a calendar date stored as UTC midnight.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
