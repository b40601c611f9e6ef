package forms

import (
	"net/url"
	"strings"
	"time"

	"smartapp-notes/smartapp/models"
)

const (
	DateLayout          = "2006-01-02"
	DateTimeLocalLayout = "2006-01-02T15:04"
	DateTimeLayout      = "2006-01-02 15:04"
)

var reminderLayouts = []string{DateTimeLocalLayout, DateTimeLayout, time.RFC3339}

// TodoInput is the raw todo submission from either the HTML form or the JSON API.
type TodoInput struct {
	Task           string `json:"task" form:"task" validate:"required,max=255"`
	DueDate        string `json:"due_date" form:"due_date"`
	Activity       string `json:"activity" form:"activity" validate:"omitempty,oneof=shopping meeting outdoor workout custom"`
	ActivityCustom string `json:"activity_custom" form:"activity_custom" validate:"max=100"`
	Reminder       string `json:"reminder" form:"reminder"`
	Status         string `json:"status" form:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	Done           *bool  `json:"done" form:"done"`
	IsImportant    bool   `json:"is_important" form:"is_important"`
}

// TodoOptions describes the context a submission is validated in.
type TodoOptions struct {
	// Location interprets reminders that carry no offset. Defaults to UTC.
	Location *time.Location
	// Current is the stored todo on update, nil on create.
	Current *models.Todo
}

// ValidTodo holds cleaned values ready to be applied to a models.Todo.
type ValidTodo struct {
	Task           string
	DueDate        *time.Time
	Activity       models.Activity
	ActivityCustom string
	Reminder       *time.Time
	Status         models.TodoStatus
	IsImportant    bool
}

// Apply copies the mutable fields onto t. Identity, owner and creation time are left alone.
func (v ValidTodo) Apply(t *models.Todo) {
	t.Task = v.Task
	t.DueDate = v.DueDate
	t.Activity = v.Activity
	t.ActivityCustom = v.ActivityCustom
	t.Reminder = v.Reminder
	t.IsImportant = v.IsImportant
	t.SetStatus(v.Status)
}

// TodoInputFromForm reads a urlencoded todo form, treating any present checkbox value
// other than "false" or "0" as checked.
func TodoInputFromForm(values url.Values) TodoInput {
	input := TodoInput{
		Task:           values.Get("task"),
		DueDate:        values.Get("due_date"),
		Activity:       values.Get("activity"),
		ActivityCustom: values.Get("activity_custom"),
		Reminder:       values.Get("reminder"),
		Status:         values.Get("status"),
		IsImportant:    checked(values, "is_important"),
	}
	done := checked(values, "done")
	input.Done = &done
	return input
}

func checked(values url.Values, key string) bool {
	if _, ok := values[key]; !ok {
		return false
	}
	switch strings.ToLower(values.Get(key)) {
	case "false", "0", "off":
		return false
	}
	return true
}

func ValidateTodo(input TodoInput, now time.Time, opts TodoOptions) (ValidTodo, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	input.Task = strings.TrimSpace(input.Task)
	input.Activity = strings.TrimSpace(input.Activity)
	input.Status = strings.TrimSpace(input.Status)
	input.ActivityCustom = strings.TrimSpace(input.ActivityCustom)
	if input.Activity == "" {
		input.Activity = string(models.ActivityOther)
	}
	if input.Activity != string(models.ActivityOther) {
		input.ActivityCustom = ""
	}

	verr := &ValidationError{}
	if err := validate.Struct(input); err != nil {
		verr.addStruct(err)
	}

	out := ValidTodo{
		Task:           input.Task,
		Activity:       models.Activity(input.Activity),
		ActivityCustom: input.ActivityCustom,
		IsImportant:    input.IsImportant,
	}

	if due, msg := parseDueDate(input.DueDate, now, opts.Current); msg != "" {
		verr.add("due_date", msg)
	} else {
		out.DueDate = due
	}

	if reminder, ok := parseReminder(input.Reminder, loc); !ok {
		verr.add("reminder", "Enter a valid date/time.")
	} else {
		out.Reminder = reminder
	}

	out.Status = resolveStatus(input, opts.Current)

	return out, verr.orNil()
}

func parseDueDate(raw string, now time.Time, current *models.Todo) (*time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	due, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, "Enter a valid date."
	}
	if due.Year() < 1900 {
		return nil, "Due date year must be 1900 or later."
	}
	if current != nil && current.DueDate != nil && models.DateOf(*current.DueDate).Equal(due) {
		return &due, ""
	}
	if due.Before(models.DateOf(now)) {
		return nil, "Due date cannot be in the past."
	}
	return &due, ""
}

func parseReminder(raw string, loc *time.Location) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	for _, layout := range reminderLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			utc := t.UTC()
			return &utc, true
		}
	}
	return nil, false
}

// resolveStatus gives an explicit status precedence over the legacy done flag.
func resolveStatus(input TodoInput, current *models.Todo) models.TodoStatus {
	if s := models.TodoStatus(input.Status); s.Valid() {
		return s
	}

	t := models.Todo{Status: models.StatusPending}
	if current != nil {
		t.Status = current.Status
	}
	if input.Done != nil {
		t.SetDone(*input.Done)
	}
	if !t.Status.Valid() {
		return models.StatusPending
	}
	return t.Status
}
