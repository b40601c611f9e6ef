package forms

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"smartapp-notes/smartapp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func TestValidateTodoDefaults(t *testing.T) {
	out, err := ValidateTodo(TodoInput{Task: " Buy milk "}, now, TodoOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", out.Task)
	assert.Equal(t, models.ActivityOther, out.Activity)
	assert.Equal(t, models.StatusPending, out.Status)
	assert.Nil(t, out.DueDate)
	assert.Nil(t, out.Reminder)
}

func TestValidateTodoTaskRules(t *testing.T) {
	_, err := ValidateTodo(TodoInput{Task: "  "}, now, TodoOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, FieldErrors(err), "task")

	_, err = ValidateTodo(TodoInput{Task: strings.Repeat("x", 256)}, now, TodoOptions{})
	assert.Equal(t, "Ensure this value has at most 255 characters.", FieldErrors(err)["task"])
}

func TestValidateTodoDueDate(t *testing.T) {
	testCases := []struct {
		name    string
		due     string
		wantErr bool
	}{
		{"today", "2025-10-15", false},
		{"future", "2026-01-01", false},
		{"yesterday", "2025-10-14", true},
		{"before 1900", "1899-12-31", true},
		{"year 343", "0343-05-01", true},
		{"garbage", "15/10/2025", true},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ValidateTodo(TodoInput{Task: "t", DueDate: tc.due}, now, TodoOptions{})
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, FieldErrors(err), "due_date")
				return
			}
			require.NoError(t, err)
			if tc.due != "" {
				assert.Equal(t, tc.due, out.DueDate.Format(DateLayout))
			}
		})
	}
}

func TestValidateTodoKeepsStoredPastDueDate(t *testing.T) {
	past := models.NewDate(2025, 10, 1)
	current := &models.Todo{Status: models.StatusInProgress, DueDate: &past}

	out, err := ValidateTodo(TodoInput{Task: "t", DueDate: "2025-10-01"}, now, TodoOptions{Current: current})
	require.NoError(t, err)
	assert.Equal(t, past, *out.DueDate)

	_, err = ValidateTodo(TodoInput{Task: "t", DueDate: "2025-10-02"}, now, TodoOptions{Current: current})
	assert.Contains(t, FieldErrors(err), "due_date")
}

func TestValidateTodoActivity(t *testing.T) {
	out, err := ValidateTodo(TodoInput{Task: "t", Activity: "workout", ActivityCustom: "Yoga"}, now, TodoOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.ActivityWorkout, out.Activity)
	assert.Empty(t, out.ActivityCustom)

	out, err = ValidateTodo(TodoInput{Task: "t", Activity: "custom", ActivityCustom: "  Piano  "}, now, TodoOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Piano", out.ActivityCustom)

	_, err = ValidateTodo(TodoInput{Task: "t", Activity: "cooking"}, now, TodoOptions{})
	assert.Equal(t, "Select a valid choice.", FieldErrors(err)["activity"])

	_, err = ValidateTodo(TodoInput{Task: "t", ActivityCustom: strings.Repeat("p", 101)}, now, TodoOptions{})
	assert.Contains(t, FieldErrors(err), "activity_custom")
}

func TestValidateTodoReminder(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)

	for _, raw := range []string{"2025-10-15T14:30", "2025-10-15 14:30"} {
		out, err := ValidateTodo(TodoInput{Task: "t", Reminder: raw}, now, TodoOptions{Location: loc})
		require.NoError(t, err, raw)
		assert.Equal(t, time.Date(2025, 10, 15, 12, 30, 0, 0, time.UTC), *out.Reminder)
	}

	out, err := ValidateTodo(TodoInput{Task: "t", Reminder: "2025-10-15T14:30:00Z"}, now, TodoOptions{Location: loc})
	require.NoError(t, err)
	assert.Equal(t, 14, out.Reminder.Hour())

	// reminders in the past are allowed
	_, err = ValidateTodo(TodoInput{Task: "t", Reminder: "2000-01-01T00:00"}, now, TodoOptions{})
	assert.NoError(t, err)

	_, err = ValidateTodo(TodoInput{Task: "t", Reminder: "tomorrow"}, now, TodoOptions{})
	assert.Contains(t, FieldErrors(err), "reminder")
}

func TestValidateTodoStatus(t *testing.T) {
	out, err := ValidateTodo(TodoInput{Task: "t", Status: "IN_PROGRESS", Done: boolPtr(true)}, now, TodoOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, out.Status)

	_, err = ValidateTodo(TodoInput{Task: "t", Status: "DONE"}, now, TodoOptions{})
	assert.Contains(t, FieldErrors(err), "status")
}

func TestValidateTodoDoneFlag(t *testing.T) {
	out, _ := ValidateTodo(TodoInput{Task: "t", Done: boolPtr(true)}, now, TodoOptions{})
	assert.Equal(t, models.StatusCompleted, out.Status)

	current := &models.Todo{Status: models.StatusCompleted, Done: true}
	out, _ = ValidateTodo(TodoInput{Task: "t", Done: boolPtr(false)}, now, TodoOptions{Current: current})
	assert.Equal(t, models.StatusPending, out.Status)

	current = &models.Todo{Status: models.StatusInProgress}
	out, _ = ValidateTodo(TodoInput{Task: "t", Done: boolPtr(false)}, now, TodoOptions{Current: current})
	assert.Equal(t, models.StatusInProgress, out.Status)

	out, _ = ValidateTodo(TodoInput{Task: "t"}, now, TodoOptions{Current: current})
	assert.Equal(t, models.StatusInProgress, out.Status)
}

func TestValidateTodoCollectsAllErrors(t *testing.T) {
	_, err := ValidateTodo(TodoInput{DueDate: "nope", Reminder: "nope", Activity: "x"}, now, TodoOptions{})
	fields := FieldErrors(err)
	assert.Len(t, fields, 4)
}

func TestApply(t *testing.T) {
	due := models.NewDate(2025, 11, 1)
	v := ValidTodo{Task: "Run", DueDate: &due, Activity: models.ActivityWorkout, Status: models.StatusCompleted, IsImportant: true}
	todo := &models.Todo{ID: 9}
	v.Apply(todo)

	assert.Equal(t, uint(9), todo.ID)
	assert.Equal(t, "Run", todo.Task)
	assert.True(t, todo.Done)
	assert.True(t, todo.IsImportant)
}

func TestTodoInputFromForm(t *testing.T) {
	values := url.Values{
		"task":         {"Buy"},
		"is_important": {"on"},
		"activity":     {"shopping"},
	}
	input := TodoInputFromForm(values)
	assert.Equal(t, "Buy", input.Task)
	assert.True(t, input.IsImportant)
	require.NotNil(t, input.Done)
	assert.False(t, *input.Done)

	values.Set("done", "true")
	values.Set("is_important", "false")
	input = TodoInputFromForm(values)
	assert.True(t, *input.Done)
	assert.False(t, input.IsImportant)
}
