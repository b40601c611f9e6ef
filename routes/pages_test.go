package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"smartapp-notes/smartapp/agenda"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/middleware"
	"smartapp-notes/smartapp/models"
	"smartapp-notes/smartapp/services"
	"smartapp-notes/smartapp/testutils"
	"smartapp-notes/smartapp/testutils/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPagesRedirectAnonymous(t *testing.T) {
	f := newFixture(t, nil)

	w := f.serve(httptest.NewRequest(http.MethodGet, "/todos/kanban/", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Ftodos%2Fkanban%2F", w.Header().Get("Location"))
}

func TestDashboardPage(t *testing.T) {
	f := newFixture(t, nil)
	f.dashboard.On("GetDashboard", f.db, f.userID, "", atNow(f)).Return(services.Dashboard{
		DashboardStats: services.DashboardStats{NotesCount: 2, TodosCount: 3, CompletedTodos: 1},
		Focus:          []models.Todo{{ID: 1, Task: "Water plants", Activity: models.ActivityOutdoor}},
	}, nil)

	w := f.page(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Water plants")
	assert.Contains(t, body, "<strong>2</strong> notes")
}

func TestLoginPageBadCredentials(t *testing.T) {
	f := newFixture(t, nil)
	f.auth.On("Login", f.db, "alice", "wrong").Return("", models.User{}, services.ErrInvalidCredentials)

	w := f.serve(formRequest("/login/", url.Values{"username": {"alice"}, "password": {"wrong"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password")
	assert.Contains(t, w.Body.String(), `value="alice"`)
}

func TestLoginPageSetsSessionCookie(t *testing.T) {
	f := newFixture(t, nil)
	f.auth.On("Login", f.db, "alice", "s3cretpass").Return("signed", models.User{Username: "alice"}, nil)

	w := f.serve(formRequest("/login/", url.Values{
		"username": {"alice"}, "password": {"s3cretpass"}, "next": {"/todos/"},
	}))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/todos/", w.Header().Get("Location"))
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "smartapp_session=signed")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Lax")
}

func TestLoginPageRejectsOffsiteNext(t *testing.T) {
	f := newFixture(t, nil)
	f.auth.On("Login", f.db, "alice", "s3cretpass").Return("signed", models.User{Username: "alice"}, nil)

	w := f.serve(formRequest("/login/", url.Values{
		"username": {"alice"}, "password": {"s3cretpass"}, "next": {"//evil.example/"},
	}))

	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRegisterPageRequiresConfirmation(t *testing.T) {
	f := newFixture(t, nil)

	w := f.serve(formRequest("/register/", url.Values{"username": {"alice"}, "password1": {"s3cretpass"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
	f.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterPageLogsIn(t *testing.T) {
	f := newFixture(t, nil)
	input := forms.RegisterInput{Username: "bob", Password: "s3cretpass", PasswordConfirm: "s3cretpass"}
	user := models.User{Username: "bob"}
	f.auth.On("Register", f.db, input).Return(user, nil)
	f.auth.On("GenerateToken", user).Return("fresh", nil)

	w := f.serve(formRequest("/register/", url.Values{
		"username": {"bob"}, "password1": {"s3cretpass"}, "password2": {"s3cretpass"},
	}))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "smartapp_session=fresh")
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newFixture(t, nil)

	w := f.page(http.MethodPost, "/logout/", url.Values{})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestNoteAddRerendersErrors(t *testing.T) {
	f := newFixture(t, nil)
	verr := &forms.ValidationError{FieldErrors: map[string]string{"title": "This field is required."}}
	f.notes.On("CreateNote", f.db, f.userID, forms.NoteInput{Content: "kept text"}).Return(models.Note{}, verr)

	w := f.page(http.MethodPost, "/notes/add/", url.Values{"title": {""}, "content": {"kept text"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
	assert.Contains(t, w.Body.String(), "kept text")
}

func TestNoteEditPageNotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.notes.On("GetNote", f.db, f.userID, uint(12)).Return(models.Note{}, services.ErrNoteNotFound)

	w := f.page(http.MethodGet, "/notes/edit/12/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoteDeleteRedirects(t *testing.T) {
	f := newFixture(t, nil)
	f.notes.On("DeleteNote", f.db, f.userID, uint(3)).Return(nil)

	w := f.page(http.MethodPost, "/notes/delete/3/", url.Values{})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/notes/", w.Header().Get("Location"))
}

func TestTodoAddParsesForm(t *testing.T) {
	f := newFixture(t, nil)
	matchInput := mock.MatchedBy(func(in forms.TodoInput) bool {
		return in.Task == "Buy milk" && in.IsImportant && in.Done != nil && !*in.Done && in.Activity == "shopping"
	})
	f.todos.On("CreateTodo", f.db, f.userID, matchInput, atNow(f)).Return(models.Todo{ID: 1}, nil)

	w := f.page(http.MethodPost, "/todos/add/", url.Values{
		"task": {"Buy milk"}, "activity": {"shopping"}, "is_important": {"on"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/todos/", w.Header().Get("Location"))
}

func TestTodoEditPageShowsStoredValues(t *testing.T) {
	f := newFixture(t, nil)
	due := models.NewDate(2030, 4, 1)
	reminder := time.Date(2030, 3, 31, 18, 30, 0, 0, time.UTC)
	f.todos.On("GetTodo", f.db, f.userID, uint(6)).Return(models.Todo{
		ID: 6, Task: "Dentist", DueDate: &due, Reminder: &reminder,
		Activity: models.ActivityOther, ActivityCustom: "Health", Status: models.StatusPending,
	}, nil)

	w := f.page(http.MethodGet, "/todos/edit/6/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="2030-04-01"`)
	assert.Contains(t, body, `value="2030-03-31T18:30"`)
	assert.Contains(t, body, `value="Health"`)
}

func TestTodoDetailNotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.todos.On("GetTodo", f.db, f.userID, uint(99)).Return(models.Todo{}, services.ErrTodoNotFound)

	w := f.page(http.MethodGet, "/todos/99/", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not found")
}

func TestCheckDoneRedirectsToReferer(t *testing.T) {
	f := newFixture(t, nil)
	f.todos.On("UpdateStatus", f.db, f.userID, uint(4), models.StatusCompleted).Return(models.Todo{ID: 4}, nil).Twice()

	req := cookieRequest(http.MethodPost, "/todos/check-done/4/")
	req.Header.Set("Referer", "http://example.com/todos/?page=1")
	w := f.serve(req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/todos/?page=1", w.Header().Get("Location"))

	req = cookieRequest(http.MethodPost, "/todos/check-done/4/")
	req.Header.Set("Referer", "http://evil.example/phish")
	w = f.serve(req)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestKanbanPage(t *testing.T) {
	f := newFixture(t, nil)
	f.dashboard.On("GetKanbanBoard", f.db, f.userID).Return(agenda.Board{
		Completed: []models.Todo{{ID: 2, Task: "Ship it", Status: models.StatusCompleted}},
	}, nil)

	w := f.page(http.MethodGet, "/todos/kanban/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-status="COMPLETED"`)
	assert.Contains(t, w.Body.String(), "Ship it")
}

func TestCalendarPage(t *testing.T) {
	f := newFixture(t, nil)
	due := models.NewDate(2030, 5, 2)
	f.dashboard.On("GetCalendarData", f.db, f.userID).Return(agenda.CalendarData{
		Pending: []agenda.MonthGroup{{Label: "May 2030", Todos: []models.Todo{{ID: 1, Task: "Taxes", DueDate: &due}}}},
	}, nil)

	w := f.page(http.MethodGet, "/todos/calendar/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "May 2030")
}

func TestKanbanStatusEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.todos.On("UpdateStatus", f.db, f.userID, uint(3), models.StatusCompleted).Return(models.Todo{ID: 3}, nil)

	req := httptest.NewRequest(http.MethodPost, "/todos/update-status/3/", strings.NewReader(`{"status":"COMPLETED"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie())
	w := f.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
}

func TestPollingEndpointUsesSession(t *testing.T) {
	f := newFixture(t, nil)
	f.dashboard.On("GetReminderStatus", f.db, f.userID, atNow(f), mock.Anything).Return(services.ReminderStatus{
		Overdue: []services.ReminderItem{}, Soon: []services.ReminderItem{}, Now: "2030-03-10 09:00:00",
	}, nil)

	w := f.page(http.MethodGet, "/reminders/status/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2030-03-10 09:00:00", decode(t, w)["now"])
}

func TestLoginRateLimited(t *testing.T) {
	f := newFixture(t, middleware.NewMemoryLimiter(1))
	f.auth.On("Login", f.db, "alice", "wrong").Return("", models.User{}, services.ErrInvalidCredentials).Once()

	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	assert.Equal(t, http.StatusOK, f.serve(formRequest("/login/", form)).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.serve(formRequest("/login/", form)).Code)
}

func TestHealth(t *testing.T) {
	db := testutils.SetupTestDB(t)
	router, err := NewRouter(Dependencies{DB: db, AuthService: new(mocks.MockAuthService)})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["pending_events"])
}

func TestHealthHidesDriverErrors(t *testing.T) {
	db := testutils.SetupTestDB(t)
	router, err := NewRouter(Dependencies{DB: db, AuthService: new(mocks.MockAuthService)})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, "unavailable", body["database"])
	assert.NotContains(t, w.Body.String(), "closed")
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                 "/",
		"/todos/":          "/todos/",
		"//evil.example":   "/",
		"https://evil.com": "/",
		`/\evil.example`:   "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeRedirect(in), in)
	}
}

func TestTodoFormValuesUsesLocation(t *testing.T) {
	reminder := time.Date(2030, 1, 1, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+2", 2*60*60)

	values := todoFormValues(models.Todo{Task: "Party", Reminder: &reminder, Done: true, Status: models.StatusCompleted}, loc)

	assert.Equal(t, "2030-01-02T01:30", values.Reminder)
	assert.Equal(t, "", values.DueDate)
	require.NotNil(t, values.Done)
	assert.True(t, *values.Done)
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: "smartapp_session", Value: "good"}
}

func cookieRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(sessionCookie())
	return req
}
