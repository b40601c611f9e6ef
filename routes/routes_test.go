package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/middleware"
	"smartapp-notes/smartapp/services"
	"smartapp-notes/smartapp/testutils/mocks"
	"smartapp-notes/smartapp/utils/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router    *gin.Engine
	db        *database.Database
	auth      *mocks.MockAuthService
	notes     *mocks.MockNoteService
	todos     *mocks.MockTodoService
	dashboard *mocks.MockDashboardService
	userID    uuid.UUID
	now       time.Time
}

func newFixture(t *testing.T, limiter middleware.Limiter) *fixture {
	f := &fixture{
		db:        &database.Database{},
		auth:      new(mocks.MockAuthService),
		notes:     new(mocks.MockNoteService),
		todos:     new(mocks.MockTodoService),
		dashboard: new(mocks.MockDashboardService),
		userID:    uuid.New(),
		now:       time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.auth.On("ValidateToken", "good").Return(&services.JWTClaims{UserID: f.userID, Username: "alice"}, nil).Maybe()
	f.auth.On("ValidateToken", mock.Anything).Return(nil, services.ErrInvalidToken).Maybe()

	router, err := NewRouter(Dependencies{
		DB:                 f.db,
		AuthService:        f.auth,
		NoteService:        f.notes,
		TodoService:        f.todos,
		DashboardService:   f.dashboard,
		Limiter:            limiter,
		RateLimitPerMinute: 1,
		Location:           time.UTC,
		Clock:              func() time.Time { return f.now },
	})
	require.NoError(t, err)
	f.router = router

	t.Cleanup(func() {
		f.notes.AssertExpectations(t)
		f.todos.AssertExpectations(t)
		f.dashboard.AssertExpectations(t)
	})
	return f
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) api(method, path string, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Bearer good")
	req.Header.Set("Content-Type", "application/json")
	return f.serve(req)
}

func (f *fixture) page(method, path string, form url.Values) *httptest.ResponseRecorder {
	var r io.Reader
	if form != nil {
		r = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, r)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: token.CookieName, Value: "good"})
	return f.serve(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func atNow(f *fixture) interface{} {
	return mock.MatchedBy(func(now time.Time) bool { return now.Equal(f.now) })
}
