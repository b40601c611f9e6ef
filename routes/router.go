package routes

import (
	"time"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/logger"
	"smartapp-notes/smartapp/middleware"
	"smartapp-notes/smartapp/services"
	"smartapp-notes/smartapp/web"

	"github.com/gin-gonic/gin"
)

// Dependencies is everything NewRouter wires into handlers.
type Dependencies struct {
	DB  *database.Database
	Log *logger.Logger

	AuthService      services.AuthServiceInterface
	NoteService      services.NoteServiceInterface
	TodoService      services.TodoServiceInterface
	DashboardService services.DashboardServiceInterface
	// WebSocketService is optional; without it /api/v1/ws is not mounted.
	WebSocketService services.WebSocketServiceInterface

	// Limiter guards the login and register endpoints. Nil disables rate limiting.
	Limiter            middleware.Limiter
	RateLimitPerMinute int

	AllowedOrigins []string
	Location       *time.Location
	Clock          Clock
	SecureCookies  bool
}

// NewRouter builds the gin engine serving the JSON API under /api/v1 and the HTML pages.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Clock == nil {
		deps.Clock = systemClock
	}

	tmpl, err := web.Templates(deps.Location)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))
	router.SetHTMLTemplate(tmpl)

	RegisterHealthRoutes(router, deps.DB, deps.Log)

	var guards []gin.HandlerFunc
	if deps.Limiter != nil {
		guards = append(guards, middleware.RateLimit(deps.Limiter, deps.RateLimitPerMinute, deps.Log))
	}

	api := router.Group("/api/v1")
	RegisterAuthRoutes(api, deps.DB, deps.AuthService, guards...)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthService))
	RegisterNoteRoutes(protected, deps.DB, deps.NoteService)
	RegisterTodoRoutes(protected, deps.DB, deps.TodoService, deps.Clock, deps.Location)
	RegisterDashboardRoutes(protected, deps.DB, deps.DashboardService, deps.Clock, deps.Location)
	if deps.WebSocketService != nil {
		RegisterWebSocketRoutes(protected, deps.WebSocketService)
	}

	opts := PageOptions{Clock: deps.Clock, Location: deps.Location, SecureCookies: deps.SecureCookies}
	RegisterAuthPages(router, deps.DB, deps.AuthService, opts, guards...)

	pages := router.Group("")
	pages.Use(middleware.WebAuthMiddleware(deps.AuthService))
	RegisterDashboardPages(pages, deps.DB, deps.DashboardService, opts)
	RegisterNotePages(pages, deps.DB, deps.NoteService)
	RegisterTodoPages(pages, deps.DB, deps.TodoService, deps.DashboardService, opts)

	return router, nil
}
