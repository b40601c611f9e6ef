package routes

import (
	"net/http"
	"strings"
	"time"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
)

// RegisterDashboardRoutes exposes the reminder and priority views as JSON.
func RegisterDashboardRoutes(group *gin.RouterGroup, db *database.Database, dashboardService services.DashboardServiceInterface, clock Clock, loc *time.Location) {
	group.GET("/dashboard", func(c *gin.Context) { GetDashboard(c, db, dashboardService) })
	group.GET("/reminders", func(c *gin.Context) { GetReminders(c, db, dashboardService, localNow(clock, loc)) })
	group.GET("/reminders/status", func(c *gin.Context) { GetReminderStatus(c, db, dashboardService, localNow(clock, loc)) })
	group.GET("/focus", func(c *gin.Context) { GetDailyFocus(c, db, dashboardService, localNow(clock, loc)) })
	group.GET("/matrix", func(c *gin.Context) { GetPriorityMatrix(c, db, dashboardService, localNow(clock, loc)) })
	group.GET("/calendar", func(c *gin.Context) { GetCalendar(c, db, dashboardService) })
	group.GET("/kanban", func(c *gin.Context) { GetKanban(c, db, dashboardService) })
}

func GetDashboard(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := dashboardService.GetDashboardStats(db, userID, strings.TrimSpace(c.Query("q")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func GetReminders(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface, now time.Time) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	reminders, err := dashboardService.GetReminders(db, userID, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// GetReminderStatus serves the payload the browser polls for reminder alerts.
func GetReminderStatus(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface, now time.Time) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	status, err := dashboardService.GetReminderStatus(db, userID, now, now.Location())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func GetDailyFocus(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface, now time.Time) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	focus, err := dashboardService.GetDailyFocus(db, userID, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, focus)
}

func GetPriorityMatrix(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface, now time.Time) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	matrix, err := dashboardService.GetPriorityMatrix(db, userID, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matrix)
}

func GetCalendar(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	calendar, err := dashboardService.GetCalendarData(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calendar)
}

func GetKanban(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	board, err := dashboardService.GetKanbanBoard(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
