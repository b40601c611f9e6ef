package routes

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/middleware"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
)

// PageOptions carries what every server-rendered page needs besides its service.
type PageOptions struct {
	Clock         Clock
	Location      *time.Location
	SecureCookies bool
}

func (o PageOptions) now() time.Time {
	return localNow(o.Clock, o.Location)
}

func page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Username"] = middleware.CurrentUsername(c)
	return data
}

func renderNotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "not_found.html", page(c, "Not found", gin.H{"Message": message}))
}

// renderPageError answers a failed page request: not found renders the 404 page, anything else a 500.
func renderPageError(c *gin.Context, err error) {
	if isNotFound(err) {
		renderNotFound(c, "")
		return
	}
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, services.ErrInternal.Error())
}

func pageID(c *gin.Context) (uint, bool) {
	id, ok := parseID(c)
	if !ok {
		renderNotFound(c, "")
	}
	return id, ok
}

// safeRedirect keeps redirects on this site, falling back to the dashboard.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "/"
	}
	return target
}

// refererPath reduces a Referer header to a local path when it points at this host.
func refererPath(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || (ref.Host != "" && ref.Host != c.Request.Host) {
		return "/"
	}
	return safeRedirect(ref.RequestURI())
}

// RegisterDashboardPages mounts the home page and the reminder polling endpoint.
func RegisterDashboardPages(group *gin.RouterGroup, db *database.Database, dashboardService services.DashboardServiceInterface, opts PageOptions) {
	group.GET("/", func(c *gin.Context) { DashboardPage(c, db, dashboardService, opts.now()) })
	group.GET("/reminders/status/", func(c *gin.Context) { GetReminderStatus(c, db, dashboardService, opts.now()) })
}

func DashboardPage(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface, now time.Time) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	dashboard, err := dashboardService.GetDashboard(db, userID, strings.TrimSpace(c.Query("q")), now)
	if err != nil {
		renderPageError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", page(c, "Dashboard", gin.H{
		"Stats":     dashboard.DashboardStats,
		"Reminders": dashboard.Reminders,
		"Focus":     dashboard.Focus,
		"Matrix":    dashboard.Matrix,
	}))
}
