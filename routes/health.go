package routes

import (
	"context"
	"net/http"
	"time"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterHealthRoutes exposes liveness and metrics without authentication.
func RegisterHealthRoutes(router gin.IRoutes, db *database.Database, log *logger.Logger) {
	log = logger.OrNop(log).WithComponent("health")
	router.GET("/healthz", func(c *gin.Context) { Health(c, db, log) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Health pings the database and reports the outbox backlog. Driver errors are
// logged, never returned to the caller.
func Health(c *gin.Context, db *database.Database, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	err := db.Ping(ctx)
	var pending int64
	if err == nil {
		pending, err = db.PendingEvents(ctx)
	}
	if err != nil {
		log.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"database": "unavailable",
			"time":     time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"database":       "ok",
		"pending_events": pending,
		"time":           time.Now().UTC(),
	})
}
