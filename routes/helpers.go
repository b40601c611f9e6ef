package routes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/middleware"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Clock returns the current instant. Handlers take one so tests can pin "now".
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

// localNow reads the clock in the configured location so "today" matches the user's calendar.
func localNow(clock Clock, loc *time.Location) time.Time {
	if clock == nil {
		clock = systemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return clock().In(loc)
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func apiID(c *gin.Context) (uint, bool) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
	}
	return id, ok
}

// respondError maps service and validation errors onto JSON responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, forms.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": forms.ErrValidation.Error(), "fields": forms.FieldErrors(err)})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, services.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.ErrInternal.Error()})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, services.ErrNotFound)
}
