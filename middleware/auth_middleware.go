package middleware

import (
	"net/http"
	"net/url"

	"smartapp-notes/smartapp/services"
	"smartapp-notes/smartapp/utils/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDKey   = "userID"
	usernameKey = "username"
)

// AuthMiddleware guards JSON endpoints. The token may come from the Authorization
// header, the session cookie, or a token query parameter for websocket clients.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// WebAuthMiddleware guards server-rendered pages and sends anonymous visitors to the login page.
func WebAuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(token.CookieName); err == nil && cookie != "" {
			if claims, err := authService.ValidateToken(cookie); err == nil {
				setUser(c, claims)
				c.Next()
				return
			}
		}

		c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func setUser(c *gin.Context, claims *services.JWTClaims) {
	c.Set(userIDKey, claims.UserID)
	c.Set(usernameKey, claims.Username)
}

// CurrentUserID returns the authenticated user placed on the context by the auth middleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func CurrentUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}
