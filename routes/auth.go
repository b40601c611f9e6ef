package routes

import (
	"net/http"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/models"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
)

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      models.User `json:"user"`
}

// RegisterAuthRoutes mounts the token endpoints. guards run before each handler, typically a rate limiter.
func RegisterAuthRoutes(group *gin.RouterGroup, db *database.Database, authService services.AuthServiceInterface, guards ...gin.HandlerFunc) {
	auth := group.Group("/auth", guards...)
	{
		auth.POST("/register", func(c *gin.Context) { Register(c, db, authService) })
		auth.POST("/login", func(c *gin.Context) { Login(c, db, authService) })
	}
}

func Register(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var input forms.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := authService.Register(db, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func Login(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var input forms.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := forms.ValidateLogin(input)
	if err != nil {
		respondError(c, err)
		return
	}

	tokenString, user, err := authService.Login(db, input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     tokenString,
		ExpiresIn: int64(authService.TokenTTL().Seconds()),
		User:      user,
	})
}
