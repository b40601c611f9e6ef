package routes

import (
	"errors"
	"net/http"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/services"
	"smartapp-notes/smartapp/utils/token"

	"github.com/gin-gonic/gin"
)

const (
	msgBadCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgUsernameTaken  = "A user with that username already exists."
	msgFieldRequired  = "This field is required."
)

// RegisterAuthPages mounts the sign-up, log-in and log-out pages. guards apply to the POST handlers.
func RegisterAuthPages(router gin.IRoutes, db *database.Database, authService services.AuthServiceInterface, opts PageOptions, guards ...gin.HandlerFunc) {
	router.GET("/register/", RegisterPage)
	router.POST("/register/", withGuards(guards, func(c *gin.Context) { RegisterSubmit(c, db, authService, opts) })...)
	router.GET("/login/", LoginPage)
	router.POST("/login/", withGuards(guards, func(c *gin.Context) { LoginSubmit(c, db, authService, opts) })...)
	router.GET("/logout/", func(c *gin.Context) { Logout(c, opts) })
	router.POST("/logout/", func(c *gin.Context) { Logout(c, opts) })
}

func withGuards(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(guards)+1)
	return append(append(handlers, guards...), h)
}

func setSessionCookie(c *gin.Context, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(token.CookieName, value, maxAge, "/", "", secure, true)
}

func RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", page(c, "Register", gin.H{
		"Values": forms.RegisterInput{},
		"Errors": map[string]string{},
	}))
}

func RegisterSubmit(c *gin.Context, db *database.Database, authService services.AuthServiceInterface, opts PageOptions) {
	input := forms.RegisterInput{
		Username:        c.PostForm("username"),
		Password:        c.PostForm("password1"),
		PasswordConfirm: c.PostForm("password2"),
	}

	rerender := func(fieldErrors map[string]string) {
		c.HTML(http.StatusOK, "register.html", page(c, "Register", gin.H{
			"Values": input,
			"Errors": fieldErrors,
		}))
	}

	if input.PasswordConfirm == "" {
		rerender(map[string]string{"password2": msgFieldRequired})
		return
	}

	user, err := authService.Register(db, input)
	switch {
	case errors.Is(err, forms.ErrValidation):
		rerender(forms.FieldErrors(err))
		return
	case errors.Is(err, services.ErrUserExists):
		rerender(map[string]string{"username": msgUsernameTaken})
		return
	case err != nil:
		renderPageError(c, err)
		return
	}

	tokenString, err := authService.GenerateToken(user)
	if err != nil {
		renderPageError(c, err)
		return
	}
	setSessionCookie(c, tokenString, int(authService.TokenTTL().Seconds()), opts.SecureCookies)
	c.Redirect(http.StatusFound, "/")
}

func LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", page(c, "Log in", gin.H{
		"Values": forms.LoginInput{},
		"Errors": map[string]string{},
		"Next":   c.Query("next"),
	}))
}

func LoginSubmit(c *gin.Context, db *database.Database, authService services.AuthServiceInterface, opts PageOptions) {
	input := forms.LoginInput{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}
	next := c.PostForm("next")

	rerender := func(fieldErrors map[string]string) {
		c.HTML(http.StatusOK, "login.html", page(c, "Log in", gin.H{
			"Values": input,
			"Errors": fieldErrors,
			"Next":   next,
		}))
	}

	input, err := forms.ValidateLogin(input)
	if err != nil {
		rerender(forms.FieldErrors(err))
		return
	}

	tokenString, _, err := authService.Login(db, input.Username, input.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		rerender(map[string]string{"__all__": msgBadCredentials})
		return
	case err != nil:
		renderPageError(c, err)
		return
	}

	setSessionCookie(c, tokenString, int(authService.TokenTTL().Seconds()), opts.SecureCookies)
	c.Redirect(http.StatusFound, safeRedirect(next))
}

func Logout(c *gin.Context, opts PageOptions) {
	setSessionCookie(c, "", -1, opts.SecureCookies)
	c.Redirect(http.StatusFound, "/login/")
}
