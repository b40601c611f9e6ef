package routes

import (
	"fmt"
	"net/http"
	"time"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/models"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status" form:"status"`
}

func RegisterTodoRoutes(group *gin.RouterGroup, db *database.Database, todoService services.TodoServiceInterface, clock Clock, loc *time.Location) {
	group.GET("/todos", func(c *gin.Context) { GetTodos(c, db, todoService) })
	group.POST("/todos", func(c *gin.Context) { CreateTodo(c, db, todoService, localNow(clock, loc)) })

	group.GET("/todos/:id", func(c *gin.Context) { GetTodoById(c, db, todoService) })
	group.PUT("/todos/:id", func(c *gin.Context) { UpdateTodo(c, db, todoService, localNow(clock, loc)) })
	group.DELETE("/todos/:id", func(c *gin.Context) { DeleteTodo(c, db, todoService) })

	group.POST("/todos/:id/status", func(c *gin.Context) { UpdateTodoStatus(c, db, todoService) })
	group.POST("/todos/:id/done", func(c *gin.Context) { MarkTodoDone(c, db, todoService) })
}

func GetTodos(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	todos, err := todoService.ListTodos(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

func CreateTodo(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface, now time.Time) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input forms.TodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := todoService.CreateTodo(db, userID, input, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func GetTodoById(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := apiID(c)
	if !ok {
		return
	}

	todo, err := todoService.GetTodo(db, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func UpdateTodo(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface, now time.Time) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := apiID(c)
	if !ok {
		return
	}

	var input forms.TodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := todoService.UpdateTodo(db, userID, id, input, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func DeleteTodo(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := apiID(c)
	if !ok {
		return
	}

	if err := todoService.DeleteTodo(db, userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateTodoStatus moves a todo to another workflow column. The body may be JSON or a form post.
func UpdateTodoStatus(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var req statusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	status := models.TodoStatus(req.Status)
	todo, err := todoService.UpdateStatus(db, userID, id, status)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Status updated to %s", status.Label()),
		"todo":    todo,
	})
}

func MarkTodoDone(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := apiID(c)
	if !ok {
		return
	}

	todo, err := todoService.MarkTodoDone(db, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}
