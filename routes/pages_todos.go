package routes

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/middleware"
	"smartapp-notes/smartapp/models"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
)

func RegisterTodoPages(group *gin.RouterGroup, db *database.Database, todoService services.TodoServiceInterface, dashboardService services.DashboardServiceInterface, opts PageOptions) {
	group.GET("/todos/", func(c *gin.Context) { TodosListPage(c, db, todoService) })
	group.GET("/todos/add/", TodoAddPage)
	group.POST("/todos/add/", func(c *gin.Context) { TodoAddSubmit(c, db, todoService, opts.now()) })
	group.GET("/todos/:id/", func(c *gin.Context) { TodoDetailPage(c, db, todoService) })
	group.GET("/todos/edit/:id/", func(c *gin.Context) { TodoEditPage(c, db, todoService, opts.Location) })
	group.POST("/todos/edit/:id/", func(c *gin.Context) { TodoEditSubmit(c, db, todoService, opts.now()) })
	group.GET("/todos/delete/:id/", func(c *gin.Context) { TodoDeletePage(c, db, todoService) })
	group.POST("/todos/delete/:id/", func(c *gin.Context) { TodoDeleteSubmit(c, db, todoService) })
	group.GET("/todos/check-done/:id/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/") })
	group.POST("/todos/check-done/:id/", func(c *gin.Context) { TodoCheckDone(c, db, todoService) })

	group.GET("/todos/calendar/", func(c *gin.Context) { CalendarPage(c, db, dashboardService) })
	group.GET("/todos/kanban/", func(c *gin.Context) { KanbanPage(c, db, dashboardService) })
	group.POST("/todos/update-status/:id/", func(c *gin.Context) { UpdateTodoStatus(c, db, todoService) })
}

func todoForm(c *gin.Context, title, action string, values forms.TodoInput, fieldErrors map[string]string) {
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	c.HTML(http.StatusOK, "todos_form.html", page(c, title, gin.H{
		"Action": action,
		"Values": values,
		"Done":   values.Done != nil && *values.Done,
		"Errors": fieldErrors,
	}))
}

// todoFormValues renders a stored todo back into form fields, reminders in loc.
func todoFormValues(t models.Todo, loc *time.Location) forms.TodoInput {
	if loc == nil {
		loc = time.UTC
	}
	done := t.Done
	values := forms.TodoInput{
		Task:           t.Task,
		Activity:       string(t.Activity),
		ActivityCustom: t.ActivityCustom,
		Status:         string(t.Status),
		Done:           &done,
		IsImportant:    t.IsImportant,
	}
	if t.DueDate != nil {
		values.DueDate = t.DueDate.Format(forms.DateLayout)
	}
	if t.Reminder != nil {
		values.Reminder = t.Reminder.In(loc).Format(forms.DateTimeLocalLayout)
	}
	return values
}

func postedTodo(c *gin.Context) (forms.TodoInput, error) {
	if err := c.Request.ParseForm(); err != nil {
		return forms.TodoInput{}, err
	}
	return forms.TodoInputFromForm(c.Request.PostForm), nil
}

func TodosListPage(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	todos, err := todoService.ListTodos(db, userID)
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "todos_list.html", page(c, "Todos", gin.H{"Todos": todos}))
}

func TodoAddPage(c *gin.Context) {
	done := false
	todoForm(c, "Add todo", "/todos/add/", forms.TodoInput{
		Activity: string(models.ActivityOther),
		Done:     &done,
	}, nil)
}

func TodoAddSubmit(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface, now time.Time) {
	userID, _ := middleware.CurrentUserID(c)
	input, err := postedTodo(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if _, err := todoService.CreateTodo(db, userID, input, now); err != nil {
		if errors.Is(err, forms.ErrValidation) {
			todoForm(c, "Add todo", "/todos/add/", input, forms.FieldErrors(err))
			return
		}
		renderPageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/")
}

func TodoDetailPage(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	todo, err := todoService.GetTodo(db, userID, id)
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "todos_detail.html", page(c, todo.Task, gin.H{"Todo": todo}))
}

func TodoEditPage(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface, loc *time.Location) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	todo, err := todoService.GetTodo(db, userID, id)
	if err != nil {
		renderPageError(c, err)
		return
	}
	todoForm(c, "Edit todo", fmt.Sprintf("/todos/edit/%d/", id), todoFormValues(todo, loc), nil)
}

func TodoEditSubmit(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface, now time.Time) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}
	input, err := postedTodo(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if _, err := todoService.UpdateTodo(db, userID, id, input, now); err != nil {
		if errors.Is(err, forms.ErrValidation) {
			todoForm(c, "Edit todo", fmt.Sprintf("/todos/edit/%d/", id), input, forms.FieldErrors(err))
			return
		}
		renderPageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/")
}

func TodoDeletePage(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	todo, err := todoService.GetTodo(db, userID, id)
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "confirm_delete.html", page(c, "Delete todo", gin.H{
		"Kind":   "todo",
		"Name":   todo.Task,
		"Action": fmt.Sprintf("/todos/delete/%d/", id),
		"Cancel": "/todos/",
	}))
}

func TodoDeleteSubmit(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	if err := todoService.DeleteTodo(db, userID, id); err != nil {
		renderPageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/")
}

// TodoCheckDone completes a todo through the status workflow and returns to the referring page.
func TodoCheckDone(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	if _, err := todoService.UpdateStatus(db, userID, id, models.StatusCompleted); err != nil {
		renderPageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, refererPath(c))
}

func CalendarPage(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	calendar, err := dashboardService.GetCalendarData(db, userID)
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "todos_calendar.html", page(c, "Calendar", gin.H{"Calendar": calendar}))
}

func KanbanPage(c *gin.Context, db *database.Database, dashboardService services.DashboardServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	board, err := dashboardService.GetKanbanBoard(db, userID)
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "todos_kanban.html", page(c, "Kanban", gin.H{"Board": board}))
}
