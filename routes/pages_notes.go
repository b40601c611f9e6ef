package routes

import (
	"errors"
	"fmt"
	"net/http"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/middleware"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
)

func RegisterNotePages(group *gin.RouterGroup, db *database.Database, noteService services.NoteServiceInterface) {
	group.GET("/notes/", func(c *gin.Context) { NotesListPage(c, db, noteService) })
	group.GET("/notes/add/", NoteAddPage)
	group.POST("/notes/add/", func(c *gin.Context) { NoteAddSubmit(c, db, noteService) })
	group.GET("/notes/:id/", func(c *gin.Context) { NoteDetailPage(c, db, noteService) })
	group.GET("/notes/edit/:id/", func(c *gin.Context) { NoteEditPage(c, db, noteService) })
	group.POST("/notes/edit/:id/", func(c *gin.Context) { NoteEditSubmit(c, db, noteService) })
	group.GET("/notes/delete/:id/", func(c *gin.Context) { NoteDeletePage(c, db, noteService) })
	group.POST("/notes/delete/:id/", func(c *gin.Context) { NoteDeleteSubmit(c, db, noteService) })
}

func noteForm(c *gin.Context, status int, title, action string, values forms.NoteInput, fieldErrors map[string]string) {
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	c.HTML(status, "notes_form.html", page(c, title, gin.H{
		"Action": action,
		"Values": values,
		"Errors": fieldErrors,
	}))
}

func noteInputFromForm(c *gin.Context) forms.NoteInput {
	return forms.NoteInput{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
	}
}

func NotesListPage(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	notes, err := noteService.ListNotes(db, userID)
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "notes_list.html", page(c, "Notes", gin.H{"Notes": notes}))
}

func NoteAddPage(c *gin.Context) {
	noteForm(c, http.StatusOK, "Add note", "/notes/add/", forms.NoteInput{}, nil)
}

func NoteAddSubmit(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	input := noteInputFromForm(c)

	if _, err := noteService.CreateNote(db, userID, input); err != nil {
		if errors.Is(err, forms.ErrValidation) {
			noteForm(c, http.StatusOK, "Add note", "/notes/add/", input, forms.FieldErrors(err))
			return
		}
		renderPageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notes/")
}

func NoteDetailPage(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	note, err := noteService.GetNote(db, userID, id)
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "notes_detail.html", page(c, note.Title, gin.H{"Note": note}))
}

func NoteEditPage(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	note, err := noteService.GetNote(db, userID, id)
	if err != nil {
		renderPageError(c, err)
		return
	}
	values := forms.NoteInput{Title: note.Title, Content: note.Content}
	noteForm(c, http.StatusOK, "Edit note", fmt.Sprintf("/notes/edit/%d/", id), values, nil)
}

func NoteEditSubmit(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}
	input := noteInputFromForm(c)

	if _, err := noteService.UpdateNote(db, userID, id, input); err != nil {
		if errors.Is(err, forms.ErrValidation) {
			noteForm(c, http.StatusOK, "Edit note", fmt.Sprintf("/notes/edit/%d/", id), input, forms.FieldErrors(err))
			return
		}
		renderPageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notes/")
}

func NoteDeletePage(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	note, err := noteService.GetNote(db, userID, id)
	if err != nil {
		renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "confirm_delete.html", page(c, "Delete note", gin.H{
		"Kind":   "note",
		"Name":   note.Title,
		"Action": fmt.Sprintf("/notes/delete/%d/", id),
		"Cancel": "/notes/",
	}))
}

func NoteDeleteSubmit(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pageID(c)
	if !ok {
		return
	}

	if err := noteService.DeleteNote(db, userID, id); err != nil {
		renderPageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notes/")
}
