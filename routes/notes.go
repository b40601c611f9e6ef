package routes

import (
	"net/http"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/services"

	"github.com/gin-gonic/gin"
)

func RegisterNoteRoutes(group *gin.RouterGroup, db *database.Database, noteService services.NoteServiceInterface) {
	group.GET("/notes", func(c *gin.Context) { GetNotes(c, db, noteService) })
	group.POST("/notes", func(c *gin.Context) { CreateNote(c, db, noteService) })

	group.GET("/notes/:id", func(c *gin.Context) { GetNoteById(c, db, noteService) })
	group.PUT("/notes/:id", func(c *gin.Context) { UpdateNote(c, db, noteService) })
	group.DELETE("/notes/:id", func(c *gin.Context) { DeleteNote(c, db, noteService) })
}

func GetNotes(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	notes, err := noteService.ListNotes(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func CreateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input forms.NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := noteService.CreateNote(db, userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func GetNoteById(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := apiID(c)
	if !ok {
		return
	}

	note, err := noteService.GetNote(db, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func UpdateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := apiID(c)
	if !ok {
		return
	}

	var input forms.NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := noteService.UpdateNote(db, userID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func DeleteNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := apiID(c)
	if !ok {
		return
	}

	if err := noteService.DeleteNote(db, userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
