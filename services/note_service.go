package services

import (
	"errors"
	"fmt"

	"smartapp-notes/smartapp/broker"
	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteServiceInterface interface {
	ListNotes(db *database.Database, ownerID uuid.UUID) ([]models.Note, error)
	GetNote(db *database.Database, ownerID uuid.UUID, id uint) (models.Note, error)
	CreateNote(db *database.Database, ownerID uuid.UUID, input forms.NoteInput) (models.Note, error)
	UpdateNote(db *database.Database, ownerID uuid.UUID, id uint, input forms.NoteInput) (models.Note, error)
	DeleteNote(db *database.Database, ownerID uuid.UUID, id uint) error
}

type NoteService struct{}

func (s *NoteService) ListNotes(db *database.Database, ownerID uuid.UUID) ([]models.Note, error) {
	var notes []models.Note
	if err := db.DB.Where("user_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) GetNote(db *database.Database, ownerID uuid.UUID, id uint) (models.Note, error) {
	return findNote(db.DB, ownerID, id)
}

func findNote(tx *gorm.DB, ownerID uuid.UUID, id uint) (models.Note, error) {
	var note models.Note
	if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

func (s *NoteService) CreateNote(db *database.Database, ownerID uuid.UUID, input forms.NoteInput) (models.Note, error) {
	valid, err := forms.ValidateNote(input)
	if err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		UserID:  ownerID,
		Title:   valid.Title,
		Content: valid.Content,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}

	if err := recordEvent(tx, broker.NoteCreated, "note", "create", ownerID, noteEventData(note)); err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (s *NoteService) UpdateNote(db *database.Database, ownerID uuid.UUID, id uint, input forms.NoteInput) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := findNote(tx, ownerID, id)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	valid, err := forms.ValidateNote(input)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}
	note.Title = valid.Title
	note.Content = valid.Content

	if err := tx.Model(&note).Select("title", "content", "updated_at").Updates(&note).Error; err != nil {
		tx.Rollback()
		return models.Note{}, fmt.Errorf("update note: %w", err)
	}

	if err := recordEvent(tx, broker.NoteUpdated, "note", "update", ownerID, noteEventData(note)); err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (s *NoteService) DeleteNote(db *database.Database, ownerID uuid.UUID, id uint) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	note, err := findNote(tx, ownerID, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&note).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete note: %w", err)
	}

	if err := recordEvent(tx, broker.NoteDeleted, "note", "delete", ownerID, map[string]interface{}{
		"id":      note.ID,
		"user_id": note.UserID.String(),
	}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func noteEventData(note models.Note) map[string]interface{} {
	return map[string]interface{}{
		"id":         note.ID,
		"user_id":    note.UserID.String(),
		"title":      note.Title,
		"created_at": note.CreatedAt,
		"updated_at": note.UpdatedAt,
	}
}

var NoteServiceInstance NoteServiceInterface = &NoteService{}
