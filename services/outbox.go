package services

import (
	"smartapp-notes/smartapp/broker"
	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recordEvent writes an outbox row inside tx so it commits or rolls back with the change.
func recordEvent(tx *gorm.DB, eventType broker.EventType, entity, operation string, actor uuid.UUID, data interface{}) error {
	event, err := models.NewEvent(string(eventType), entity, operation, actor.String(), data)
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}
