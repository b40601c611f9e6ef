package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventStatusPending   = "pending"
	EventStatusCompleted = "completed"
)

// Event is an outbox row written in the same transaction as the change it describes.
type Event struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Event        string          `gorm:"not null;index" json:"event"`
	Version      int             `gorm:"not null" json:"version"`
	Entity       string          `gorm:"not null" json:"entity"`
	Operation    string          `gorm:"not null" json:"operation"`
	ActorID      string          `gorm:"not null;index" json:"actor_id"`
	Timestamp    time.Time       `gorm:"not null" json:"timestamp"`
	Data         json.RawMessage `gorm:"type:json;not null" json:"data"`
	Status       string          `gorm:"not null;default:pending" json:"status"`
	Dispatched   bool            `gorm:"not null;index" json:"dispatched"`
	DispatchedAt *time.Time      `json:"dispatched_at,omitempty"`
}

func NewEvent(event, entity, operation, actorID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Event:     event,
		Version:   1,
		Entity:    entity,
		Operation: operation,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Data:      dataBytes,
		Status:    EventStatusPending,
	}, nil
}
