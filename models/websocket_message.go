package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type WebSocketMessageType string

const EventMessage WebSocketMessageType = "event"

// StandardMessage is the envelope pushed to browser clients over the websocket.
type StandardMessage struct {
	ID        string               `json:"id"`
	Type      WebSocketMessageType `json:"type"`
	Event     string               `json:"event,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   json.RawMessage      `json:"payload,omitempty"`
	Entity    string               `json:"entity,omitempty"`
}

func NewStandardMessage(msgType WebSocketMessageType, event string, payload []byte) *StandardMessage {
	return &StandardMessage{
		ID:        uuid.New().String(),
		Type:      msgType,
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

func (m *StandardMessage) WithEntity(entity string) *StandardMessage {
	m.Entity = entity
	return m
}
