package testutils

import (
	"encoding/json"
	"testing"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/models"
)

// PendingEvents returns the outbox rows not yet dispatched, oldest first.
func PendingEvents(t testing.TB, db *database.Database) []models.Event {
	t.Helper()
	var events []models.Event
	if err := db.DB.Where("dispatched = ?", false).Order("timestamp ASC").Find(&events).Error; err != nil {
		t.Fatalf("load events: %v", err)
	}
	return events
}

// EventTypes lists the event names of events in order.
func EventTypes(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Event)
	}
	return out
}

// EventData decodes the JSON payload of an outbox row.
func EventData(t testing.TB, e models.Event) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("decode event data: %v", err)
	}
	return data
}
