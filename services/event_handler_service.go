package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"smartapp-notes/smartapp/broker"
	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/logger"
	"smartapp-notes/smartapp/models"
)

const eventBatchSize = 100

type EventHandlerServiceInterface interface {
	Start(ctx context.Context)
	Stop()
	ProcessPendingEvents() int
}

// EventHandlerService drains the outbox table and hands each event to the publisher.
// Delivery is at least once: an event is marked dispatched only after Publish succeeds.
type EventHandlerService struct {
	db        *database.Database
	publisher broker.Publisher
	log       *logger.Logger
	interval  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewEventHandlerService(db *database.Database, publisher broker.Publisher, log *logger.Logger, interval time.Duration) *EventHandlerService {
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &EventHandlerService{
		db:        db,
		publisher: publisher,
		log:       logger.OrNop(log).WithComponent("event_handler"),
		interval:  interval,
	}
}

func (s *EventHandlerService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

func (s *EventHandlerService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *EventHandlerService) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ProcessPendingEvents()
		}
	}
}

// ProcessPendingEvents dispatches one batch of undispatched events in insertion order
// and returns how many were published.
func (s *EventHandlerService) ProcessPendingEvents() int {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).
		Order("timestamp ASC").
		Limit(eventBatchSize).
		Find(&events).Error; err != nil {
		s.log.Errorw("failed to fetch pending events", "error", err)
		return 0
	}

	if len(events) > 0 {
		s.log.Debugw("processing pending events", "count", len(events))
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			s.log.Warnw("failed to dispatch event", "event_id", event.ID, "event", event.Event, "error", err)
			continue
		}
		dispatched++
	}
	return dispatched
}

func (s *EventHandlerService) dispatchEvent(event models.Event) error {
	var data map[string]interface{}
	if err := json.Unmarshal(event.Data, &data); err != nil {
		s.log.Warnw("could not decode event data", "event_id", event.ID, "error", err)
		data = make(map[string]interface{})
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type": event.Event,
		"payload": map[string]interface{}{
			"event_id":  event.ID.String(),
			"timestamp": event.Timestamp,
			"type":      event.Event,
			"entity":    event.Entity,
			"operation": event.Operation,
			"data":      data,
		},
	})
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(broker.Message{
		Subject: broker.SubjectForEntity(event.Entity),
		ActorID: event.ActorID,
		Entity:  event.Entity,
		Data:    payload,
	}); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.DB.Model(&event).Updates(map[string]interface{}{
		"dispatched":    true,
		"dispatched_at": now,
		"status":        models.EventStatusCompleted,
	}).Error
}
