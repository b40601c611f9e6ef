package broker

import (
	"errors"
	"fmt"
	"time"

	"smartapp-notes/smartapp/logger"

	"github.com/nats-io/nats.go"
)

// Message is a dispatched outbox event as seen by publishers.
type Message struct {
	Subject string
	ActorID string
	Entity  string
	Data    []byte
}

type Publisher interface {
	Publish(msg Message) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(Message) error { return nil }

// MultiPublisher fans a message out to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(msg Message) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

type NatsPublisher struct {
	conn natsConn
	log  *logger.Logger
}

func ConnectNats(url string, log *logger.Logger) (*NatsPublisher, error) {
	log = logger.OrNop(log).WithComponent("nats")
	nc, err := nats.Connect(url,
		nats.Name("smartapp"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnw("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infow("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	log.Infow("nats publisher connected", "url", url)
	return &NatsPublisher{conn: nc, log: log}, nil
}

func (p *NatsPublisher) Publish(msg Message) error {
	if err := p.conn.Publish(msg.Subject, msg.Data); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.Subject, err)
	}
	p.log.Debugw("published message", "subject", msg.Subject, "bytes", len(msg.Data))
	return nil
}

func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}
