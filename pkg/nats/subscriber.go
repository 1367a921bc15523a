package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"learnflow-be/internal/pkg/logger"
	"learnflow-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber handles listening for events from NATS.
type Subscriber struct {
	js     jetstream.JetStream
	logger logger.ILogger

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
}

func NewSubscriber(nc *nats.Conn, log logger.ILogger) (*Subscriber, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return &Subscriber{js: js, logger: log}, nil
}

// Subscribe registers a handler behind a durable consumer. Each server
// instance passes its own durable name so every instance sees every event.
func (s *Subscriber) Subscribe(ctx context.Context, subject, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:           durableName,
		FilterSubject:     subject,
		AckPolicy:         jetstream.AckExplicitPolicy,
		DeliverPolicy:     jetstream.DeliverNewPolicy,
		InactiveThreshold: 10 * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		var payload map[string]interface{}
		if err := json.Unmarshal(msg.Data(), &payload); err != nil {
			s.logger.Warn("NATS", "Dropping undecodable event", map[string]interface{}{
				"subject": msg.Subject(),
				"error":   err.Error(),
			})
			_ = msg.Term()
			return
		}

		event := events.BaseEvent{
			Type:       strings.TrimPrefix(msg.Subject(), SubjectPrefix+"."),
			Data:       payload,
			OccurredAt: time.Now(),
		}
		if meta, err := msg.Metadata(); err == nil {
			event.OccurredAt = meta.Timestamp
		}

		if err := handler(context.Background(), event); err != nil {
			s.logger.Error("NATS", "Handler failed", map[string]interface{}{
				"subject": msg.Subject(),
				"error":   err.Error(),
			})
			_ = msg.Nak()
			return
		}

		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.mu.Lock()
	s.consumes = append(s.consumes, cc)
	s.mu.Unlock()

	s.logger.Info("NATS", "Subscribed", map[string]interface{}{
		"subject": subject,
		"durable": durableName,
	})
	return nil
}

// Close stops every consumer started by this subscriber.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cc := range s.consumes {
		cc.Stop()
	}
	s.consumes = nil
}
