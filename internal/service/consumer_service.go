package service

import (
	"context"
	"encoding/json"
	"sync"

	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IConsumerService runs detached summarization jobs dispatched at note
// creation.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber     message.Subscriber
	topicName      string
	summaryService ISummaryService
	logger         logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	summaryService ISummaryService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		summaryService: summaryService,
		logger:         log,
	}
}

// Consume processes messages until ctx is cancelled, then waits for the
// jobs it started.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for msg := range messages {
		payload, ok := cs.decode(msg)
		// Acked up front so one slow AI call does not hold back the topic.
		// The job records its own outcome on the note.
		msg.Ack()
		if !ok {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			cs.summarize(ctx, payload)
		}()
	}
	wg.Wait()
	return nil
}

func (cs *consumerService) decode(msg *message.Message) (SummarizeNoteMessage, bool) {
	var payload SummarizeNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return payload, false
	}
	return payload, true
}

func (cs *consumerService) summarize(ctx context.Context, payload SummarizeNoteMessage) {
	_, err := cs.summaryService.Summarize(context.WithoutCancel(ctx), payload.UserId, payload.NoteId)
	if err == nil {
		return
	}

	// Conflicts and missing notes are expected when the user raced us.
	switch apperr.KindOf(err) {
	case apperr.KindConflict, apperr.KindNotFound:
		cs.logger.Info("CONSUMER", "Skipped summarization", map[string]interface{}{
			"note_id": payload.NoteId,
			"reason":  err.Error(),
		})
	default:
		cs.logger.Warn("CONSUMER", "Summarization ended in failure", map[string]interface{}{
			"note_id": payload.NoteId,
			"error":   err.Error(),
		})
	}
}
