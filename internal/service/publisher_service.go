package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// SummarizeNoteMessage asks a consumer to run the summarization job.
type SummarizeNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
	UserId uuid.UUID `json:"user_id"`
}

type IPublisherService interface {
	PublishSummarize(ctx context.Context, msg SummarizeNoteMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishSummarize(ctx context.Context, msg SummarizeNoteMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	m := message.NewMessage(watermill.NewUUID(), payload)
	m.SetContext(ctx)
	return ps.publisher.Publish(ps.topicName, m)
}
