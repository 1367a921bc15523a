package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"learnflow-be/internal/dto"
	"learnflow-be/internal/pkg/apperr"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSummarizer struct {
	mu    sync.Mutex
	calls []SummarizeNoteMessage
	err   error
}

func (s *recordingSummarizer) Summarize(ctx context.Context, userId, noteId uuid.UUID) (*dto.SummarizeResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, SummarizeNoteMessage{NoteId: noteId, UserId: userId})
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SummarizeResponse{Success: true, NoteId: noteId}, nil
}

func (s *recordingSummarizer) seen() []SummarizeNoteMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SummarizeNoteMessage(nil), s.calls...)
}

func startConsumer(t *testing.T, summarizer ISummaryService) IPublisherService {
	t.Helper()
	// Persistent so messages published before Subscribe are not dropped.
	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	consumer := NewConsumerService(pubSub, "SUMMARIZE_NOTE", summarizer, nopLogger())
	go func() { done <- consumer.Consume(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return NewPublisherService("SUMMARIZE_NOTE", pubSub)
}

func TestConsumerRunsSummarizationForPublishedNotes(t *testing.T) {
	summarizer := &recordingSummarizer{}
	publisher := startConsumer(t, summarizer)

	msg := SummarizeNoteMessage{NoteId: uuid.New(), UserId: uuid.New()}
	require.NoError(t, publisher.PublishSummarize(context.Background(), msg))

	require.Eventually(t, func() bool {
		for _, seen := range summarizer.seen() {
			if seen == msg {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsumerKeepsGoingAfterFailedJob(t *testing.T) {
	summarizer := &recordingSummarizer{err: apperr.UpstreamAI("AI down", nil)}
	publisher := startConsumer(t, summarizer)

	first := SummarizeNoteMessage{NoteId: uuid.New(), UserId: uuid.New()}
	second := SummarizeNoteMessage{NoteId: uuid.New(), UserId: uuid.New()}
	require.NoError(t, publisher.PublishSummarize(context.Background(), first))
	require.NoError(t, publisher.PublishSummarize(context.Background(), second))

	require.Eventually(t, func() bool {
		return len(summarizer.seen()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []SummarizeNoteMessage{first, second}, summarizer.seen())
}
