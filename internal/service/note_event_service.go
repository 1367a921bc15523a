package service

import (
	"context"
	"encoding/json"
	"fmt"

	"learnflow-be/internal/mapper"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/repository/specification"
	"learnflow-be/internal/repository/unitofwork"
	"learnflow-be/pkg/events"
	pktNats "learnflow-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	RealtimeSourceNats     = "nats"
	RealtimeSourcePostgres = "postgres"
	RealtimeSourceLocal    = "local"

	// NoteUpdatedMessage is the frame type clients receive.
	NoteUpdatedMessage = "note_updated"
)

// INoteEventService announces note row changes and pushes the fresh row to
// the owner's connections.
type INoteEventService interface {
	NoteChanged(ctx context.Context, userId, noteId uuid.UUID)
	Run(ctx context.Context) error
}

// NoteDelivery is implemented by websocket.Hub.
type NoteDelivery interface {
	SendLocal(userID uuid.UUID, msgType string, data interface{}) error
	Send(ctx context.Context, userID uuid.UUID, msgType string, data interface{}) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// ChangeListener is implemented by pgnotify.Listener.
type ChangeListener interface {
	Listen(ctx context.Context, handler func(ctx context.Context, payload string) error) error
}

type NoteEventOptions struct {
	Source string

	// nats source
	Publisher   EventPublisher
	Subscriber  EventSubscriber
	DurableName string

	// postgres source
	Listener ChangeListener
}

type noteEventService struct {
	opts       NoteEventOptions
	uowFactory unitofwork.RepositoryFactory
	delivery   NoteDelivery
	logger     logger.ILogger
}

func NewNoteEventService(
	opts NoteEventOptions,
	uowFactory unitofwork.RepositoryFactory,
	delivery NoteDelivery,
	log logger.ILogger,
) (INoteEventService, error) {
	switch opts.Source {
	case RealtimeSourceNats:
		if opts.Publisher == nil || opts.Subscriber == nil {
			return nil, fmt.Errorf("realtime source %q needs a NATS publisher and subscriber", opts.Source)
		}
		if opts.DurableName == "" {
			opts.DurableName = "note-updates-" + uuid.NewString()
		}
	case RealtimeSourcePostgres:
		if opts.Listener == nil {
			return nil, fmt.Errorf("realtime source %q needs a change listener", opts.Source)
		}
	case RealtimeSourceLocal:
	default:
		return nil, fmt.Errorf("unknown realtime source %q", opts.Source)
	}

	return &noteEventService{
		opts:       opts,
		uowFactory: uowFactory,
		delivery:   delivery,
		logger:     log,
	}, nil
}

// NoteChanged never fails the caller. Push is best effort; clients
// refetch on reconnect.
func (s *noteEventService) NoteChanged(ctx context.Context, userId, noteId uuid.UUID) {
	ctx = context.WithoutCancel(ctx)

	switch s.opts.Source {
	case RealtimeSourceNats:
		if err := s.opts.Publisher.Publish(ctx, events.NewNoteUpdated(userId, noteId)); err != nil {
			s.logger.Warn("REALTIME", "Failed to publish note update", map[string]interface{}{
				"note_id": noteId,
				"error":   err.Error(),
			})
		}
	case RealtimeSourcePostgres:
		// The notes trigger announces every write.
	default:
		if err := s.push(ctx, userId, noteId, false); err != nil {
			s.logger.Warn("REALTIME", "Failed to push note update", map[string]interface{}{
				"note_id": noteId,
				"error":   err.Error(),
			})
		}
	}
}

// Run feeds the hub until ctx is cancelled.
func (s *noteEventService) Run(ctx context.Context) error {
	switch s.opts.Source {
	case RealtimeSourceNats:
		err := s.opts.Subscriber.Subscribe(ctx, pktNats.Subject(events.NoteUpdated), s.opts.DurableName,
			func(ctx context.Context, event events.Event) error {
				userId, noteId, err := events.NoteRef(event)
				if err != nil {
					s.logger.Warn("REALTIME", "Ignoring malformed note event", map[string]interface{}{"error": err.Error()})
					return nil
				}
				return s.push(ctx, userId, noteId, true)
			})
		if err != nil {
			return err
		}
		<-ctx.Done()
		return nil

	case RealtimeSourcePostgres:
		return s.opts.Listener.Listen(ctx, func(ctx context.Context, payload string) error {
			var ref struct {
				UserID uuid.UUID `json:"user_id"`
				NoteID uuid.UUID `json:"note_id"`
			}
			if err := json.Unmarshal([]byte(payload), &ref); err != nil {
				s.logger.Warn("REALTIME", "Ignoring malformed notification", map[string]interface{}{
					"payload": payload,
					"error":   err.Error(),
				})
				return nil
			}
			return s.push(ctx, ref.UserID, ref.NoteID, true)
		})

	default:
		<-ctx.Done()
		return nil
	}
}

// push loads the current row so a late event never delivers stale state.
// Sources that already reach every instance deliver locally only.
func (s *noteEventService) push(ctx context.Context, userId, noteId uuid.UUID, localOnly bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.NoteOwnedByUser{UserID: userId},
		specification.WithCategory{},
		specification.WithQuestionSets{},
	)
	if err != nil {
		return fmt.Errorf("load note %s: %w", noteId, err)
	}
	if note == nil {
		// Deleted since the event was raised.
		return nil
	}

	payload := mapper.NoteToResponse(note)
	if localOnly {
		return s.delivery.SendLocal(userId, NoteUpdatedMessage, payload)
	}
	return s.delivery.Send(ctx, userId, NoteUpdatedMessage, payload)
}
