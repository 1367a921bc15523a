package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// NoteUpdated announces that a note row changed and should be re-read.
	NoteUpdated = "NOTE_UPDATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_UPDATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewNoteUpdated carries only identifiers; consumers load the current row so
// a late event can never deliver stale content.
func NewNoteUpdated(userID, noteID uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: NoteUpdated,
		Data: map[string]interface{}{
			"user_id": userID.String(),
			"note_id": noteID.String(),
		},
		OccurredAt: time.Now(),
	}
}

// NoteRef extracts the identifiers of a NOTE_UPDATED payload.
func NoteRef(e Event) (userID, noteID uuid.UUID, err error) {
	data := e.Payload()
	rawUser, _ := data["user_id"].(string)
	rawNote, _ := data["note_id"].(string)
	if userID, err = uuid.Parse(rawUser); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if noteID, err = uuid.Parse(rawNote); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, noteID, nil
}
