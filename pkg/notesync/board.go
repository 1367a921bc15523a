// Package notesync folds pushed note rows into a client-side list.
package notesync

import (
	"sync"

	"learnflow-be/internal/dto"
	"learnflow-be/internal/entity"

	"github.com/google/uuid"
)

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

type Toast struct {
	NoteId  uuid.UUID
	Job     entity.Job
	Level   ToastLevel
	Message string
}

var toastMessages = map[entity.Job]map[string]Toast{
	entity.JobSummary: {
		"completed": {Level: ToastSuccess, Message: "Note summary generated successfully"},
		"failed":    {Level: ToastError, Message: "Summary generation failed. You can retry it from the note."},
	},
	entity.JobQA: {
		"completed": {Level: ToastSuccess, Message: "Study questions are ready"},
		"failed":    {Level: ToastError, Message: "Question generation failed. You can retry it from the note."},
	},
}

// Board is the list of notes a client is showing. It is safe for
// concurrent use by the push reader and the UI.
type Board struct {
	mu    sync.RWMutex
	notes []dto.NoteResponse
}

func NewBoard(notes []dto.NoteResponse) *Board {
	b := &Board{}
	b.Replace(notes)
	return b
}

// Replace swaps in a freshly fetched list.
func (b *Board) Replace(notes []dto.NoteResponse) {
	cp := make([]dto.NoteResponse, len(notes))
	copy(cp, notes)

	b.mu.Lock()
	b.notes = cp
	b.mu.Unlock()
}

func (b *Board) Notes() []dto.NoteResponse {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cp := make([]dto.NoteResponse, len(b.notes))
	copy(cp, b.notes)
	return cp
}

func (b *Board) Get(id uuid.UUID) (dto.NoteResponse, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, n := range b.notes {
		if n.Id == id {
			return n, true
		}
	}
	return dto.NoteResponse{}, false
}

func (b *Board) Remove(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, n := range b.notes {
		if n.Id == id {
			b.notes = append(b.notes[:i], b.notes[i+1:]...)
			return
		}
	}
}

// Apply replaces the note with the same id. Notes the board does not show
// are ignored. It returns one toast for every axis that has just moved into
// completed or failed, summary first.
func (b *Board) Apply(note dto.NoteResponse) []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, prev := range b.notes {
		if prev.Id != note.Id {
			continue
		}
		b.notes[i] = note

		var toasts []Toast
		if t := transitionToast(entity.JobSummary, note.Id, prev.SummaryStatus, note.SummaryStatus); t != nil {
			toasts = append(toasts, *t)
		}
		if t := transitionToast(entity.JobQA, note.Id, prev.QAStatus, note.QAStatus); t != nil {
			toasts = append(toasts, *t)
		}
		return toasts
	}
	return nil
}

func transitionToast(job entity.Job, noteId uuid.UUID, from, to string) *Toast {
	if from == to {
		return nil
	}
	t, ok := toastMessages[job][to]
	if !ok {
		return nil
	}
	t.NoteId = noteId
	t.Job = job
	return &t
}
