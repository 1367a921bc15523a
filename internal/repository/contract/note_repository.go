package contract

import (
	"context"
	"time"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

// NoteRepository writes status columns per axis. None of the status methods
// touch the other axis, so a summary write can never clobber Q&A state.
//
// The bool results report whether the guarded row was actually updated.
type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)

	// ClaimSummary moves any non-processing summary to processing and clears
	// the previous error, in one conditional statement.
	ClaimSummary(ctx context.Context, id, userId uuid.UUID, at time.Time) (bool, error)
	CompleteSummary(ctx context.Context, id uuid.UUID, summary string, keyPoints []string) (bool, error)
	FailSummary(ctx context.Context, id uuid.UUID, message string) (bool, error)
	// FailStaleSummary fails a run only if it was claimed before cutoff.
	FailStaleSummary(ctx context.Context, id uuid.UUID, message string, cutoff time.Time) (bool, error)

	ClaimQA(ctx context.Context, id, userId uuid.UUID, at time.Time) (bool, error)
	CompleteQA(ctx context.Context, id uuid.UUID) (bool, error)
	FailQA(ctx context.Context, id uuid.UUID, message string) (bool, error)
	FailStaleQA(ctx context.Context, id uuid.UUID, message string, cutoff time.Time) (bool, error)
}
