package contract

import (
	"context"

	"learnflow-be/internal/entity"

	"github.com/google/uuid"
)

type QASetRepository interface {
	Create(ctx context.Context, set *entity.QASet) error
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
}

type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []*entity.Question) error
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
}
