package unitofwork

import (
	"context"

	"learnflow-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CategoryRepository() contract.CategoryRepository
	NoteRepository() contract.NoteRepository
	QASetRepository() contract.QASetRepository
	QuestionRepository() contract.QuestionRepository
}
