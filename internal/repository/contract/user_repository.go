package contract

import (
	"context"
	"time"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	CreateResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindValidResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id uuid.UUID) error
}
