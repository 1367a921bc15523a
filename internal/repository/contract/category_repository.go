package contract

import (
	"context"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/repository/specification"
)

// CategoryRepository is read-only; categories are seeded by cmd/migrate.
type CategoryRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error)
}
