package dto

import (
	"time"

	"github.com/google/uuid"
)

type CategoryResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type CategoryEnvelope struct {
	Category CategoryResponse `json:"category"`
}
