package dto

import "github.com/google/uuid"

type SummarizeResponse struct {
	Success bool      `json:"success"`
	NoteId  uuid.UUID `json:"noteId"`
	Summary string    `json:"summary"`
}

type GenerateQAResponse struct {
	Success bool      `json:"success"`
	NoteId  uuid.UUID `json:"noteId"`
	Message string    `json:"message"`
}

// SummaryPayload is the structured model output for a summary.
type SummaryPayload struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints" validate:"required"`
	WordCount int      `json:"wordCount" validate:"gte=0"`
}

type GeneratedOptions struct {
	A string `json:"A" validate:"required"`
	B string `json:"B" validate:"required"`
	C string `json:"C" validate:"required"`
	D string `json:"D" validate:"required"`
}

type GeneratedQuestion struct {
	Question      string           `json:"question" validate:"required"`
	Options       GeneratedOptions `json:"options"`
	CorrectOption string           `json:"correct_option" validate:"required,oneof=A B C D"`
}

// GeneratedQAPayload is the structured model output for a question set.
type GeneratedQAPayload struct {
	Questions []GeneratedQuestion `json:"questions" validate:"min=3,max=5,dive"`
}
