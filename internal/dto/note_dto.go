package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Content    string `json:"content" validate:"required"`
	CategoryId string `json:"category_id" validate:"required,uuid"`
}

type CategorySummary struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type QuestionResponse struct {
	Id            uuid.UUID `json:"id"`
	QuestionText  string    `json:"question_text"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectOption string    `json:"correct_option"`
}

type QASetResponse struct {
	Id        uuid.UUID          `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Questions []QuestionResponse `json:"questions"`
}

// NoteResponse is the full note row as clients see it, both over HTTP and
// on the push channel.
type NoteResponse struct {
	Id                  uuid.UUID        `json:"id"`
	UserId              uuid.UUID        `json:"user_id"`
	CategoryId          *uuid.UUID       `json:"category_id"`
	Content             string           `json:"content"`
	Summary             *string          `json:"summary"`
	KeyPoints           []string         `json:"key_points"`
	SummaryStatus       string           `json:"summary_status"`
	SummaryErrorMessage *string          `json:"summary_error_message"`
	QAStatus            string           `json:"qa_status"`
	QAErrorMessage      *string          `json:"qa_error_message"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Category            *CategorySummary `json:"category,omitempty"`
	QASets              []QASetResponse  `json:"qa_sets"`
}

type NoteEnvelope struct {
	Note NoteResponse `json:"note"`
}

type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}
