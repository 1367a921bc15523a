package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NoteContentMinLength = 300
	NoteContentMaxLength = 10000
)

type Category struct {
	Id          uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Note struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	CategoryId          *uuid.UUID
	Content             string
	Summary             *string
	KeyPoints           []string
	SummaryStatus       SummaryStatus
	SummaryErrorMessage *string
	SummaryStartedAt    *time.Time
	QAStatus            QAStatus
	QAErrorMessage      *string
	QAStartedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Category *Category
	QASets   []*QASet
}

// QASet is the generated question set of a note. A note has at most one.
type QASet struct {
	Id        uuid.UUID
	NoteId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	Questions []*Question
}

type Question struct {
	Id            uuid.UUID
	QASetId       uuid.UUID
	Position      int
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
