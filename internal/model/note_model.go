package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}

type Note struct {
	Id                  uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserId              uuid.UUID                   `gorm:"type:uuid;not null;index:idx_notes_user_category,priority:1"`
	CategoryId          *uuid.UUID                  `gorm:"type:uuid;index:idx_notes_user_category,priority:2"`
	Content             string                      `gorm:"type:text;not null"`
	Summary             *string                     `gorm:"type:text"`
	KeyPoints           datatypes.JSONSlice[string] `gorm:"column:key_points"`
	SummaryStatus       string                      `gorm:"column:summary_status;type:varchar(20);not null;default:'pending';index;check:summary_status IN ('pending','processing','completed','failed')"`
	SummaryErrorMessage *string                     `gorm:"column:summary_error_message;type:text"`
	SummaryStartedAt    *time.Time                  `gorm:"column:summary_started_at"`
	QAStatus            string                      `gorm:"column:qa_status;type:varchar(20);not null;default:'idle';index;check:qa_status IN ('idle','processing','completed','failed')"`
	QAErrorMessage      *string                     `gorm:"column:qa_error_message;type:text"`
	QAStartedAt         *time.Time                  `gorm:"column:qa_started_at"`
	CreatedAt           time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt           time.Time                   `gorm:"autoUpdateTime"`

	Category *Category `gorm:"foreignKey:CategoryId;constraint:OnDelete:SET NULL"`
	QASets   []QASet   `gorm:"foreignKey:NoteId;constraint:OnDelete:CASCADE"`
}

func (Note) TableName() string {
	return "notes"
}

type QASet struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Questions []Question `gorm:"foreignKey:QASetId;constraint:OnDelete:CASCADE"`
}

func (QASet) TableName() string {
	return "qa_sets"
}

type Question struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	QASetId       uuid.UUID `gorm:"column:qa_set_id;type:uuid;not null;index"`
	Position      int       `gorm:"not null;default:0"`
	QuestionText  string    `gorm:"type:text;not null"`
	OptionA       string    `gorm:"column:option_a;type:text;not null"`
	OptionB       string    `gorm:"column:option_b;type:text;not null"`
	OptionC       string    `gorm:"column:option_c;type:text;not null"`
	OptionD       string    `gorm:"column:option_d;type:text;not null"`
	CorrectOption string    `gorm:"type:char(1);not null;check:correct_option IN ('A','B','C','D')"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Question) TableName() string {
	return "questions"
}
