package specification

import (
	"time"

	"learnflow-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteOwnedByUser struct {
	UserID uuid.UUID
}

func (s NoteOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.user_id = ?", s.UserID)
}

type ByCategoryID struct {
	CategoryID uuid.UUID
}

func (s ByCategoryID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.category_id = ?", s.CategoryID)
}

type ByNoteID struct {
	NoteID uuid.UUID
}

func (s ByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}

type WithCategory struct{}

func (s WithCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}

// WithQuestionSets loads each note's sets with questions in generated order.
type WithQuestionSets struct{}

func (s WithQuestionSets) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("QASets").Preload("QASets.Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// SummaryStuckSince matches summaries claimed before Cutoff and never finished.
type SummaryStuckSince struct {
	Cutoff time.Time
}

func (s SummaryStuckSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("summary_status = ? AND summary_started_at < ?", entity.SummaryStatusProcessing, s.Cutoff)
}

type QAStuckSince struct {
	Cutoff time.Time
}

func (s QAStuckSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("qa_status = ? AND qa_started_at < ?", entity.QAStatusProcessing, s.Cutoff)
}
