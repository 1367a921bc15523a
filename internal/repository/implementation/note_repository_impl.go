package implementation

import (
	"context"
	"errors"
	"time"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/mapper"
	"learnflow-be/internal/model"
	"learnflow-be/internal/repository/contract"
	"learnflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const processing = "processing"

// statusAxis names the columns that belong to one job.
type statusAxis struct {
	status    string
	errorMsg  string
	startedAt string
}

var (
	summaryAxis = statusAxis{status: "summary_status", errorMsg: "summary_error_message", startedAt: "summary_started_at"}
	qaAxis      = statusAxis{status: "qa_status", errorMsg: "qa_error_message", startedAt: "qa_started_at"}
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Category", "QASets").Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Note{}, "id = ?", id).Error
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) claim(ctx context.Context, axis statusAxis, id, userId uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND user_id = ? AND "+axis.status+" <> ?", id, userId, processing).
		Updates(map[string]interface{}{
			axis.status:    processing,
			axis.errorMsg:  gorm.Expr("NULL"),
			axis.startedAt: at,
		})
	return res.RowsAffected == 1, res.Error
}

// finish only lands while the axis is still processing, so a late job
// cannot overwrite a row the janitor already failed.
func (r *NoteRepositoryImpl) finish(ctx context.Context, axis statusAxis, id uuid.UUID, values map[string]interface{}) (bool, error) {
	res := r.processing(ctx, axis, id).Updates(values)
	return res.RowsAffected == 1, res.Error
}

// failStale also requires the current run to have started before cutoff,
// so a run re-claimed after the row was found stale is left alone.
func (r *NoteRepositoryImpl) failStale(ctx context.Context, axis statusAxis, id uuid.UUID, message string, cutoff time.Time) (bool, error) {
	res := r.processing(ctx, axis, id).
		Where(axis.startedAt+" < ?", cutoff).
		Updates(map[string]interface{}{
			axis.status:   "failed",
			axis.errorMsg: message,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *NoteRepositoryImpl) processing(ctx context.Context, axis statusAxis, id uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND "+axis.status+" = ?", id, processing)
}

func (r *NoteRepositoryImpl) ClaimSummary(ctx context.Context, id, userId uuid.UUID, at time.Time) (bool, error) {
	return r.claim(ctx, summaryAxis, id, userId, at)
}

func (r *NoteRepositoryImpl) CompleteSummary(ctx context.Context, id uuid.UUID, summary string, keyPoints []string) (bool, error) {
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return r.finish(ctx, summaryAxis, id, map[string]interface{}{
		"summary":            summary,
		"key_points":         datatypes.JSONSlice[string](keyPoints),
		summaryAxis.status:   string(entity.SummaryStatusCompleted),
		summaryAxis.errorMsg: gorm.Expr("NULL"),
	})
}

func (r *NoteRepositoryImpl) FailSummary(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	return r.finish(ctx, summaryAxis, id, map[string]interface{}{
		summaryAxis.status:   string(entity.SummaryStatusFailed),
		summaryAxis.errorMsg: message,
	})
}

func (r *NoteRepositoryImpl) FailStaleSummary(ctx context.Context, id uuid.UUID, message string, cutoff time.Time) (bool, error) {
	return r.failStale(ctx, summaryAxis, id, message, cutoff)
}

func (r *NoteRepositoryImpl) ClaimQA(ctx context.Context, id, userId uuid.UUID, at time.Time) (bool, error) {
	return r.claim(ctx, qaAxis, id, userId, at)
}

func (r *NoteRepositoryImpl) CompleteQA(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.finish(ctx, qaAxis, id, map[string]interface{}{
		qaAxis.status:   string(entity.QAStatusCompleted),
		qaAxis.errorMsg: gorm.Expr("NULL"),
	})
}

func (r *NoteRepositoryImpl) FailQA(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	return r.finish(ctx, qaAxis, id, map[string]interface{}{
		qaAxis.status:   string(entity.QAStatusFailed),
		qaAxis.errorMsg: message,
	})
}

func (r *NoteRepositoryImpl) FailStaleQA(ctx context.Context, id uuid.UUID, message string, cutoff time.Time) (bool, error) {
	return r.failStale(ctx, qaAxis, id, message, cutoff)
}
