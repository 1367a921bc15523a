package implementation

import (
	"context"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/mapper"
	"learnflow-be/internal/model"
	"learnflow-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QASetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QASetMapper
}

func NewQASetRepository(db *gorm.DB) contract.QASetRepository {
	return &QASetRepositoryImpl{
		db:     db,
		mapper: mapper.NewQASetMapper(),
	}
}

func (r *QASetRepositoryImpl) Create(ctx context.Context, set *entity.QASet) error {
	m := r.mapper.ToModel(set)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Questions").Create(m).Error; err != nil {
		return err
	}
	set.Id = m.Id
	set.CreatedAt = m.CreatedAt
	set.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *QASetRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("note_id = ?", noteId).Delete(&model.QASet{}).Error
}

type QuestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuestionMapper
}

func NewQuestionRepository(db *gorm.DB) contract.QuestionRepository {
	return &QuestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuestionMapper(),
	}
}

func (r *QuestionRepositoryImpl) CreateBatch(ctx context.Context, questions []*entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	models := r.mapper.ToModels(questions)
	for _, m := range models {
		if m.Id == uuid.Nil {
			m.Id = uuid.New()
		}
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		questions[i].Id = m.Id
		questions[i].CreatedAt = m.CreatedAt
		questions[i].UpdatedAt = m.UpdatedAt
	}
	return nil
}

func (r *QuestionRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	sets := r.db.Model(&model.QASet{}).Select("id").Where("note_id = ?", noteId)
	return r.db.WithContext(ctx).Where("qa_set_id IN (?)", sets).Delete(&model.Question{}).Error
}
