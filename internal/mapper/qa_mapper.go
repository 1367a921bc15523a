package mapper

import (
	"learnflow-be/internal/entity"
	"learnflow-be/internal/model"
)

type QASetMapper struct {
	question *QuestionMapper
}

func NewQASetMapper() *QASetMapper {
	return &QASetMapper{question: NewQuestionMapper()}
}

func (m *QASetMapper) ToEntity(s *model.QASet) *entity.QASet {
	if s == nil {
		return nil
	}

	questions := make([]*entity.Question, len(s.Questions))
	for i := range s.Questions {
		questions[i] = m.question.ToEntity(&s.Questions[i])
	}

	return &entity.QASet{
		Id:        s.Id,
		NoteId:    s.NoteId,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Questions: questions,
	}
}

// ToModel leaves Questions empty so creating a set never cascades inserts.
func (m *QASetMapper) ToModel(s *entity.QASet) *model.QASet {
	if s == nil {
		return nil
	}
	return &model.QASet{
		Id:        s.Id,
		NoteId:    s.NoteId,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type QuestionMapper struct{}

func NewQuestionMapper() *QuestionMapper {
	return &QuestionMapper{}
}

func (m *QuestionMapper) ToEntity(q *model.Question) *entity.Question {
	if q == nil {
		return nil
	}
	return &entity.Question{
		Id:            q.Id,
		QASetId:       q.QASetId,
		Position:      q.Position,
		QuestionText:  q.QuestionText,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectOption: q.CorrectOption,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func (m *QuestionMapper) ToModel(q *entity.Question) *model.Question {
	if q == nil {
		return nil
	}
	return &model.Question{
		Id:            q.Id,
		QASetId:       q.QASetId,
		Position:      q.Position,
		QuestionText:  q.QuestionText,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectOption: q.CorrectOption,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func (m *QuestionMapper) ToModels(questions []*entity.Question) []*model.Question {
	models := make([]*model.Question, len(questions))
	for i, q := range questions {
		models[i] = m.ToModel(q)
	}
	return models
}
