package mapper

import (
	"learnflow-be/internal/entity"
	"learnflow-be/internal/model"

	"gorm.io/datatypes"
)

type NoteMapper struct {
	category *CategoryMapper
	qaSet    *QASetMapper
}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{
		category: NewCategoryMapper(),
		qaSet:    NewQASetMapper(),
	}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var keyPoints []string
	if n.KeyPoints != nil {
		keyPoints = []string(n.KeyPoints)
	}

	var sets []*entity.QASet
	if len(n.QASets) > 0 {
		sets = make([]*entity.QASet, len(n.QASets))
		for i := range n.QASets {
			sets[i] = m.qaSet.ToEntity(&n.QASets[i])
		}
	}

	return &entity.Note{
		Id:                  n.Id,
		UserId:              n.UserId,
		CategoryId:          n.CategoryId,
		Content:             n.Content,
		Summary:             n.Summary,
		KeyPoints:           keyPoints,
		SummaryStatus:       summaryStatus(n.SummaryStatus),
		SummaryErrorMessage: n.SummaryErrorMessage,
		SummaryStartedAt:    n.SummaryStartedAt,
		QAStatus:            qaStatus(n.QAStatus),
		QAErrorMessage:      n.QAErrorMessage,
		QAStartedAt:         n.QAStartedAt,
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           n.UpdatedAt,
		Category:            m.category.ToEntity(n.Category),
		QASets:              sets,
	}
}

// Rows written before a status column existed read back as the initial state.
func summaryStatus(v string) entity.SummaryStatus {
	s, err := entity.ParseSummaryStatus(v)
	if err != nil {
		return entity.SummaryStatusPending
	}
	return s
}

func qaStatus(v string) entity.QAStatus {
	s, err := entity.ParseQAStatus(v)
	if err != nil {
		return entity.QAStatusIdle
	}
	return s
}

// ToModel maps the note row only; relations are written by their own repositories.
func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var keyPoints datatypes.JSONSlice[string]
	if n.KeyPoints != nil {
		keyPoints = datatypes.JSONSlice[string](n.KeyPoints)
	}

	return &model.Note{
		Id:                  n.Id,
		UserId:              n.UserId,
		CategoryId:          n.CategoryId,
		Content:             n.Content,
		Summary:             n.Summary,
		KeyPoints:           keyPoints,
		SummaryStatus:       string(n.SummaryStatus),
		SummaryErrorMessage: n.SummaryErrorMessage,
		SummaryStartedAt:    n.SummaryStartedAt,
		QAStatus:            string(n.QAStatus),
		QAErrorMessage:      n.QAErrorMessage,
		QAStartedAt:         n.QAStartedAt,
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           n.UpdatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

type CategoryMapper struct{}

func NewCategoryMapper() *CategoryMapper {
	return &CategoryMapper{}
}

func (m *CategoryMapper) ToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	return &entity.Category{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *CategoryMapper) ToModel(c *entity.Category) *model.Category {
	if c == nil {
		return nil
	}
	return &model.Category{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *CategoryMapper) ToEntities(categories []*model.Category) []*entity.Category {
	entities := make([]*entity.Category, len(categories))
	for i, c := range categories {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
