package mapper

import (
	"testing"
	"time"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteMapperToEntityCarriesRelations(t *testing.T) {
	categoryID := uuid.New()
	setID := uuid.New()
	m := &model.Note{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		CategoryId:    &categoryID,
		Content:       "content",
		KeyPoints:     []string{"one", "two"},
		SummaryStatus: "completed",
		QAStatus:      "completed",
		CreatedAt:     time.Now(),
		Category:      &model.Category{Id: categoryID, Name: "Biology"},
		QASets: []model.QASet{{
			Id: setID,
			Questions: []model.Question{
				{Id: uuid.New(), QASetId: setID, Position: 0, QuestionText: "Q1", CorrectOption: "B"},
			},
		}},
	}

	e := NewNoteMapper().ToEntity(m)

	assert.Equal(t, entity.SummaryStatusCompleted, e.SummaryStatus)
	assert.Equal(t, entity.QAStatusCompleted, e.QAStatus)
	assert.Equal(t, []string{"one", "two"}, e.KeyPoints)
	require.NotNil(t, e.Category)
	assert.Equal(t, "Biology", e.Category.Name)
	require.Len(t, e.QASets, 1)
	require.Len(t, e.QASets[0].Questions, 1)
	assert.Equal(t, "B", e.QASets[0].Questions[0].CorrectOption)
}

func TestNoteMapperNilKeyPointsStayNil(t *testing.T) {
	e := NewNoteMapper().ToEntity(&model.Note{SummaryStatus: "pending", QAStatus: "idle"})
	assert.Nil(t, e.KeyPoints)
	assert.Nil(t, e.Category)
	assert.Empty(t, e.QASets)

	back := NewNoteMapper().ToModel(e)
	assert.Nil(t, back.KeyPoints)
	assert.Equal(t, "pending", back.SummaryStatus)
}

func TestNoteMapperUnknownStatusReadsAsInitialState(t *testing.T) {
	e := NewNoteMapper().ToEntity(&model.Note{SummaryStatus: "", QAStatus: "queued"})
	assert.Equal(t, entity.SummaryStatusPending, e.SummaryStatus)
	assert.Equal(t, entity.QAStatusIdle, e.QAStatus)

	e = NewNoteMapper().ToEntity(&model.Note{SummaryStatus: "processing", QAStatus: "failed"})
	assert.Equal(t, entity.SummaryStatusProcessing, e.SummaryStatus)
	assert.Equal(t, entity.QAStatusFailed, e.QAStatus)
}
