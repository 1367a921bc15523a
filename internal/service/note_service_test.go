package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"learnflow-be/internal/constant"
	"learnflow-be/internal/dto"
	"learnflow-be/internal/model"
	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	mu   sync.Mutex
	msgs []SummarizeNoteMessage
	err  error
}

func (p *capturingPublisher) PublishSummarize(ctx context.Context, msg SummarizeNoteMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestCreateNoteDispatchesSummarization(t *testing.T) {
	db, uowFactory := newTestDB(t)
	category := testutil.SeedCategory(t, db, "Biology")
	userId := uuid.New()

	publisher := &capturingPublisher{}
	svc := NewNoteService(uowFactory, publisher, nopLogger())

	res, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{
		Content:    testutil.Content(300),
		CategoryId: category.Id.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", res.Note.SummaryStatus)
	assert.Equal(t, "idle", res.Note.QAStatus)
	assert.Equal(t, userId, res.Note.UserId)
	require.NotNil(t, res.Note.Category)
	assert.Equal(t, "Biology", res.Note.Category.Name)
	assert.Empty(t, res.Note.QASets)

	require.Len(t, publisher.msgs, 1)
	assert.Equal(t, SummarizeNoteMessage{NoteId: res.Note.Id, UserId: userId}, publisher.msgs[0])

	stored := testutil.ReloadNote(t, db, res.Note.Id)
	assert.Equal(t, "pending", stored.SummaryStatus)
}

func TestCreateNoteSucceedsWhenDispatchFails(t *testing.T) {
	db, uowFactory := newTestDB(t)
	category := testutil.SeedCategory(t, db, "History")

	svc := NewNoteService(uowFactory, &capturingPublisher{err: errors.New("bus closed")}, nopLogger())

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{
		Content:    testutil.Content(1000),
		CategoryId: category.Id.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Note.SummaryStatus)
}

func TestCreateNoteValidation(t *testing.T) {
	db, uowFactory := newTestDB(t)
	category := testutil.SeedCategory(t, db, "Physics")

	cases := []struct {
		name       string
		content    string
		categoryId string
		message    string
	}{
		{"too short", testutil.Content(299), category.Id.String(), constant.MsgNoteContentLength},
		{"too long", testutil.Content(10001), category.Id.String(), constant.MsgNoteContentLength},
		{"unknown category", testutil.Content(400), uuid.NewString(), constant.MsgInvalidCategory},
	}

	publisher := &capturingPublisher{}
	svc := NewNoteService(uowFactory, publisher, nopLogger())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{
				Content:    tc.content,
				CategoryId: tc.categoryId,
			})
			appErr, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}

	var count int64
	require.NoError(t, db.Model(&model.Note{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, publisher.msgs)
}

func TestCreateNoteCountsCharactersNotBytes(t *testing.T) {
	db, uowFactory := newTestDB(t)
	category := testutil.SeedCategory(t, db, "Languages")
	svc := NewNoteService(uowFactory, &capturingPublisher{}, nopLogger())

	// 300 runes, 900 bytes
	content := ""
	for i := 0; i < 300; i++ {
		content += "語"
	}
	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{
		Content:    content,
		CategoryId: category.Id.String(),
	})
	assert.NoError(t, err)
}

func TestListNotesNewestFirstWithinCategory(t *testing.T) {
	db, uowFactory := newTestDB(t)
	biology := testutil.SeedCategory(t, db, "Biology")
	history := testutil.SeedCategory(t, db, "History")
	userId := uuid.New()

	older := testutil.SeedNote(t, db, userId, &biology.Id, testutil.Content(300))
	newer := testutil.SeedNote(t, db, userId, &biology.Id, testutil.Content(301))
	testutil.SeedNote(t, db, userId, &history.Id, testutil.Content(302))
	testutil.SeedNote(t, db, uuid.New(), &biology.Id, testutil.Content(303))

	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&model.Note{}).Where("id = ?", older.Id).Update("created_at", base).Error)
	require.NoError(t, db.Model(&model.Note{}).Where("id = ?", newer.Id).Update("created_at", base.Add(time.Minute)).Error)

	svc := NewNoteService(uowFactory, &capturingPublisher{}, nopLogger())
	res, err := svc.List(context.Background(), userId, biology.Id)
	require.NoError(t, err)

	require.Len(t, res.Notes, 2)
	assert.Equal(t, newer.Id, res.Notes[0].Id)
	assert.Equal(t, older.Id, res.Notes[1].Id)
	assert.Equal(t, "Biology", res.Notes[0].Category.Name)
}

func TestListNotesExposesQuestionsOnlyWhenCompleted(t *testing.T) {
	db, uowFactory := newTestDB(t)
	category := testutil.SeedCategory(t, db, "Chemistry")
	userId := uuid.New()
	note := testutil.SeedNote(t, db, userId, &category.Id, testutil.Content(500))

	qa := NewQAService(uowFactory, replyWith(llmReply{content: validQAJSON}), &recordingEvents{}, nopLogger())
	_, err := qa.Generate(context.Background(), userId, note.Id)
	require.NoError(t, err)

	svc := NewNoteService(uowFactory, &capturingPublisher{}, nopLogger())
	res, err := svc.List(context.Background(), userId, category.Id)
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)
	require.Len(t, res.Notes[0].QASets, 1)
	questions := res.Notes[0].QASets[0].Questions
	require.Len(t, questions, 3)
	assert.Equal(t, "Q1?", questions[0].QuestionText)

	require.NoError(t, db.Model(&model.Note{}).Where("id = ?", note.Id).Update("qa_status", "processing").Error)
	res, err = svc.List(context.Background(), userId, category.Id)
	require.NoError(t, err)
	assert.Empty(t, res.Notes[0].QASets)
}

func TestShowNote(t *testing.T) {
	db, uowFactory := newTestDB(t)
	userId := uuid.New()
	note := testutil.SeedNote(t, db, userId, nil, testutil.Content(300))
	svc := NewNoteService(uowFactory, &capturingPublisher{}, nopLogger())

	res, err := svc.Show(context.Background(), userId, note.Id)
	require.NoError(t, err)
	assert.Equal(t, note.Id, res.Note.Id)
	assert.Nil(t, res.Note.Category)

	_, err = svc.Show(context.Background(), uuid.New(), note.Id)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteNoteRemovesQuestionSets(t *testing.T) {
	db, uowFactory := newTestDB(t)
	userId := uuid.New()
	note := testutil.SeedNote(t, db, userId, nil, testutil.Content(500))

	qa := NewQAService(uowFactory, replyWith(llmReply{content: validQAJSON}), &recordingEvents{}, nopLogger())
	_, err := qa.Generate(context.Background(), userId, note.Id)
	require.NoError(t, err)

	svc := NewNoteService(uowFactory, &capturingPublisher{}, nopLogger())
	require.NoError(t, svc.Delete(context.Background(), userId, note.Id))

	var notes int64
	require.NoError(t, db.Model(&model.Note{}).Count(&notes).Error)
	assert.Zero(t, notes)
	var sets, questions int64
	require.NoError(t, db.Model(&model.QASet{}).Count(&sets).Error)
	require.NoError(t, db.Model(&model.Question{}).Count(&questions).Error)
	assert.Zero(t, sets)
	assert.Zero(t, questions)
}

func TestDeleteNoteOwnedBySomeoneElse(t *testing.T) {
	db, uowFactory := newTestDB(t)
	owner := uuid.New()
	note := testutil.SeedNote(t, db, owner, nil, testutil.Content(300))
	svc := NewNoteService(uowFactory, &capturingPublisher{}, nopLogger())

	err := svc.Delete(context.Background(), uuid.New(), note.Id)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	assert.Equal(t, constant.MsgNoteNotFound, appErr.Message)

	var count int64
	require.NoError(t, db.Model(&model.Note{}).Where("id = ?", note.Id).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	err = svc.Delete(context.Background(), owner, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
