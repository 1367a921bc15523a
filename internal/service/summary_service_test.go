package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"learnflow-be/internal/constant"
	"learnflow-be/internal/model"
	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/pkg/testutil"
	"learnflow-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeCompletesNote(t *testing.T) {
	db, uowFactory := newTestDB(t)
	userId := uuid.New()
	note := testutil.SeedNote(t, db, userId, nil, testutil.Content(400))

	provider := replyWith(llmReply{content: validSummaryJSON})
	events := &recordingEvents{}
	svc := NewSummaryService(uowFactory, provider, events, nopLogger())

	res, err := svc.Summarize(context.Background(), userId, note.Id)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, note.Id, res.NoteId)
	assert.Equal(t, "Cells turn light into sugar.", res.Summary)

	stored := testutil.ReloadNote(t, db, note.Id)
	assert.Equal(t, "completed", stored.SummaryStatus)
	require.NotNil(t, stored.Summary)
	assert.Equal(t, "Cells turn light into sugar.", *stored.Summary)
	assert.Equal(t, []string{"light", "chlorophyll"}, []string(stored.KeyPoints))
	assert.Nil(t, stored.SummaryErrorMessage)
	assert.Equal(t, "idle", stored.QAStatus, "summary job must not touch the QA axis")

	// processing, then completed
	assert.Equal(t, 2, events.count())

	opts := provider.options[0]
	require.NotNil(t, opts.Schema)
	assert.Equal(t, constant.SummarySchemaName, opts.Schema.Name)
	require.NotNil(t, opts.Temperature)
	assert.Equal(t, 0.7, *opts.Temperature)
	assert.Equal(t, "system", provider.history[0][0].Role)
	assert.Equal(t, testutil.Content(400), provider.history[0][1].Content)
}

func TestSummarizeRateLimitedThenRetrySucceeds(t *testing.T) {
	db, uowFactory := newTestDB(t)
	userId := uuid.New()
	note := testutil.SeedNote(t, db, userId, nil, testutil.Content(350))

	provider := replyWith(
		llmReply{err: &llm.APIError{StatusCode: 429, Message: "Rate limit exceeded", RetryAfter: 30 * time.Second}},
		llmReply{content: validSummaryJSON},
	)
	svc := NewSummaryService(uowFactory, provider, &recordingEvents{}, nopLogger())

	_, err := svc.Summarize(context.Background(), userId, note.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamAI, apperr.KindOf(err))

	stored := testutil.ReloadNote(t, db, note.Id)
	assert.Equal(t, "failed", stored.SummaryStatus)
	require.NotNil(t, stored.SummaryErrorMessage)
	assert.Contains(t, *stored.SummaryErrorMessage, "rate limit")
	assert.Contains(t, *stored.SummaryErrorMessage, "30 seconds")

	_, err = svc.Summarize(context.Background(), userId, note.Id)
	require.NoError(t, err)

	stored = testutil.ReloadNote(t, db, note.Id)
	assert.Equal(t, "completed", stored.SummaryStatus)
	assert.Nil(t, stored.SummaryErrorMessage)
	assert.Equal(t, 2, provider.callCount())
}

func TestSummarizeRejectsWhileProcessing(t *testing.T) {
	db, uowFactory := newTestDB(t)
	userId := uuid.New()
	note := testutil.SeedNote(t, db, userId, nil, testutil.Content(400))
	require.NoError(t, db.Model(&model.Note{}).Where("id = ?", note.Id).
		Update("summary_status", "processing").Error)

	provider := replyWith(llmReply{content: validSummaryJSON})
	events := &recordingEvents{}
	svc := NewSummaryService(uowFactory, provider, events, nopLogger())

	_, err := svc.Summarize(context.Background(), userId, note.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, 0, provider.callCount())
	assert.Equal(t, 0, events.count())

	stored := testutil.ReloadNote(t, db, note.Id)
	assert.Equal(t, "processing", stored.SummaryStatus)
	assert.Nil(t, stored.Summary)
}

func TestConcurrentSummarizeRunsOnce(t *testing.T) {
	db, uowFactory := newTestDB(t)
	userId := uuid.New()
	note := testutil.SeedNote(t, db, userId, nil, testutil.Content(400))

	provider := replyWith(llmReply{content: validSummaryJSON})
	provider.entered = make(chan struct{}, 2)
	provider.gate = make(chan struct{})
	svc := NewSummaryService(uowFactory, provider, &recordingEvents{}, nopLogger())

	first := make(chan error, 1)
	go func() {
		_, err := svc.Summarize(context.Background(), userId, note.Id)
		first <- err
	}()

	select {
	case <-provider.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first job never reached the AI call")
	}

	_, err := svc.Summarize(context.Background(), userId, note.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	close(provider.gate)
	require.NoError(t, <-first)
	assert.Equal(t, 1, provider.callCount())
	assert.Equal(t, "completed", testutil.ReloadNote(t, db, note.Id).SummaryStatus)
}

func TestSummarizeFailures(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		reply    llmReply
		kind     apperr.Kind
		message  string
		callsLLM bool
	}{
		{
			name:    "content too short",
			content: testutil.Content(299),
			reply:   llmReply{content: validSummaryJSON},
			kind:    apperr.KindValidation,
			message: constant.MsgNoteTooShortForAI,
		},
		{
			name:     "unparseable output",
			content:  testutil.Content(400),
			reply:    llmReply{content: "Sure! Here is your summary."},
			kind:     apperr.KindUpstreamAI,
			message:  constant.MsgAIParseFailed,
			callsLLM: true,
		},
		{
			name:     "network failure",
			content:  testutil.Content(400),
			reply:    llmReply{err: &llm.NetworkError{Err: errors.New("dial tcp: connection refused")}},
			kind:     apperr.KindUpstreamAI,
			message:  constant.MsgAIUnreachable,
			callsLLM: true,
		},
		{
			name:     "rate limited without hint",
			content:  testutil.Content(400),
			reply:    llmReply{err: &llm.APIError{StatusCode: 429, Message: "slow down"}},
			kind:     apperr.KindUpstreamAI,
			message:  constant.MsgAIRateLimited,
			callsLLM: true,
		},
		{
			name:     "provider error",
			content:  testutil.Content(400),
			reply:    llmReply{err: &llm.APIError{StatusCode: 500, Message: "upstream exploded"}},
			kind:     apperr.KindUpstreamAI,
			message:  constant.MsgSummaryAIFailed,
			callsLLM: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, uowFactory := newTestDB(t)
			userId := uuid.New()
			note := testutil.SeedNote(t, db, userId, nil, tc.content)

			provider := replyWith(tc.reply)
			events := &recordingEvents{}
			svc := NewSummaryService(uowFactory, provider, events, nopLogger())

			_, err := svc.Summarize(context.Background(), userId, note.Id)
			require.Error(t, err)
			appErr, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.kind, appErr.Kind)
			assert.Equal(t, tc.message, appErr.Message)

			stored := testutil.ReloadNote(t, db, note.Id)
			assert.Equal(t, "failed", stored.SummaryStatus)
			require.NotNil(t, stored.SummaryErrorMessage)
			assert.Equal(t, tc.message, *stored.SummaryErrorMessage)
			assert.Equal(t, tc.callsLLM, provider.callCount() > 0)
			assert.Equal(t, 2, events.count())
		})
	}
}

func TestSummarizeHidesOtherUsersNotes(t *testing.T) {
	db, uowFactory := newTestDB(t)
	owner := uuid.New()
	note := testutil.SeedNote(t, db, owner, nil, testutil.Content(400))

	provider := replyWith(llmReply{content: validSummaryJSON})
	svc := NewSummaryService(uowFactory, provider, &recordingEvents{}, nopLogger())

	_, err := svc.Summarize(context.Background(), uuid.New(), note.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "pending", testutil.ReloadNote(t, db, note.Id).SummaryStatus)

	_, err = svc.Summarize(context.Background(), owner, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, 0, provider.callCount())
}

func TestSummarizeRegeneratesCompletedNote(t *testing.T) {
	db, uowFactory := newTestDB(t)
	userId := uuid.New()
	note := testutil.SeedNote(t, db, userId, nil, testutil.Content(400))
	require.NoError(t, db.Model(&model.Note{}).Where("id = ?", note.Id).Updates(map[string]interface{}{
		"summary_status": "completed",
		"summary":        "old summary",
	}).Error)

	svc := NewSummaryService(uowFactory, replyWith(llmReply{content: validSummaryJSON}), &recordingEvents{}, nopLogger())

	_, err := svc.Summarize(context.Background(), userId, note.Id)
	require.NoError(t, err)

	stored := testutil.ReloadNote(t, db, note.Id)
	assert.Equal(t, "completed", stored.SummaryStatus)
	assert.Equal(t, "Cells turn light into sugar.", *stored.Summary)
}
