package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/pkg/testutil"
	"learnflow-be/internal/repository/contract"
	"learnflow-be/internal/repository/unitofwork"
	"learnflow-be/pkg/llm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	validSummaryJSON = `{"summary":"Cells turn light into sugar.","keyPoints":["light","chlorophyll"],"wordCount":52}`
	validQAJSON      = `{"questions":[
		{"question":"Q1?","options":{"A":"a","B":"b","C":"c","D":"d"},"correct_option":"A"},
		{"question":"Q2?","options":{"A":"a","B":"b","C":"c","D":"d"},"correct_option":"B"},
		{"question":"Q3?","options":{"A":"a","B":"b","C":"c","D":"d"},"correct_option":"D"}
	]}`
)

type llmReply struct {
	content string
	err     error
}

// scriptedLLM answers calls in order, repeating the last reply. When gate
// is set every call reports on entered and waits for gate to close.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []llmReply
	calls   int
	history [][]llm.Message
	options []*llm.Options

	entered chan struct{}
	gate    chan struct{}
}

func replyWith(replies ...llmReply) *scriptedLLM {
	return &scriptedLLM{replies: replies}
}

func (p *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	p.mu.Lock()
	i := p.calls
	p.calls++
	p.history = append(p.history, history)
	p.options = append(p.options, llm.ApplyOptions(opts...))
	p.mu.Unlock()

	if p.entered != nil {
		p.entered <- struct{}{}
	}
	if p.gate != nil {
		<-p.gate
	}

	if i >= len(p.replies) {
		i = len(p.replies) - 1
	}
	r := p.replies[i]
	if r.err != nil {
		return nil, r.err
	}
	return &llm.Completion{Content: r.content}, nil
}

func (p *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{llm.UserMessage(prompt)}, opts...)
}

func (p *scriptedLLM) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// recordingEvents collects NoteChanged calls.
type recordingEvents struct {
	mu      sync.Mutex
	changes []uuid.UUID
}

func (r *recordingEvents) NoteChanged(ctx context.Context, userId, noteId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, noteId)
}

func (r *recordingEvents) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (r *recordingEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

var errQuestionInsert = errors.New("questions insert failed")

// failingQuestionsFactory hands out units of work whose question
// repository refuses inserts.
type failingQuestionsFactory struct {
	db *gorm.DB
}

func (f failingQuestionsFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return failingQuestionsUoW{UnitOfWork: unitofwork.NewUnitOfWork(f.db)}
}

type failingQuestionsUoW struct {
	unitofwork.UnitOfWork
}

func (u failingQuestionsUoW) QuestionRepository() contract.QuestionRepository {
	return failingQuestionRepository{QuestionRepository: u.UnitOfWork.QuestionRepository()}
}

type failingQuestionRepository struct {
	contract.QuestionRepository
}

func (r failingQuestionRepository) CreateBatch(ctx context.Context, _ []*entity.Question) error {
	return errQuestionInsert
}

func newTestDB(t *testing.T) (*gorm.DB, unitofwork.RepositoryFactory) {
	t.Helper()
	db := testutil.NewDB(t)
	return db, unitofwork.NewRepositoryFactory(db)
}

func nopLogger() logger.ILogger {
	return logger.NewNopLogger()
}
