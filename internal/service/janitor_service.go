package service

import (
	"context"
	"time"

	"learnflow-be/internal/constant"
	"learnflow-be/internal/entity"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/repository/specification"
	"learnflow-be/internal/repository/unitofwork"
)

// IJanitorService fails jobs whose worker died while the note was
// processing, so the user can retry them.
type IJanitorService interface {
	Sweep(ctx context.Context) (int, error)
	Run(ctx context.Context) error
}

type janitorService struct {
	uowFactory unitofwork.RepositoryFactory
	noteEvents INoteEventService
	staleAfter time.Duration
	interval   time.Duration
	logger     logger.ILogger
	now        func() time.Time
}

func NewJanitorService(
	uowFactory unitofwork.RepositoryFactory,
	noteEvents INoteEventService,
	staleAfter time.Duration,
	interval time.Duration,
	log logger.ILogger,
) IJanitorService {
	return &janitorService{
		uowFactory: uowFactory,
		noteEvents: noteEvents,
		staleAfter: staleAfter,
		interval:   interval,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Sweep returns how many job axes it moved to failed.
func (s *janitorService) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.staleAfter)
	notes := s.uowFactory.NewUnitOfWork(ctx).NoteRepository()

	stuckSummaries, err := notes.FindAll(ctx, specification.SummaryStuckSince{Cutoff: cutoff})
	if err != nil {
		return 0, err
	}
	stuckQA, err := notes.FindAll(ctx, specification.QAStuckSince{Cutoff: cutoff})
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, note := range stuckSummaries {
		ok, err := notes.FailStaleSummary(ctx, note.Id, constant.MsgProcessingTimedOut, cutoff)
		if err != nil {
			return reclaimed, err
		}
		if ok {
			reclaimed++
			s.announce(ctx, note, entity.JobSummary)
		}
	}
	for _, note := range stuckQA {
		ok, err := notes.FailStaleQA(ctx, note.Id, constant.MsgProcessingTimedOut, cutoff)
		if err != nil {
			return reclaimed, err
		}
		if ok {
			reclaimed++
			s.announce(ctx, note, entity.JobQA)
		}
	}
	return reclaimed, nil
}

func (s *janitorService) announce(ctx context.Context, note *entity.Note, job entity.Job) {
	s.logger.Warn("JANITOR", "Reclaimed stuck job", map[string]interface{}{
		"note_id": note.Id,
		"job":     string(job),
	})
	s.noteEvents.NoteChanged(ctx, note.UserId, note.Id)
}

// Run sweeps once immediately and then on every interval tick.
func (s *janitorService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("JANITOR", "Sweep failed", map[string]interface{}{"error": err.Error()})
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
