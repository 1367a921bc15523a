package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"learnflow-be/internal/constant"
	"learnflow-be/internal/dto"
	"learnflow-be/internal/entity"
	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/repository/specification"
	"learnflow-be/internal/repository/unitofwork"
	"learnflow-be/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("learnflow-be/internal/service")

// errLeftProcessing means the row was failed or deleted by someone else
// while the job was still running.
var errLeftProcessing = errors.New("note is no longer processing")

// ISummaryService runs the summarization job. Retrying is the same call.
type ISummaryService interface {
	Summarize(ctx context.Context, userId, noteId uuid.UUID) (*dto.SummarizeResponse, error)
}

type summaryService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	noteEvents  INoteEventService
	logger      logger.ILogger
	now         func() time.Time
}

func NewSummaryService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	noteEvents INoteEventService,
	log logger.ILogger,
) ISummaryService {
	return &summaryService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		noteEvents:  noteEvents,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *summaryService) Summarize(ctx context.Context, userId, noteId uuid.UUID) (*dto.SummarizeResponse, error) {
	ctx, span := tracer.Start(ctx, "SummaryService.Summarize")
	defer span.End()
	span.SetAttributes(attribute.String("note.id", noteId.String()))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notes := uow.NoteRepository()

	note, err := notes.FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.NoteOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, apperr.Persistence(constant.MsgStartFailed, err)
	}
	if note == nil {
		return nil, apperr.NotFound(constant.MsgNoteNotFound)
	}
	if !note.SummaryStatus.CanTransition(entity.SummaryStatusProcessing) {
		return nil, apperr.Conflict(constant.MsgSummaryInProgress)
	}

	claimed, err := notes.ClaimSummary(ctx, noteId, userId, s.now())
	if err != nil {
		return nil, apperr.Persistence(constant.MsgStartFailed, err)
	}
	if !claimed {
		return nil, apperr.Conflict(constant.MsgSummaryInProgress)
	}
	s.noteEvents.NoteChanged(ctx, userId, noteId)

	s.logger.Info("SUMMARY", "Summarization started", map[string]interface{}{
		"note_id": noteId,
		"user_id": userId,
	})

	if utf8.RuneCountInString(note.Content) < entity.NoteContentMinLength {
		return nil, s.fail(ctx, userId, noteId, apperr.Validation(constant.MsgNoteTooShortForAI))
	}

	payload, appErr := s.generate(ctx, note.Content)
	if appErr != nil {
		span.RecordError(appErr)
		span.SetStatus(codes.Error, appErr.Message)
		return nil, s.fail(ctx, userId, noteId, appErr)
	}

	ok, err := notes.CompleteSummary(ctx, noteId, payload.Summary, payload.KeyPoints)
	if err != nil {
		return nil, s.fail(ctx, userId, noteId, apperr.Persistence(constant.MsgSummarySaveFailed, err))
	}
	if !ok {
		return nil, apperr.Persistence(constant.MsgSummarySaveFailed, errLeftProcessing)
	}
	s.noteEvents.NoteChanged(ctx, userId, noteId)

	s.logger.Info("SUMMARY", "Summarization completed", map[string]interface{}{
		"note_id":    noteId,
		"key_points": len(payload.KeyPoints),
	})

	return &dto.SummarizeResponse{
		Success: true,
		NoteId:  noteId,
		Summary: payload.Summary,
	}, nil
}

func (s *summaryService) generate(ctx context.Context, content string) (*dto.SummaryPayload, *apperr.Error) {
	res, err := llm.ChatStructured[dto.SummaryPayload](ctx, s.llmProvider,
		[]llm.Message{
			llm.SystemMessage(constant.SummarySystemPrompt),
			llm.UserMessage(content),
		},
		llm.Schema{Name: constant.SummarySchemaName, Definition: constant.SummarySchema},
		llm.WithTemperature(constant.SummaryTemperature),
	)
	if err != nil {
		return nil, aiFailure(err, constant.MsgSummaryAIFailed)
	}

	payload := res.ParsePayload()
	if payload == nil {
		return nil, apperr.UpstreamAI(constant.MsgAIParseFailed, res.ParseError())
	}
	return payload, nil
}

// fail records the failure on the note even when the request that started
// the job has gone away.
func (s *summaryService) fail(ctx context.Context, userId, noteId uuid.UUID, appErr *apperr.Error) *apperr.Error {
	ctx = context.WithoutCancel(ctx)

	s.logger.Error("SUMMARY", "Summarization failed", map[string]interface{}{
		"note_id": noteId,
		"message": appErr.Message,
		"details": appErr.Details,
	})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.NoteRepository().FailSummary(ctx, noteId, appErr.Message); err != nil {
		s.logger.Error("SUMMARY", "Failed to record summary failure", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
		return appErr
	}
	s.noteEvents.NoteChanged(ctx, userId, noteId)
	return appErr
}
