package service

import (
	"context"
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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// IQAService runs the question generation job. Retrying is the same call.
type IQAService interface {
	Generate(ctx context.Context, userId, noteId uuid.UUID) (*dto.GenerateQAResponse, error)
}

type qaService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	noteEvents  INoteEventService
	logger      logger.ILogger
	now         func() time.Time
}

func NewQAService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	noteEvents INoteEventService,
	log logger.ILogger,
) IQAService {
	return &qaService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		noteEvents:  noteEvents,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *qaService) Generate(ctx context.Context, userId, noteId uuid.UUID) (*dto.GenerateQAResponse, error) {
	ctx, span := tracer.Start(ctx, "QAService.Generate")
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
	if !note.QAStatus.CanTransition(entity.QAStatusProcessing) {
		return nil, apperr.Conflict(constant.MsgQAInProgress)
	}

	claimed, err := notes.ClaimQA(ctx, noteId, userId, s.now())
	if err != nil {
		return nil, apperr.Persistence(constant.MsgStartFailed, err)
	}
	if !claimed {
		return nil, apperr.Conflict(constant.MsgQAInProgress)
	}
	s.noteEvents.NoteChanged(ctx, userId, noteId)

	s.logger.Info("QA", "Question generation started", map[string]interface{}{
		"note_id": noteId,
		"user_id": userId,
	})

	if utf8.RuneCountInString(note.Content) < entity.NoteContentMinLength {
		return nil, s.fail(ctx, userId, noteId, apperr.Validation(constant.MsgNoteTooShortForQA))
	}

	payload, appErr := s.generate(ctx, note.Content)
	if appErr != nil {
		span.RecordError(appErr)
		span.SetStatus(codes.Error, appErr.Message)
		return nil, s.fail(ctx, userId, noteId, appErr)
	}

	if err := s.persist(ctx, noteId, payload); err != nil {
		return nil, s.fail(ctx, userId, noteId, apperr.Persistence(constant.MsgQASaveFailed, err))
	}
	s.noteEvents.NoteChanged(ctx, userId, noteId)

	s.logger.Info("QA", "Question generation completed", map[string]interface{}{
		"note_id":   noteId,
		"questions": len(payload.Questions),
	})

	return &dto.GenerateQAResponse{
		Success: true,
		NoteId:  noteId,
		Message: constant.MsgQAStarted,
	}, nil
}

func (s *qaService) generate(ctx context.Context, content string) (*dto.GeneratedQAPayload, *apperr.Error) {
	res, err := llm.ChatStructured[dto.GeneratedQAPayload](ctx, s.llmProvider,
		[]llm.Message{
			llm.SystemMessage(constant.QASystemPrompt),
			llm.UserMessage(content),
		},
		llm.Schema{Name: constant.QASchemaName, Definition: constant.QASchema},
		llm.WithTemperature(constant.QATemperature),
	)
	if err != nil {
		return nil, aiFailure(err, constant.MsgQAAIFailed)
	}

	payload := res.ParsePayload()
	if payload == nil {
		return nil, apperr.UpstreamAI(constant.MsgAIParseFailed, res.ParseError())
	}
	return payload, nil
}

// persist replaces the note's question set and completes the QA axis in
// one transaction. Nothing is visible unless every question was stored.
func (s *qaService) persist(ctx context.Context, noteId uuid.UUID, payload *dto.GeneratedQAPayload) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.QuestionRepository().DeleteByNoteId(ctx, noteId); err != nil {
		return err
	}
	if err := uow.QASetRepository().DeleteByNoteId(ctx, noteId); err != nil {
		return err
	}

	set := &entity.QASet{Id: uuid.New(), NoteId: noteId}
	if err := uow.QASetRepository().Create(ctx, set); err != nil {
		return err
	}

	questions := make([]*entity.Question, len(payload.Questions))
	for i, q := range payload.Questions {
		questions[i] = &entity.Question{
			Id:            uuid.New(),
			QASetId:       set.Id,
			Position:      i,
			QuestionText:  q.Question,
			OptionA:       q.Options.A,
			OptionB:       q.Options.B,
			OptionC:       q.Options.C,
			OptionD:       q.Options.D,
			CorrectOption: q.CorrectOption,
		}
	}
	if err := uow.QuestionRepository().CreateBatch(ctx, questions); err != nil {
		return err
	}

	ok, err := uow.NoteRepository().CompleteQA(ctx, noteId)
	if err != nil {
		return err
	}
	if !ok {
		return errLeftProcessing
	}
	return uow.Commit()
}

func (s *qaService) fail(ctx context.Context, userId, noteId uuid.UUID, appErr *apperr.Error) *apperr.Error {
	ctx = context.WithoutCancel(ctx)

	s.logger.Error("QA", "Question generation failed", map[string]interface{}{
		"note_id": noteId,
		"message": appErr.Message,
		"details": appErr.Details,
	})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.NoteRepository().FailQA(ctx, noteId, appErr.Message); err != nil {
		s.logger.Error("QA", "Failed to record QA failure", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
		return appErr
	}
	s.noteEvents.NoteChanged(ctx, userId, noteId)
	return appErr
}
