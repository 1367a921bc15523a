package service

import (
	"context"
	"time"
	"unicode/utf8"

	"learnflow-be/internal/constant"
	"learnflow-be/internal/dto"
	"learnflow-be/internal/entity"
	"learnflow-be/internal/mapper"
	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/repository/specification"
	"learnflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteEnvelope, error)
	List(ctx context.Context, userId uuid.UUID, categoryId uuid.UUID) (*dto.ListNotesResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteEnvelope, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteEnvelope, error) {
	length := utf8.RuneCountInString(req.Content)
	if length < entity.NoteContentMinLength || length > entity.NoteContentMaxLength {
		return nil, apperr.Validation(constant.MsgNoteContentLength)
	}

	categoryId, err := uuid.Parse(req.CategoryId)
	if err != nil {
		return nil, apperr.Validation(constant.MsgInvalidCategory)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: categoryId})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.Validation(constant.MsgInvalidCategory)
	}

	now := time.Now().UTC()
	note := entity.Note{
		Id:            uuid.New(),
		UserId:        userId,
		CategoryId:    &categoryId,
		Content:       req.Content,
		SummaryStatus: entity.SummaryStatusPending,
		QAStatus:      entity.QAStatusIdle,
		KeyPoints:     []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}
	note.Category = category

	// Summarization runs detached. Creation succeeds even when dispatch
	// fails; the user can start it with the retry endpoint.
	err = c.publisherService.PublishSummarize(context.WithoutCancel(ctx), SummarizeNoteMessage{
		NoteId: note.Id,
		UserId: userId,
	})
	if err != nil {
		c.logger.Warn("NOTE", "Failed to dispatch summarization", map[string]interface{}{
			"note_id": note.Id,
			"error":   err.Error(),
		})
	}

	return &dto.NoteEnvelope{Note: mapper.NoteToResponse(&note)}, nil
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID, categoryId uuid.UUID) (*dto.ListNotesResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.NoteOwnedByUser{UserID: userId},
		specification.ByCategoryID{CategoryID: categoryId},
		specification.WithCategory{},
		specification.WithQuestionSets{},
		specification.OrderBy{Field: "notes.created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	return &dto.ListNotesResponse{Notes: mapper.NotesToResponse(notes)}, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteEnvelope, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.NoteOwnedByUser{UserID: userId},
		specification.WithCategory{},
		specification.WithQuestionSets{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperr.NotFound(constant.MsgNoteNotFound)
	}

	return &dto.NoteEnvelope{Note: mapper.NoteToResponse(note)}, nil
}

// Delete removes the note with its question sets. Missing and foreign notes
// look the same to the caller.
func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.NoteOwnedByUser{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperr.NotFound(constant.MsgNoteNotFound)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.QuestionRepository().DeleteByNoteId(ctx, id); err != nil {
		return err
	}
	if err := uow.QASetRepository().DeleteByNoteId(ctx, id); err != nil {
		return err
	}
	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.logger.Info("NOTE", "Note deleted", map[string]interface{}{
		"note_id": id,
		"user_id": userId,
	})
	return nil
}
