package controller

import (
	"learnflow-be/internal/constant"
	"learnflow-be/internal/pkg/serverutils"
	"learnflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IAIController exposes the summary and question jobs. Both endpoints are
// also the retry path for a failed note.
type IAIController interface {
	RegisterRoutes(r fiber.Router)
	Summarize(ctx *fiber.Ctx) error
	GenerateQA(ctx *fiber.Ctx) error
}

type aiController struct {
	summaryService service.ISummaryService
	qaService      service.IQAService
	auth           fiber.Handler
}

func NewAIController(summaryService service.ISummaryService, qaService service.IQAService, auth fiber.Handler) IAIController {
	return &aiController{
		summaryService: summaryService,
		qaService:      qaService,
		auth:           auth,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai", c.auth)
	h.Post("/summarize/:noteId", c.Summarize)
	h.Post("/generate-qa/:noteId", c.GenerateQA)
}

func (c *aiController) Summarize(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	noteId, err := serverutils.UUIDParam(ctx, "noteId", constant.MsgInvalidNoteID)
	if err != nil {
		return err
	}

	res, err := c.summaryService.Summarize(ctx.UserContext(), userId, noteId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *aiController) GenerateQA(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	noteId, err := serverutils.UUIDParam(ctx, "noteId", constant.MsgInvalidNoteID)
	if err != nil {
		return err
	}

	res, err := c.qaService.Generate(ctx.UserContext(), userId, noteId)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(res)
}
