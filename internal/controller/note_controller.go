package controller

import (
	"learnflow-be/internal/constant"
	"learnflow-be/internal/dto"
	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/pkg/serverutils"
	"learnflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	auth        fiber.Handler
}

func NewNoteController(noteService service.INoteService, auth fiber.Handler) INoteController {
	return &noteController{
		noteService: noteService,
		auth:        auth,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes", c.auth)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get("/:id", c.Show)
	h.Delete("/:id", c.Delete)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	raw := ctx.Query("categoryId")
	if raw == "" {
		return apperr.Validation(constant.MsgCategoryIDRequired)
	}
	categoryId, err := uuid.Parse(raw)
	if err != nil {
		return apperr.Validation(constant.MsgInvalidCategoryID).WithDetails(err.Error())
	}

	res, err := c.noteService.List(ctx.UserContext(), userId, categoryId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.UUIDParam(ctx, "id", constant.MsgInvalidNoteID)
	if err != nil {
		return err
	}

	res, err := c.noteService.Show(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.UUIDParam(ctx, "id", constant.MsgInvalidNoteID)
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
