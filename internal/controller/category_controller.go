package controller

import (
	"learnflow-be/internal/constant"
	"learnflow-be/internal/pkg/serverutils"
	"learnflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICategoryController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type categoryController struct {
	categoryService service.ICategoryService
}

func NewCategoryController(categoryService service.ICategoryService) ICategoryController {
	return &categoryController{
		categoryService: categoryService,
	}
}

// RegisterRoutes mounts public routes; categories are shared reference data.
func (c *categoryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/categories")
	h.Get("", c.GetAll)
	h.Get("/:id", c.Show)
}

func (c *categoryController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.categoryService.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *categoryController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.UUIDParam(ctx, "id", constant.MsgInvalidCategoryID)
	if err != nil {
		return err
	}

	res, err := c.categoryService.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
