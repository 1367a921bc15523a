package controller

import (
	"learnflow-be/internal/constant"
	"learnflow-be/internal/dto"
	"learnflow-be/internal/pkg/serverutils"
	"learnflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
	ConfirmResetPassword(ctx *fiber.Ctx) error
}

type authController struct {
	authService   service.IAuthService
	tokenIssuer   *serverutils.TokenIssuer
	secureCookies bool
}

func NewAuthController(authService service.IAuthService, tokenIssuer *serverutils.TokenIssuer, secureCookies bool) IAuthController {
	return &authController{
		authService:   authService,
		tokenIssuer:   tokenIssuer,
		secureCookies: secureCookies,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
	h.Get("/session", c.Session)
	h.Post("/reset-password", c.ResetPassword)
	h.Post("/reset-password/confirm", c.ConfirmResetPassword)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

// Login sets the session cookies; the tokens are in the body too for
// clients without a cookie jar.
func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, pair, err := c.authService.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	serverutils.SetAuthCookies(ctx, pair, c.secureCookies)
	return ctx.JSON(res)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	serverutils.ClearAuthCookies(ctx, c.secureCookies)
	return ctx.JSON(dto.MessageResponse{Message: constant.MsgLoggedOut})
}

func (c *authController) Session(ctx *fiber.Ctx) error {
	claims, err := serverutils.Authenticate(ctx, c.tokenIssuer, c.secureCookies)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(dto.SessionResponse{Error: constant.MsgNotAuthenticated})
	}
	userId, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(dto.SessionResponse{Error: constant.MsgNotAuthenticated})
	}

	user, err := c.authService.Session(ctx.UserContext(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(dto.SessionResponse{Error: constant.MsgNotAuthenticated})
	}
	return ctx.JSON(dto.SessionResponse{User: user})
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.RequestPasswordReset(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *authController) ConfirmResetPassword(ctx *fiber.Ctx) error {
	var req dto.ConfirmResetPasswordRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.ConfirmPasswordReset(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
