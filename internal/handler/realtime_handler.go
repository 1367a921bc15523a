package handler

import (
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/pkg/serverutils"
	internalWS "learnflow-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const localWSUserID = "ws_user_id"

// RealtimeHandler upgrades authenticated clients onto the note update
// channel.
type RealtimeHandler struct {
	hub           *internalWS.Hub
	tokenIssuer   *serverutils.TokenIssuer
	secureCookies bool
	logger        logger.ILogger
}

func NewRealtimeHandler(hub *internalWS.Hub, tokenIssuer *serverutils.TokenIssuer, secureCookies bool, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:           hub,
		tokenIssuer:   tokenIssuer,
		secureCookies: secureCookies,
		logger:        log,
	}
}

func (h *RealtimeHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.Handshake, websocket.New(h.serve))
}

// Handshake authenticates before the upgrade. Browsers cannot set headers
// on a websocket, so a token query parameter is accepted as well as the
// bearer header and session cookies.
func (h *RealtimeHandler) Handshake(c *fiber.Ctx) error {
	var claims *serverutils.TokenClaims
	var err error
	if tokenStr := c.Query("token"); tokenStr != "" {
		claims, err = h.tokenIssuer.Parse(tokenStr, serverutils.TokenTypeAccess)
	} else {
		claims, err = serverutils.Authenticate(c, h.tokenIssuer, h.secureCookies)
	}
	if err != nil {
		h.logger.Warn("Realtime", "Rejected websocket handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse{Error: "Unauthorized"})
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse{Error: "Token missing user_id"})
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(serverutils.ErrorResponse{Error: "Websocket upgrade required"})
	}

	c.Locals(localWSUserID, userID)
	return c.Next()
}

func (h *RealtimeHandler) serve(c *websocket.Conn) {
	userID, ok := c.Locals(localWSUserID).(uuid.UUID)
	if !ok {
		_ = c.Close()
		return
	}

	h.logger.Info("Realtime", "Client connected", map[string]interface{}{"user_id": userID})
	internalWS.ServeWs(h.hub, c, userID)
}
