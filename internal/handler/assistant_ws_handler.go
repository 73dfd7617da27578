package handler

import (
	"context"
	"encoding/json"

	"voice-intake-be/internal/dto"
	"voice-intake-be/internal/pkg/logger"
	"voice-intake-be/internal/pkg/serverutils"
	"voice-intake-be/internal/service"
	internalWS "voice-intake-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// inboundMessage is what the browser sends over the socket: a finalized
// speech recognition transcript or a control action.
type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// AssistantWsHandler upgrades assistant websocket connections. The socket
// carries assistant directives (speak, listen, navigate, state) outward and
// utterances plus control actions inward, so a browser client can run the
// whole dialogue over a single connection.
type AssistantWsHandler struct {
	service service.IAssistantService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewAssistantWsHandler(assistantService service.IAssistantService, hub *internalWS.Hub, log logger.ILogger) *AssistantWsHandler {
	return &AssistantWsHandler{
		service: assistantService,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs handles the websocket handshake. Browsers cannot set headers on
// websocket requests, so the token rides in the query string, with the
// Authorization header as a fallback for tooling.
func (h *AssistantWsHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	userIDStr, err := serverutils.VerifyToken(tokenStr)
	if err != nil {
		h.logger.Warn("AssistantWsHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	conversationID, err := uuid.Parse(c.Query("conversation_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid conversation_id"})
	}

	// Ownership check before the upgrade: a socket on someone else's
	// conversation would leak every spoken reply.
	if _, err := h.service.GetTranscript(c.UserContext(), userID, conversationID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("AssistantWsHandler", "Starting assistant WebSocket session", map[string]interface{}{
				"user_id":         userID,
				"conversation_id": conversationID,
			})
			internalWS.ServeWs(h.hub, conn, conversationID, userID, h.handleInbound)
			h.logger.Info("AssistantWsHandler", "Assistant WebSocket session ended", map[string]interface{}{
				"user_id":         userID,
				"conversation_id": conversationID,
			})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// handleInbound routes one client message. The socket read loop runs outside
// any request, so results and errors surface as directives on the same hub
// the dispatcher uses.
func (h *AssistantWsHandler) handleInbound(conversationID, userID uuid.UUID, payload []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		h.logger.Warn("AssistantWsHandler", "Malformed inbound message", map[string]interface{}{"error": err.Error()})
		return
	}

	ctx := context.Background()
	switch msg.Type {
	case "utterance":
		_, err := h.service.HandleUtterance(ctx, userID, conversationID, &dto.UtteranceRequest{Text: msg.Text})
		h.logInboundError("utterance", conversationID, err)
	case "submit":
		_, err := h.service.Submit(ctx, userID, conversationID)
		h.logInboundError("submit", conversationID, err)
	case "restart":
		_, err := h.service.Restart(ctx, userID, conversationID)
		h.logInboundError("restart", conversationID, err)
	case "dismiss":
		err := h.service.Dismiss(ctx, userID, conversationID)
		h.logInboundError("dismiss", conversationID, err)
	default:
		h.logger.Warn("AssistantWsHandler", "Unknown inbound message type", map[string]interface{}{"type": msg.Type})
	}
}

func (h *AssistantWsHandler) logInboundError(action string, conversationID uuid.UUID, err error) {
	if err == nil {
		return
	}
	h.logger.Warn("AssistantWsHandler", "Inbound action failed", map[string]interface{}{
		"action":          action,
		"conversation_id": conversationID,
		"error":           err.Error(),
	})
}

// RegisterRoutes registers the assistant websocket route.
func (h *AssistantWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
