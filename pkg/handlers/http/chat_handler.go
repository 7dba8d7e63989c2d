package http

import (
	"context"
	"strings"

	"github.com/commercegate/catalog-agent/pkg/app/agent"
	"github.com/commercegate/catalog-agent/pkg/handlers/http/request"
	"github.com/commercegate/catalog-agent/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Responder is the application surface the chat handlers depend on.
//
//go:generate mockery --name=Responder --dir=. --output=./mocks --filename=responder_mock.go --case=underscore --with-expecter
type Responder interface {
	Respond(ctx context.Context, sessionID, userText string) (*agent.Reply, error)
}

type chatHandler struct {
	logger *logrus.Logger
	agent  Responder
}

func NewChatHandler(logger *logrus.Logger, agent Responder) Handler {
	return &chatHandler{
		logger: logger,
		agent:  agent,
	}
}

// Handle @Summary Chat with the catalog agent
// @Description Runs one agent turn for the given session
// @Tags Chat
// @Accept json
// @Produce json
// @Router /api/v1/chat [post]
func (h *chatHandler) Handle(c *fiber.Ctx) error {
	var req request.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := h.agent.Respond(c.Context(), sessionID, req.Message)
	if err != nil {
		h.logger.WithError(err).Error("agent turn failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "agent turn failed"})
	}

	return c.Status(fiber.StatusOK).JSON(response.ChatResponse{
		SessionID: sessionID,
		Reply:     reply.Text,
		Blocked:   reply.Blocked,
		Products:  reply.Products,
	})
}
