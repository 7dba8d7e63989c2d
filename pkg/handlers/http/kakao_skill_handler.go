package http

import (
	"strings"

	"github.com/commercegate/catalog-agent/pkg/handlers/http/request"
	"github.com/commercegate/catalog-agent/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const kakaoFallbackText = "Sorry, something went wrong. Please try again."

type kakaoSkillHandler struct {
	logger *logrus.Logger
	agent  Responder
}

func NewKakaoSkillHandler(logger *logrus.Logger, agent Responder) Handler {
	return &kakaoSkillHandler{
		logger: logger,
		agent:  agent,
	}
}

// Handle @Summary Kakao skill webhook
// @Description Adapts the Kakao skill payload onto one agent turn
// @Tags Chat
// @Accept json
// @Produce json
// @Router /api/v1/kakao/skill [post]
func (h *kakaoSkillHandler) Handle(c *fiber.Ctx) error {
	var req request.KakaoSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	utterance := strings.TrimSpace(req.UserRequest.Utterance)
	if utterance == "" {
		return c.Status(fiber.StatusOK).JSON(response.NewKakaoSkillResponse(kakaoFallbackText))
	}

	// The platform user id doubles as the session id, so one chat user maps
	// onto one running conversation.
	sessionID := req.UserRequest.User.ID
	if sessionID == "" {
		sessionID = "kakao-anonymous"
	}

	reply, err := h.agent.Respond(c.Context(), sessionID, utterance)
	if err != nil {
		// The platform retries non-200 responses aggressively; degrade to a
		// fallback message instead.
		h.logger.WithError(err).Error("agent turn failed for kakao webhook")
		return c.Status(fiber.StatusOK).JSON(response.NewKakaoSkillResponse(kakaoFallbackText))
	}

	return c.Status(fiber.StatusOK).JSON(response.NewKakaoSkillResponse(reply.Text))
}
