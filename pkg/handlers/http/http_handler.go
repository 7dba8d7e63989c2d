package http

import "github.com/gofiber/fiber/v2"

const ErrInvalidJsonPayload = "invalid JSON payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	ChatHandler       Handler
	KakaoSkillHandler Handler
	GetVersionHandler Handler
}
