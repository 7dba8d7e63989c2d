package server

import (
	"fmt"

	"github.com/commercegate/catalog-agent/pkg/config"
	handlers "github.com/commercegate/catalog-agent/pkg/handlers/http"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type (
	AgentServerDI struct {
		HandlerTransport handlers.HandlerTransport
		Config           *config.Config
		Logger           *logrus.Logger
	}
	AgentServer struct {
		*BaseServer
		handlerTransport handlers.HandlerTransport
	}
)

func NewAgentServer(di AgentServerDI) *AgentServer {
	s := &AgentServer{
		BaseServer:       NewBaseServer(di.Config, di.Logger),
		handlerTransport: di.HandlerTransport,
	}
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()
	return s
}

func (s *AgentServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("starting agent server")
	return s.router.Listen(addr)
}

func (s *AgentServer) Shutdown() error {
	return s.router.Shutdown()
}

func (s *AgentServer) setupRoutes() {
	baseRouter := s.router.Group("")
	s.addRoutes(baseRouter)
}

func (s *AgentServer) addRoutes(router fiber.Router) {
	v1 := router.Group("/api/v1")
	{
		v1.Post("/chat", s.handlerTransport.ChatHandler.Handle)
		v1.Post("/kakao/skill", s.handlerTransport.KakaoSkillHandler.Handle)
		v1.Get("/version", s.handlerTransport.GetVersionHandler.Handle)
	}
}
