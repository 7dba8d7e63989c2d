package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/commercegate/catalog-agent/pkg/app/agent"
	appSafety "github.com/commercegate/catalog-agent/pkg/app/safety"
	"github.com/commercegate/catalog-agent/pkg/config"
	"github.com/commercegate/catalog-agent/pkg/domain/session"
	handlers "github.com/commercegate/catalog-agent/pkg/handlers/http"
	"github.com/commercegate/catalog-agent/pkg/infra/armor"
	"github.com/commercegate/catalog-agent/pkg/infra/gcp"
	"github.com/commercegate/catalog-agent/pkg/infra/httpx"
	infraLogger "github.com/commercegate/catalog-agent/pkg/infra/logger"
	"github.com/commercegate/catalog-agent/pkg/infra/providers"
	"github.com/commercegate/catalog-agent/pkg/infra/providers/factory"
	"github.com/commercegate/catalog-agent/pkg/infra/repository"
	"github.com/commercegate/catalog-agent/pkg/infra/retail"
	"github.com/commercegate/catalog-agent/pkg/server"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	cfg, err := config.Load("./config")
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	var tokens gcp.TokenSource
	if cfg.Google.AccessToken != "" {
		tokens = gcp.NewStaticTokenSource(cfg.Google.AccessToken)
	} else {
		tokens = gcp.NewMetadataTokenSource()
	}

	httpClient := httpx.NewFastHTTPClient(
		httpx.WithTimeout(armor.RequestTimeout),
	)

	var classifier armor.Client
	if cfg.SafetyConfigured() {
		classifier = armor.NewModelArmorClient(
			logger,
			tokens,
			cfg.Google.ProjectID,
			cfg.Google.Location,
			cfg.Safety.TemplateID,
			armor.WithHTTPClient(httpClient),
			armor.WithCircuitBreaker(httpx.NewCircuitBreaker("model-armor", 30*time.Second, 5)),
		)
	} else {
		logger.Warn("safety gate not configured, prompts will not be classified")
	}
	interceptor := appSafety.NewTurnInterceptor(logger, classifier)

	catalogClient := retail.NewSearchClient(
		logger,
		tokens,
		retail.Config{
			ProjectID:     cfg.Google.ProjectID,
			ServingConfig: cfg.Retail.ServingConfig,
			Branch:        cfg.Retail.Branch,
			PageSize:      cfg.Retail.PageSize,
			VisitorID:     uuid.NewString(),
		},
		retail.WithHTTPClient(httpClient),
		retail.WithCircuitBreaker(httpx.NewCircuitBreaker("retail-search", 30*time.Second, 5)),
	)

	provider, err := factory.NewProviderLocator().Get(cfg.Agent.Provider)
	if err != nil {
		logger.Fatalf("failed to resolve agent provider: %v", err)
	}
	providerCfg := providers.Config{
		Credentials: providers.Credentials{ApiKey: cfg.Agent.APIKey},
		Model:       cfg.Agent.Model,
		MaxTokens:   cfg.Agent.MaxTokens,
		Temperature: cfg.Agent.Temperature,
		Options:     cfg.Agent.Options,
	}

	sessionTTL := time.Duration(cfg.Agent.SessionTTL) * time.Minute
	var sessions session.Repository
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessions = repository.NewRedisSessionRepository(redisClient, sessionTTL)
	} else {
		sessions = repository.NewMemorySessionRepository(sessionTTL)
	}

	catalogAgent := agent.NewAgent(logger, provider, providerCfg, catalogClient, interceptor, sessions)

	srv := server.NewAgentServer(server.AgentServerDI{
		HandlerTransport: handlers.HandlerTransport{
			ChatHandler:       handlers.NewChatHandler(logger, catalogAgent),
			KakaoSkillHandler: handlers.NewKakaoSkillHandler(logger, catalogAgent),
			GetVersionHandler: handlers.NewGetVersionHandler(logger),
		},
		Config: cfg,
		Logger: logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down agent server")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("failed to shut down server gracefully")
	}
}
