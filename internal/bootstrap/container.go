package bootstrap

import (
	"context"
	"log"

	"discusschat-be/internal/config"
	"discusschat-be/internal/controller"
	"discusschat-be/internal/handler"
	"discusschat-be/internal/pkg/logger"
	"discusschat-be/internal/repository/memory"
	"discusschat-be/internal/repository/unitofwork"
	"discusschat-be/internal/service"
	"discusschat-be/internal/websocket"
	"discusschat-be/pkg/embedding"
	"discusschat-be/pkg/facilitator"
	"discusschat-be/pkg/llm/factory"
	"discusschat-be/pkg/retrieval"

	pktNats "discusschat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController      controller.ISessionController
	ConversationController controller.IConversationController
	SynthesisController    controller.ISynthesisController

	// Background Services (Exposed for main.go to run)
	IndexerService service.IIndexerService

	// WebSockets
	EventsHandler *handler.EventsHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Per-participant turn serialization
	turnGuard := memory.NewTurnGuard()

	// 5. Services
	fac := facilitator.New(llmProvider)
	retrievalService := retrieval.NewRetrievalService(uowFactory, embeddingProvider, sysLogger)

	publisherService := service.NewPublisherService(pubSub, cfg.Keys.RebuildTopic)
	indexerService := service.NewIndexerService(
		pubSub,
		cfg.Keys.RebuildTopic,
		uowFactory,
		retrievalService,
		natsPub,
		sysLogger,
	)

	sessionService := service.NewSessionService(uowFactory, publisherService, retrievalService, sysLogger)
	conversationService := service.NewConversationService(
		uowFactory,
		turnGuard,
		fac,
		retrievalService,
		natsPub,
		wsHub,
		cfg.Dialogue.FollowupLimit,
		cfg.Dialogue.NoNewInfoLimit,
		sysLogger,
	)
	synthesisService := service.NewSynthesisService(uowFactory, fac, natsPub, sysLogger)

	// 6. Handlers & Controllers
	eventsHandler := handler.NewEventsHandler(wsHub, wsLogger)

	return &Container{
		EventsHandler: eventsHandler,
		WebSocketHub:  wsHub,

		SessionController:      controller.NewSessionController(sessionService),
		ConversationController: controller.NewConversationController(conversationService),
		SynthesisController:    controller.NewSynthesisController(synthesisService),

		IndexerService: indexerService,
	}
}
