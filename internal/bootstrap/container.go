package bootstrap

import (
	"time"

	"voice-intake-be/internal/config"
	"voice-intake-be/internal/controller"
	"voice-intake-be/internal/handler"
	"voice-intake-be/internal/pkg/logger"
	"voice-intake-be/internal/repository/memory"
	"voice-intake-be/internal/service"
	"voice-intake-be/internal/websocket"
	"voice-intake-be/pkg/orders"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// Background Services (Exposed for main.go to run)
	DispatcherService service.IDispatcherService

	// WebSockets
	AssistantWsHandler *handler.AssistantWsHandler
	WebSocketHub       *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(cfg.Assistant.EventTopic, pubSub)

	// 3. In-Memory Conversation Storage
	conversationRepo := memory.NewConversationRepository(
		time.Duration(cfg.Assistant.SessionTTLMinutes) * time.Minute,
	)

	// 4. Order Backend Client
	ordersClient := orders.NewClient(
		cfg.Orders.BaseURL,
		time.Duration(cfg.Orders.TimeoutSeconds)*time.Second,
	)

	// 5. Assistant Service (wires the dialogue domain components)
	assistantService := service.NewAssistantService(
		conversationRepo,
		ordersClient,
		publisherService,
		time.Duration(cfg.Assistant.ObservationDelaySeconds)*time.Second,
		cfg.Assistant.AutomationMethod,
	)

	// 6. WebSocket Hub + Directive Dispatcher
	wsLogger := logger.NewIsolatedLogger("logs/assistant_ws.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	dispatcherService := service.NewDispatcherService(
		pubSub,
		cfg.Assistant.EventTopic,
		wsHub,
		wsLogger,
	)

	assistantWsHandler := handler.NewAssistantWsHandler(assistantService, wsHub, sysLogger)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		DispatcherService:   dispatcherService,
		AssistantWsHandler:  assistantWsHandler,
		WebSocketHub:        wsHub,
	}
}
