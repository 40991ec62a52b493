package bootstrap

import (
	"context"
	"log"

	"ai-storyboard-be/internal/config"
	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/controller"
	"ai-storyboard-be/internal/handler"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/pkg/mailer"
	"ai-storyboard-be/internal/repository/memory"
	"ai-storyboard-be/internal/repository/unitofwork"
	"ai-storyboard-be/internal/service"
	"ai-storyboard-be/internal/websocket"
	"ai-storyboard-be/pkg/events"
	"ai-storyboard-be/pkg/imagegen/leonardo"
	"ai-storyboard-be/pkg/llm"
	"ai-storyboard-be/pkg/llm/factory"
	"ai-storyboard-be/pkg/storyboard"

	pktNats "ai-storyboard-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController         controller.IChatController
	ConversationController controller.IConversationController
	BillingController      controller.IBillingController
	StoryboardController   controller.IStoryboardController
	WebhookController      controller.IWebhookController

	Logger logger.ILogger

	// Backs the provisioning middleware on authenticated routes.
	UserService       service.IUserService
	StoryboardService service.IStoryboardService

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	// 2. Scene refresh queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)

	// 3. Event bus. Missing NATS degrades to no events rather than a crash.
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Upstream providers
	llmProvider, err := factory.NewStreamingProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	systemPrompt := cfg.Ai.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = constant.DefaultSystemPrompt
	}
	gateway := llm.NewCompletionGateway(llmProvider, systemPrompt, llm.NewContextWindow(cfg.Ai.ContextWindow))

	imageClient := leonardo.NewClient(
		cfg.Image.LeonardoBaseURL,
		cfg.Image.LeonardoAPIKey,
		cfg.Image.LeonardoModelID,
		cfg.Image.LeonardoStyleUUID,
		storyboard.ImageNegativePrompt,
	)

	// 5. Services
	tokenService := service.NewTokenService(uowFactory, eventPublisher, sysLogger, service.TokenServiceConfig{
		SignupBonus:         cfg.Billing.SignupBonus,
		LowBalanceThreshold: cfg.Billing.LowBalanceAt,
	})
	userService := service.NewUserService(uowFactory, tokenService, memory.NewProvisionedUserCache(), sysLogger)
	conversationService := service.NewConversationService(uowFactory, sysLogger)

	publisherService := service.NewPublisherService(service.SceneRefreshTopic, pubSub)
	scheduler := service.NewSceneRefreshScheduler(publisherService, cfg.Storyboard.RefreshInterval, sysLogger)
	storyboardService := service.NewStoryboardService(uowFactory, conversationService, imageClient, scheduler, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		service.SceneRefreshTopic,
		storyboardService,
		scheduler,
		eventPublisher,
		cfg.Storyboard.RefreshMaxAttempts,
		sysLogger,
	)

	chatService := service.NewChatService(
		conversationService,
		tokenService,
		gateway,
		storyboardService,
		cfg.Ai.StreamTimeout,
		sysLogger,
	)

	billingService := service.NewBillingService(
		uowFactory,
		tokenService,
		service.NewSnapClient(cfg.Billing.MidtransServerKey, cfg.Billing.MidtransProduction),
		emailService,
		memory.NewBillingEventCache(),
		service.BillingServiceConfig{
			MidtransServerKey: cfg.Billing.MidtransServerKey,
			ClientURL:         cfg.App.ClientURL,
			PortalURL:         cfg.Billing.PortalURL,
		},
		sysLogger,
	)

	// 6. Notification System. The hub implements NotificationDelivery.
	var notifService *service.NotificationService
	if natsSub != nil {
		notifService = service.NewNotificationService(natsSub, wsHub, wsLogger)
	}
	notifHandler := handler.NewNotificationHandler(wsHub, cfg.Auth.JWTSecret, wsLogger)

	// 7. Controllers
	return &Container{
		ChatController:         controller.NewChatController(chatService),
		ConversationController: controller.NewConversationController(conversationService),
		BillingController:      controller.NewBillingController(billingService),
		StoryboardController:   controller.NewStoryboardController(storyboardService),
		WebhookController:      controller.NewWebhookController(billingService, cfg.Billing.WebhookUsername, cfg.Billing.WebhookPassword),

		Logger:            sysLogger,
		UserService:       userService,
		StoryboardService: storyboardService,

		ConsumerService:     consumerService,
		NotificationService: notifService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
