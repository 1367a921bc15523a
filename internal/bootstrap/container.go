package bootstrap

import (
	"context"
	"fmt"

	"learnflow-be/internal/config"
	"learnflow-be/internal/controller"
	"learnflow-be/internal/handler"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/pkg/mailer"
	"learnflow-be/internal/pkg/serverutils"
	"learnflow-be/internal/repository/memory"
	"learnflow-be/internal/repository/unitofwork"
	"learnflow-be/internal/service"
	"learnflow-be/internal/websocket"
	"learnflow-be/pkg/llm/factory"
	pktNats "learnflow-be/pkg/nats"
	"learnflow-be/pkg/pgnotify"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	NoteController     controller.INoteController
	AIController       controller.IAIController
	CategoryController controller.ICategoryController
	RealtimeHandler    *handler.RealtimeHandler

	// Background workers, run by main
	ConsumerService service.IConsumerService
	NoteEvents      service.INoteEventService
	JanitorService  service.IJanitorService
	WebSocketHub    *websocket.Hub

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	tokenIssuer, err := serverutils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	secureCookies := cfg.IsProduction()
	authMiddleware := serverutils.JwtMiddleware(tokenIssuer, secureCookies)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		sysLogger,
	)

	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.BaseURL,
		APIKey:   cfg.Ai.APIKey,
		Referer:  cfg.Ai.Referer,
		AppTitle: cfg.Ai.AppTitle,
		Timeout:  cfg.Ai.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 2. Job bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Realtime
	realtimeLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	rdb := connectRedis(ctx, cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}
	c.WebSocketHub = websocket.NewHub(rdb, realtimeLogger)

	eventOpts := c.realtimeOptions(ctx, cfg, sysLogger, realtimeLogger)
	noteEvents, err := service.NewNoteEventService(eventOpts, uowFactory, c.WebSocketHub, realtimeLogger)
	if err != nil {
		return nil, err
	}
	c.NoteEvents = noteEvents

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Jobs.SummarizeTopic, pubSub)
	summaryService := service.NewSummaryService(uowFactory, llmProvider, noteEvents, sysLogger)
	qaService := service.NewQAService(uowFactory, llmProvider, noteEvents, sysLogger)
	noteService := service.NewNoteService(uowFactory, publisherService, sysLogger)
	categoryService := service.NewCategoryService(uowFactory, memory.NewCategoryCache(cfg.Cache.CategoryTTL))
	authService := service.NewAuthService(uowFactory, emailService, tokenIssuer, cfg.App.ClientURL, cfg.Auth.ResetTokenTTL, sysLogger)

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Jobs.SummarizeTopic, summaryService, sysLogger)
	c.JanitorService = service.NewJanitorService(
		uowFactory,
		noteEvents,
		cfg.Jobs.StaleProcessingAfter,
		cfg.Jobs.StaleSweepInterval,
		sysLogger,
	)

	// 5. Transport
	c.AuthController = controller.NewAuthController(authService, tokenIssuer, secureCookies)
	c.NoteController = controller.NewNoteController(noteService, authMiddleware)
	c.AIController = controller.NewAIController(summaryService, qaService, authMiddleware)
	c.CategoryController = controller.NewCategoryController(categoryService)
	c.RealtimeHandler = handler.NewRealtimeHandler(c.WebSocketHub, tokenIssuer, secureCookies, realtimeLogger)

	return c, nil
}

// realtimeOptions resolves the configured source. An unreachable NATS
// degrades to in-process delivery rather than failing startup.
func (c *Container) realtimeOptions(ctx context.Context, cfg *config.Config, sysLogger, realtimeLogger logger.ILogger) service.NoteEventOptions {
	switch cfg.App.RealtimeSource {
	case service.RealtimeSourceNats:
		nc, err := pktNats.Connect(cfg.App.NatsURL)
		if err == nil {
			var pub *pktNats.Publisher
			var sub *pktNats.Subscriber
			if pub, err = pktNats.NewPublisher(ctx, nc); err == nil {
				if sub, err = pktNats.NewSubscriber(nc, realtimeLogger); err == nil {
					c.closers = append(c.closers, func() {
						sub.Close()
						nc.Close()
					})
					return service.NoteEventOptions{
						Source:     service.RealtimeSourceNats,
						Publisher:  pub,
						Subscriber: sub,
					}
				}
			}
			closeNats(nc)
		}
		sysLogger.Warn("BOOTSTRAP", "NATS unavailable, falling back to local realtime delivery", map[string]interface{}{
			"error": err.Error(),
		})

	case service.RealtimeSourcePostgres:
		return service.NoteEventOptions{
			Source:   service.RealtimeSourcePostgres,
			Listener: pgnotify.NewListener(cfg.Database.Connection, pgnotify.DefaultChannel, realtimeLogger),
		}
	}

	return service.NoteEventOptions{Source: service.RealtimeSourceLocal}
}

func closeNats(nc *nats.Conn) {
	if nc != nil {
		nc.Close()
	}
}

// connectRedis returns nil when Redis is unreachable; the hub then only
// serves connections held by this instance.
func connectRedis(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unavailable, realtime fan-out is local only", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// Close releases broker connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
