package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/metrics"
	"github.com/wyfcoding/pkg/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/application"
	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/domain"
	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/infrastructure/messaging"
	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/infrastructure/persistence/mysql"
	dispatcherredis "github.com/nobaplatform/notification-dispatcher/internal/dispatcher/infrastructure/persistence/redis"
	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/infrastructure/sender"
	"github.com/nobaplatform/notification-dispatcher/internal/dispatcher/interfaces/consumer"
	httphandler "github.com/nobaplatform/notification-dispatcher/internal/dispatcher/interfaces/http"
)

// ServiceName 服务标识
const ServiceName = "notification-dispatcher"

var configPath = flag.String("config", "configs/dispatcher/config.toml", "config file path")

// Config 扩展配置结构
type Config struct {
	config.Config `mapstructure:",squash"`
	Dispatcher    DispatcherConfig `mapstructure:"dispatcher"`
}

// DispatcherConfig 调度服务自身的静态配置
type DispatcherConfig struct {
	FromEmail       string `mapstructure:"from_email"`
	ComplianceEmail string `mapstructure:"compliance_email"`
	SupportURL      string `mapstructure:"support_url"`
	EventsTopic     string `mapstructure:"events_topic"`
	ConsumerGroup   string `mapstructure:"consumer_group"`
	EmailAPIURL     string `mapstructure:"email_api_url"`
	EmailAPIKey     string `mapstructure:"email_api_key"`
	SMSAPIURL       string `mapstructure:"sms_api_url"`
	SMSAPIKey       string `mapstructure:"sms_api_key"`
	PushAPIURL      string `mapstructure:"push_api_url"`
	RateLimitQPS    int    `mapstructure:"rate_limit_qps"`
	RateLimitBurst  int    `mapstructure:"rate_limit_burst"`
}

func main() {
	flag.Parse()

	// 1. Config
	var cfg Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. Metrics
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. Infrastructure
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(
			&mysql.TemplateModel{},
			&mysql.ChannelConfigModel{},
			&mysql.WebhookEndpointModel{},
			&mysql.DeliveryModel{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)

	// 5. Repositories
	templateRepo := mysql.NewTemplateRepository(db.RawDB())
	deliveryRepo := mysql.NewDeliveryRepository(db.RawDB())
	configRepo := dispatcherredis.NewCachedChannelConfigRepository(
		redisCache.GetClient(),
		mysql.NewChannelConfigRepository(db.RawDB()),
	)

	// 6. Transports
	var (
		emailTransport   domain.EmailTransport
		smsTransport     domain.SMSTransport
		pushTransport    domain.PushTransport
		webhookTransport domain.WebhookTransport
	)
	if cfg.Server.Environment == "dev" {
		emailTransport = sender.NewMockEmailSender()
		smsTransport = sender.NewMockSMSSender()
		pushTransport = sender.NewMockPushSender()
		webhookTransport = sender.NewMockWebhookSender()
	} else {
		emailTransport = sender.NewEmailAPISender(cfg.Dispatcher.EmailAPIURL, cfg.Dispatcher.EmailAPIKey)
		smsTransport = sender.NewSMSAPISender(cfg.Dispatcher.SMSAPIURL, cfg.Dispatcher.SMSAPIKey)
		pushTransport = sender.NewPushAPISender(cfg.Dispatcher.PushAPIURL)
		webhookTransport = sender.NewWebhookSender()
	}

	// 7. Application Services
	senderCfg := application.SenderConfig{
		FromEmail:       cfg.Dispatcher.FromEmail,
		ComplianceEmail: cfg.Dispatcher.ComplianceEmail,
		SupportURL:      cfg.Dispatcher.SupportURL,
	}
	catalog := application.NewTemplateCatalog(templateRepo)
	dispatcher := application.NewDispatcher(
		configRepo,
		deliveryRepo,
		messaging.NewKafkaEventPublisher(kafkaProducer),
		logger.Logger,
		application.NewEmailHandler(catalog, emailTransport, senderCfg),
		application.NewSMSHandler(catalog, smsTransport),
		application.NewPushHandler(catalog, pushTransport),
		application.NewWebhookHandler(configRepo, webhookTransport),
	)
	appService := application.NewNotificationService(dispatcher, templateRepo, deliveryRepo)

	// 8. Kafka Consumer
	consumerCfg := cfg.MessageQueue.Kafka
	if cfg.Dispatcher.EventsTopic != "" {
		consumerCfg.Topic = cfg.Dispatcher.EventsTopic
	}
	if consumerCfg.GroupID == "" {
		consumerCfg.GroupID = cfg.Dispatcher.ConsumerGroup
	}
	eventHandler := consumer.NewDomainEventHandler(appService, logger.Logger)
	eventConsumer := kafka.NewConsumer(&consumerCfg, logger, metricsImpl)
	eventConsumer.Start(context.Background(), 3, eventHandler.Handle)

	// 9. HTTP
	if cfg.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.HTTPMetricsMiddleware(metricsImpl), middleware.CORS())

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "UP",
				"service":   ServiceName,
				"timestamp": time.Now().Unix(),
			})
		})
		sys.GET("/ready", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "READY"})
		})
	}
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metricsImpl.Handler()))
	}

	httpHandler := httphandler.NewDispatcherHandler(appService)
	httpHandler.RegisterRoutes(r, httphandler.RateLimit(redisCache.GetClient(), httphandler.RateLimitConfig{
		QPS:   cfg.Dispatcher.RateLimitQPS,
		Burst: cfg.Dispatcher.RateLimitBurst,
	}))

	// 10. Start
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		_ = eventConsumer.Close()
		redisCache.Close()
		if sqlDB, err := db.RawDB().DB(); err == nil {
			_ = sqlDB.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
