package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messaging-service/internal/chat"
	"messaging-service/internal/config"
	"messaging-service/internal/db"
	"messaging-service/internal/delivery"
	"messaging-service/internal/handlers"
	"messaging-service/internal/middleware"
	"messaging-service/internal/notify"
	"messaging-service/internal/observability"
	"messaging-service/internal/presence"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
	"messaging-service/internal/telemetry"
	"messaging-service/internal/ws"
)

const serviceName = "messaging-service"

func main() {
	// Local development convenience; the file is absent in deployments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	shutdownTracing, err := observability.InitTracing(context.Background(), cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown failed: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	audit := telemetry.NewAuditEmitter(publisher, "audit.logs", serviceName, cfg.Environment)

	userRepo := repositories.NewUserRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	deliveryRepo := repositories.NewDeliveryRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)

	registry := presence.NewRegistry()
	hub := ws.NewHub()

	tracker := delivery.NewTracker(deliveryRepo)
	fanout := notify.NewFanout(notificationRepo, hub)
	chatService := chat.NewService(userRepo, groupRepo, messageRepo, tracker, fanout, hub)

	lifecycle := ws.NewLifecycle(registry, userRepo, hub)
	wsHandler := ws.NewHandler(hub, lifecycle, chatService)

	messageHandler := handlers.NewMessageHandler(chatService, audit)
	notificationHandler := handlers.NewNotificationHandler(fanout)
	groupHandler := handlers.NewGroupHandler(groupRepo, userRepo, audit)
	presenceHandler := handlers.NewPresenceHandler(registry)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", wsHandler.Handle)
	handlers.RegisterDebugRoutes(router, audit, cfg.Debug)

	authMiddleware := middleware.AuthMiddleware([]byte(cfg.JWTSecret))

	router.POST("/messages", authMiddleware, messageHandler.SendMessage)
	router.GET("/messages/conversation/:user_id", authMiddleware, messageHandler.GetConversation)
	router.GET("/messages/unread/count", authMiddleware, messageHandler.UnreadCount)
	router.POST("/messages/status/:status_id/read", authMiddleware, messageHandler.MarkRead)

	router.POST("/groups", authMiddleware, groupHandler.CreateGroup)
	router.GET("/groups", authMiddleware, groupHandler.ListGroups)
	router.GET("/groups/:group_id/members", authMiddleware, groupHandler.GetGroupMembers)
	router.GET("/groups/:group_id/messages", authMiddleware, messageHandler.GetGroupMessages)
	router.GET("/groups/:group_id/notifications", authMiddleware, notificationHandler.ListForGroup)

	router.GET("/notifications", authMiddleware, notificationHandler.List)
	router.GET("/notifications/unread", authMiddleware, notificationHandler.ListUnread)
	router.GET("/notifications/unread/count", authMiddleware, notificationHandler.UnreadCount)
	router.GET("/notifications/:notification_id", authMiddleware, notificationHandler.Get)
	router.POST("/notifications/:notification_id/read", authMiddleware, notificationHandler.MarkRead)
	router.POST("/notifications/read-all", authMiddleware, notificationHandler.MarkAllRead)
	router.DELETE("/notifications/:notification_id", authMiddleware, notificationHandler.Delete)

	router.GET("/presence/online", authMiddleware, presenceHandler.OnlineUsers)

	log.Printf("listening on :%s environment=%s", cfg.HTTPPort, cfg.Environment)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
