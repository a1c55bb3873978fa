package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kvadrat/estate_go_server/config"
	"github.com/kvadrat/estate_go_server/internal/api"
	"github.com/kvadrat/estate_go_server/internal/api/handler"
	"github.com/kvadrat/estate_go_server/internal/database"
	"github.com/kvadrat/estate_go_server/internal/pkg/cache"
	"github.com/kvadrat/estate_go_server/internal/pkg/oss"
	"github.com/kvadrat/estate_go_server/internal/pkg/pubsub"
	"github.com/kvadrat/estate_go_server/internal/pkg/ws"
	"github.com/kvadrat/estate_go_server/internal/repository"
	"github.com/kvadrat/estate_go_server/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init OSS client: %v", err)
		}
		log.Println("OSS client ready")
	} else {
		log.Println("OSS not configured, photo upload disabled")
	}

	wsHub := ws.NewHub()
	events := pubsub.NewPublisher(rdb)
	recommendations := cache.NewRecommendationCache(rdb)

	// Repositories
	agencyRepo := repository.NewAgencyRepository(db)
	adRepo := repository.NewAdRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services
	authService := service.NewAuthService(agencyRepo, cfg)
	planService := service.NewPlanService(planRepo)
	boostService := service.NewBoostService(subRepo, planRepo)
	adService := service.NewAdService(db, adRepo, boostService, ossClient, events)
	subscriptionService := service.NewSubscriptionService(db, subRepo, planRepo, events, cfg.Billing.Currency)
	paymentService := service.NewPaymentService(db, paymentRepo, subscriptionService, recommendations, events, cfg.Billing.Currency)

	// Seed the plan catalog from config.
	if err := planService.Seed(cfg.Billing.Plans); err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	}
	log.Printf("Plan catalog seeded (%d plans)", len(cfg.Billing.Plans))

	// Bridge lifecycle events onto the back-office websocket feed.
	go func() {
		subscriber := pubsub.NewSubscriber(rdb)
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.LifecycleMessage) {
			_ = wsHub.SendToAgency(msg.AgencyID, &ws.Message{
				Type: msg.Type,
				Data: msg,
			})
		})
		if err != nil {
			log.Printf("Lifecycle subscriber stopped: %v", err)
		}
	}()

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	adHandler := handler.NewAdHandler(adService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, paymentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	planHandler := handler.NewPlanHandler(planService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	router := api.NewRouter(
		authHandler,
		adHandler,
		subscriptionHandler,
		paymentHandler,
		planHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
