package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/kvadrat/estate_go_server/config"
	"github.com/kvadrat/estate_go_server/internal/database"
	"github.com/kvadrat/estate_go_server/internal/pkg/pubsub"
	"github.com/kvadrat/estate_go_server/internal/repository"
	"github.com/kvadrat/estate_go_server/internal/service"
)

var once = flag.Bool("once", false, "Run a single sweep and exit")

// The sweeper expires subscriptions whose paid window has lapsed and opens
// renewal checkouts for auto-renewing ones. Safe to run concurrently with the
// server and with other sweeper instances: every candidate is re-checked
// under a row lock.
func main() {
	flag.Parse()

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

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}

	subRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	events := pubsub.NewPublisher(rdb)
	subscriptionService := service.NewSubscriptionService(db, subRepo, planRepo, events, cfg.Billing.Currency)

	if *once {
		sweep(subscriptionService)
		return
	}

	interval := time.Duration(cfg.Sweeper.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	log.Printf("Sweeper starting, interval %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep(subscriptionService)
	for range ticker.C {
		sweep(subscriptionService)
	}
}

func sweep(svc *service.SubscriptionService) {
	expired, renewed, err := svc.SweepExpired(time.Now().UTC())
	if err != nil {
		log.Printf("Sweep failed: %v", err)
		return
	}
	if expired > 0 || renewed > 0 {
		log.Printf("Sweep done: %d expired, %d renewals opened", expired, renewed)
	}
}
