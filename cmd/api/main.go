package main

import (
	"context"
	"log"
	"time"

	"foodbridge-api-server/config"
	"foodbridge-api-server/internal/api/routes"
	"foodbridge-api-server/internal/auth"
	"foodbridge-api-server/internal/database"
	"foodbridge-api-server/internal/logging"
	"foodbridge-api-server/internal/maps"
	"foodbridge-api-server/internal/s3"
	"foodbridge-api-server/internal/socket"
	"foodbridge-api-server/internal/store"
	"foodbridge-api-server/internal/workflow"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	logger := logging.NewLogger(cfg.Server.LogLevel)

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET must be configured")
	}
	auth.JwtSecret = []byte(cfg.JWT.Secret)

	tokenTTL := 24 * time.Hour
	if cfg.JWT.Expiration != "" {
		ttl, err := time.ParseDuration(cfg.JWT.Expiration)
		if err != nil {
			log.Fatalf("Invalid JWT expiration %q: %v", cfg.JWT.Expiration, err)
		}
		tokenTTL = ttl
	}

	db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	stores := routes.Stores{
		Listings:      store.NewMongoListingStore(db),
		Collections:   store.NewMongoCollectionStore(db),
		Notifications: store.NewMongoNotificationStore(db),
		Users:         store.NewMongoUserStore(db),
	}

	if err := database.SeedAdmin(stores.Users, cfg.Admin, logger); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	wsHub := socket.NewHub(logger)

	var mapsClient *maps.Client
	if cfg.Maps.APIKey != "" {
		mapsClient = maps.NewClient(cfg.Maps.APIKey, cfg.Maps.Endpoint)
	} else {
		logger.Warn("maps API key not configured, geocoding disabled and distances use great-circle fallback")
	}

	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploader: %v", err)
		}
	} else {
		logger.Warn("S3 bucket not configured, proof photo uploads disabled")
	}

	wf := workflow.NewService(stores.Listings, stores.Collections, stores.Notifications, wsHub, logger)

	sweepInterval := time.Minute
	if cfg.Sweep.Interval != "" {
		interval, err := time.ParseDuration(cfg.Sweep.Interval)
		if err != nil {
			log.Fatalf("Invalid sweep interval %q: %v", cfg.Sweep.Interval, err)
		}
		sweepInterval = interval
	}
	sweeper := workflow.NewSweeper(wf, sweepInterval)
	go sweeper.Run(context.Background())

	router := routes.SetupRouter(stores, wf, mapsClient, s3Uploader, wsHub, tokenTTL, logger)

	logger.Info("starting API server", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
