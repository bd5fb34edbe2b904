package main

import (
	"context"
	"log"
	"time"

	"experience-booking/cmd"
	"experience-booking/internal/data/cache"
	"experience-booking/internal/data/repository"
	"experience-booking/internal/seed"
	"experience-booking/internal/wire"
	"experience-booking/pkg/database"
	"experience-booking/pkg/mq"
	"experience-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	startupCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(startupCtx, db); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	repos := repository.NewRepository(db, logger)

	if config.App.SeedOnStart {
		if err := seed.NewSeeder(repos, logger).Run(startupCtx); err != nil {
			// the service still works against whatever data exists
			logger.Error("Failed to seed sample data", zap.Error(err))
		}
	}

	// Optional experience cache
	redisClient, err := cache.NewRedis(config.Redis.URL)
	if err != nil {
		logger.Warn("Redis unavailable, experience cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info("Redis connected", zap.Duration("ttl", config.Redis.CacheTTL))
	}
	experienceCache := cache.NewExperienceCache(redisClient, config.Redis.CacheTTL, logger)

	// Optional booking events
	var publisher mq.Publisher = mq.NopPublisher{}
	if config.MQ.URL != "" {
		p, err := mq.NewPublisher(config.MQ.URL, config.MQ.Exchange)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, booking events disabled", zap.Error(err))
		} else {
			publisher = p
			logger.Info("RabbitMQ connected", zap.String("exchange", config.MQ.Exchange))
		}
	}
	defer publisher.Close()

	// Wire all dependencies
	app := wire.Wiring(repos, experienceCache, publisher, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
