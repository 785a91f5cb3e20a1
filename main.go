package main

import (
	"context"
	"log"
	"time"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/cmd"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/data/repository/sqlite"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/pricing"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/internal/wire"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/database"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/events"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/razorpay"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	// Load pricing table
	table, err := pricing.Load(config.Pricing.File)
	if err != nil {
		logger.Fatal("Failed to load pricing table", zap.Error(err))
	}
	logger.Info("Pricing table loaded",
		zap.String("version", table.Version()),
		zap.Int("plans", len(table.Plans())),
	)

	if config.Database.AutoMigrate {
		if err := database.MigrateUp(config.Database); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	// Connect to database
	var repos *repository.Repository
	switch config.Database.Driver {
	case utils.DriverSQLite:
		db, err := database.InitSQLite(config.Database.SQLitePath)
		if err != nil {
			logger.Fatal("Failed to open sqlite database", zap.Error(err))
		}
		defer db.Close()
		repos = sqlite.NewRepository(db, logger)
	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repos = repository.NewRepository(db, logger)
	}
	logger.Info("Database connected successfully")

	gateway, err := razorpay.NewClient(razorpay.Config{
		KeyID:     config.Razorpay.KeyID,
		KeySecret: config.Razorpay.KeySecret,
		BaseURL:   config.Razorpay.BaseURL,
		Timeout:   config.Razorpay.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to init payment gateway", zap.Error(err))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(config.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafkaPublisher(config.Kafka.Brokers, config.Kafka.PaymentTopic, logger)
		if err != nil {
			logger.Fatal("Failed to connect to kafka", zap.Error(err))
		}
		publisher = kafka
	}
	defer publisher.Close()

	var redisClient *redis.Client
	if config.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, rate limiting will fail open", zap.Error(err))
		}
		cancel()
	}

	// Wire all dependencies
	app := wire.Wiring(repos, wire.Dependencies{
		Gateway:   gateway,
		Pricing:   table,
		Publisher: publisher,
		Redis:     redisClient,
	}, config, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
