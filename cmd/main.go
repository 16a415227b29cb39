package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pepagora/internal/app/catalog/config"
	"pepagora/internal/app/catalog/handler"
	"pepagora/internal/app/catalog/processor"
	"pepagora/internal/app/catalog/repository"
	"pepagora/internal/app/catalog/service"
	"pepagora/internal/app/catalog/util"
	"pepagora/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("pepagora-catalog", cfg.LogLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	mongoClient, err := connectMongoDB(cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.Mongo.DBName).Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.DBName)

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Кеш списка категорий и счетчиков
	redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	// === KAFKA PRODUCER ===
	// События изменений каталога для downstream-потребителей
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	// === РЕПОЗИТОРИИ ===
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subcategoryRepo := repository.NewSubcategoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	// === БИЗНЕС-ЛОГИКА ===
	jwtManager := util.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.AccessTokenDuration, cfg.JWT.RefreshTokenDuration)

	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(categoryRepo, subcategoryRepo, productRepo, redisClient, kafkaProducer)

	// === HTTP ===
	authMiddleware := handler.NewAuthMiddleware(jwtManager)
	router := handler.SetupRoutes(handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.JWT.RefreshTokenDuration, cfg.IsProduction()),
		User:        handler.NewUserHandler(userService),
		Category:    handler.NewCategoryHandler(catalogService),
		Subcategory: handler.NewSubcategoryHandler(catalogService),
		Product:     handler.NewProductHandler(catalogService),
	}, authMiddleware, cfg.Frontend.URL)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === RECONCILER ===
	// Периодическая пересборка mapped_children; включается расписанием в env
	if cfg.ReconcileSchedule != "" {
		reconciler := processor.NewChildrenReconciler(categoryRepo, subcategoryRepo, productRepo)
		if err := reconciler.Start(context.Background(), cfg.ReconcileSchedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start children reconciler")
		}
		defer reconciler.Stop()
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Pepagora Catalog Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Pepagora Catalog Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Pepagora Catalog Service stopped gracefully")
}

// connectMongoDB подключается к MongoDB с повторными попытками
// При старте в Docker база может быть еще не готова
func connectMongoDB(cfg config.MongoConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			err = client.Ping(ctx, nil)
			if err == nil {
				cancel()
				return client, nil
			}
		}
		cancel()

		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
