package main

// @title Trip Stamp Microservice API
// @version 1.0.0
// @description Сервис планирования поездок с паспортными штампами. Разбирает список мест, геокодирует их во внешнем AI-сервисе, строит маршрут и описание карты, генерирует декоративные штампы и хранит сохраненные поездки в долговременном строковом хранилище.
// @description
// @description Основные возможности:
// @description - Геокодирование списка мест с разбиением на найденные и пропущенные
// @description - Паспортные штампы с AI-картинками и кастомные иконки маркеров
// @description - Описание карты с планом перерисовки только затронутых слоев
// @description - Сохранение, загрузка, импорт/экспорт и двухфазное удаление поездок

// @contact.name API Support
// @contact.email support@tripstamp-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tripstamp-microservice/docs"
	"github.com/tripstamp-microservice/internal/config"
	httpDelivery "github.com/tripstamp-microservice/internal/delivery/http"
	"github.com/tripstamp-microservice/internal/delivery/http/handler"
	"github.com/tripstamp-microservice/internal/domain/repository"
	"github.com/tripstamp-microservice/internal/infrastructure/geocoder"
	"github.com/tripstamp-microservice/internal/infrastructure/stampgen"
	"github.com/tripstamp-microservice/internal/pkg/logger"
	"github.com/tripstamp-microservice/internal/repository/cache"
	"github.com/tripstamp-microservice/internal/repository/postgres"
	"github.com/tripstamp-microservice/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Trip Stamp Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Отсутствие ключа не блокирует запуск: внешние вызовы деградируют
	// в путь ошибки с предупреждением
	if cfg.AI.APIKey == "" {
		log.Warn("AI_API_KEY is not set, geocoding and image generation will be unavailable")
	}

	// 3. Connect to Redis (геокод-кеш и, по умолчанию, хранилище поездок)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Select trip store driver
	var tripStore repository.TripStoreRepository
	var pgDB *postgres.DB

	switch cfg.Storage.Driver {
	case "postgres":
		pgDB, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := pgDB.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		tripStore, err = postgres.NewTripStore(pgDB)
		if err != nil {
			log.Fatal("Failed to initialize PostgreSQL trip store", zap.Error(err))
		}
	case "redis":
		tripStore = cache.NewTripStore(redisClient, cfg.Storage.KeyPrefix)
	default:
		log.Fatal("Unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	if pgDB != nil {
		if err := pgDB.Health(ctx); err != nil {
			log.Fatal("PostgreSQL health check failed", zap.Error(err))
		}
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	geocodingRepo := geocoder.NewGeocoderClient(&cfg.Geocoder, cfg.AI.APIKey, log)
	stampImageRepo := stampgen.NewStampGenClient(&cfg.ImageGen, cfg.AI.APIKey, log)

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	sessions := usecase.NewSessionRegistry()

	routeUC := usecase.NewRouteUseCase(
		geocodingRepo,
		cacheRepo,
		log,
		cfg.Cache.GeocodeCacheTTL,
	)

	tripUC := usecase.NewTripUseCase(tripStore, log)

	stampUC := usecase.NewStampUseCase(stampImageRepo, log)

	mapUC := usecase.NewMapViewUseCase(
		log,
		cfg.Map.RefitSettleDelay,
		cfg.Map.BoundsPadding,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers
	routeHandler := handler.NewRouteHandler(routeUC, sessions, log)
	tripHandler := handler.NewTripHandler(tripUC, sessions, log)
	stampHandler := handler.NewStampHandler(stampUC, sessions, log)
	mapViewHandler := handler.NewMapViewHandler(mapUC, sessions, log)

	// 9. Start HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		routeHandler,
		tripHandler,
		stampHandler,
		mapViewHandler,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	log.Info("Server stopped")
}
