package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artmart/internal/config"
	"artmart/internal/database/db_client"
	"artmart/internal/database/seed"
	"artmart/internal/http/http_server"
	"artmart/internal/redis/auctioncache"
	"artmart/internal/redis/redis_client"
	"artmart/internal/services/auction"
	"artmart/internal/services/item"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis (auction read cache)
	redisClient, err := redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()
	cache := auctioncache.New(redisClient, time.Duration(cfg.AuctionCacheTTL)*time.Second)

	// 4. Postgres + schema migrations
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()
	if err := db_client.Migrate(pgDb); err != nil {
		Log.Fatal("pg-migrate", zap.Error(err))
	}

	// 5. Optional sample catalog for development databases
	if cfg.SeedSampleData {
		if err := seed.Run(ctx, pgDb); err != nil {
			Log.Fatal("seed", zap.Error(err))
		}
	}

	// 6. Services
	auctionService := auction.NewAuctionService(pgDb, cache)
	itemService := item.NewItemService(pgDb, cache)

	// 7. HTTP server, shut down when the signal context fires
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, auctionService, itemService)
	go func() {
		<-ctx.Done()
		_ = httpServer.Dispose()
	}()
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
