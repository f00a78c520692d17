package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/xujunlin/mydjango/internal/captcha"
	"github.com/xujunlin/mydjango/internal/config"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/handler"
	"github.com/xujunlin/mydjango/internal/logger"
	"github.com/xujunlin/mydjango/internal/router"
	"github.com/xujunlin/mydjango/internal/search"
	"github.com/xujunlin/mydjango/internal/sms"
	"github.com/xujunlin/mydjango/internal/storage"
	"github.com/xujunlin/mydjango/internal/verify"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseDSN,
		ReadDSNs: cfg.DatabaseReadDSNs,
		LogLevel: gormlogger.Warn,
	}, zl); err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := db.EnsureSuperRoot(cfg.SuperRootUserName, cfg.SuperRootPassword, cfg.SuperRootMobile); err != nil {
		zl.Fatal("failed to ensure super root", zap.Error(err))
	}

	store, closeStore := buildVerifyStore(cfg, zl)
	defer closeStore()

	uploader, err := storage.New(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize storage", zap.Error(err))
	}

	indexer := buildIndexer(cfg, zl)
	defer indexer.Close()

	api := handler.NewAPI(db.DB, handler.Options{
		Logger:        zl,
		VerifyStore:   store,
		Captcha:       captcha.New(),
		SMS:           sms.NewLogSender(zl),
		Uploader:      uploader,
		StorageDomain: cfg.StorageDomain,
		Fetcher:       storage.NewHTTPFetcher(nil),
		SiteDomain:    cfg.SiteDomain,
		Indexer:       indexer,
		IndexTagIDs:   cfg.SearchIndexTagIDs,
	})

	reindex, err := search.NewReindexTask(cfg.SearchReindexSpec, api.News(), indexer, zl)
	if err != nil {
		zl.Fatal("failed to schedule reindex task", zap.Error(err))
	}
	reindex.Start()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(api, cfg, zl),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down")

	<-reindex.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
}

func buildVerifyStore(cfg config.AppConfig, zl *zap.Logger) (verify.Store, func()) {
	if cfg.VerifyStore == "redis" {
		client, err := verify.NewRedisClient(verify.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			zl.Fatal("failed to connect redis", zap.Error(err))
		}
		return verify.NewRedisStore(client), func() { client.Close() }
	}

	store, err := verify.NewMemoryStore(0)
	if err != nil {
		zl.Fatal("failed to create memory verification store", zap.Error(err))
	}
	zl.Warn("using in-process verification store")
	return store, func() {}
}

func buildIndexer(cfg config.AppConfig, zl *zap.Logger) search.Indexer {
	if len(cfg.KafkaBrokers) == 0 {
		return search.NopIndexer{}
	}
	return search.NewKafkaIndexer(cfg.KafkaBrokers, cfg.KafkaIndexTopic, zl)
}
