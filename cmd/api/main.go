package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-matcher/internal/api"
	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LogOptions{
		Level: cfg.Log.Level,
		Mode:  cfg.Log.Mode,
		File:  cfg.Log.File,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("catalog_base_url", cfg.Catalog.BaseURL),
		zap.Duration("refresh_interval", cfg.Catalog.RefreshInterval),
		zap.Float64("match_threshold", cfg.Match.Threshold),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 初始化搜尋結果快取
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	// Redis 連不上時只關閉共享快取，不影響服務啟動
	payloadCache, err := cache.NewService(ctx, cfg.Redis)
	if err != nil {
		common.LogWarn("Redis 目錄快取不可用，略過", zap.Error(err))
		payloadCache = nil
	}
	defer payloadCache.Close()

	// 目錄快照
	var store *catalog.Store
	if payloadCache.Enabled() {
		store = catalog.NewStore(catalog.NewClient(cfg.Catalog), payloadCache)
	} else {
		store = catalog.NewStore(catalog.NewClient(cfg.Catalog), nil)
	}

	// 第一次載入失敗不中止，/ready 會回報尚未就緒，定期更新會再嘗試
	if _, _, err := store.Refresh(ctx); err != nil {
		common.LogError("初次載入目錄失敗", zap.Error(err))
	}
	go store.Start(ctx, cfg.Catalog.RefreshInterval)

	// 設置路由
	router, err := api.SetupRouter(cfg, store, cacheManager)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")
	stop()

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
