package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-matcher/internal/api/handlers"
	catalogHandler "recipe-matcher/internal/api/handlers/catalog"
	"recipe-matcher/internal/api/handlers/health"
	ingredientHandler "recipe-matcher/internal/api/handlers/ingredient"
	phoneticHandler "recipe-matcher/internal/api/handlers/phonetic"
	recipeHandler "recipe-matcher/internal/api/handlers/recipe"
	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 單一請求的處理時限；手動重新整理目錄也在此範圍內
const timeoutDuration = 30 * time.Second

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store *catalog.Store, cacheManager *cache.Manager) (*gin.Engine, error) {
	if cfg == nil || store == nil {
		return nil, fmt.Errorf("router requires config and catalog store")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.MaxBodySize))

	// 請求時限
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// 檢查是否超時
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			handlers.RespondError(c, common.ErrGatewayTimeout.Wrap(ctx.Err()))
		}
	})

	router.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, common.ErrNotFound)
	})

	// 目錄更新後清掉舊版本的搜尋結果
	store.OnChange(func(*catalog.Snapshot) {
		cacheManager.Purge()
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, store, cacheManager)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		ingredients := ingredientHandler.NewHandler(store, cacheManager, cfg.Match)
		api.GET("/ingredients", ingredients.Browse)
		api.GET("/ingredients/search", ingredients.Search)

		recipes := recipeHandler.NewHandler(store)
		api.POST("/pantry/match", recipes.HandlePantryMatch)
		api.POST("/recipes/by-ingredients", recipes.HandleByIngredients)

		phoneticGroup := api.Group("/phonetic")
		{
			phoneticGroup.GET("/normalize", phoneticHandler.Normalize)
			phoneticGroup.GET("/romanize", phoneticHandler.Romanize)
			phoneticGroup.GET("/variations", phoneticHandler.Variations)
		}

		catalogs := catalogHandler.NewHandler(store)
		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("/status", catalogs.Status)
			catalogGroup.POST("/refresh", middleware.Deduplication(cfg.DedupWindow), catalogs.Refresh)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("cache_enabled", cacheManager != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", cfg.MaxBodySize),
		zap.Duration("timeout", timeoutDuration),
	)

	return router, nil
}
