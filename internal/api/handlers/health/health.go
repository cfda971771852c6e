package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Catalog   catalog.Status         `json:"catalog"`
	Cache     map[string]interface{} `json:"cache"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg   *config.Config
	store *catalog.Store
	cache *cache.Manager
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, store *catalog.Store, cacheManager *cache.Manager) *Handler {
	return &Handler{cfg: cfg, store: store, cache: cacheManager}
}

// HealthCheck 健康檢查；目錄尚未載入時狀態為 degraded
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := h.store.Status()
	state := "ok"
	if !status.Ready {
		state = "degraded"
	}

	response := HealthResponse{
		Status:    state,
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Catalog:   status,
		Cache:     h.cache.GetStats(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("status", state),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：目錄快照載入後才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	status := h.store.Status()
	if !status.Ready {
		notReady := common.ErrServiceUnavailable
		c.JSON(notReady.Status, gin.H{
			"status":     "not_ready",
			"error":      notReady.Message,
			"code":       notReady.Code,
			"last_error": status.LastError,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"version": status.Version,
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
