// Package catalog 提供目錄狀態查詢與手動重新整理 API。
package catalog

import (
	"net/http"

	"recipe-matcher/internal/api/handlers"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 目錄處理器
type Handler struct {
	store *catalog.Store
}

// NewHandler 創建目錄處理器
func NewHandler(store *catalog.Store) *Handler {
	return &Handler{store: store}
}

// Status GET /catalog/status
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Status())
}

// Refresh POST /catalog/refresh 立即重新讀取上游目錄
func (h *Handler) Refresh(c *gin.Context) {
	common.LogInfo("手動重新整理目錄", zap.String("request_id", requestid.Get(c)))

	_, changed, err := h.store.Refresh(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changed": changed,
		"status":  h.store.Status(),
	})
}
