// Package handlers 放置各 API 處理器共用的回應與參數工具。
package handlers

import (
	"strconv"
	"strings"

	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 記錄並回傳 {error, code}
func RespondError(c *gin.Context, err error) {
	status, body := common.NewErrorResponse(err, gin.Mode() == gin.DebugMode)

	fields := []zap.Field{
		zap.Error(err),
		zap.String("code", body.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= 500 {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求無效", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// QueryInt 讀取整數查詢參數；缺少時回傳預設值
func QueryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(name + " must be an integer")
	}
	return v, nil
}

// QueryFloat 讀取浮點數查詢參數；缺少時回傳預設值
func QueryFloat(c *gin.Context, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, common.NewValidationError(name + " must be a number")
	}
	return v, nil
}
