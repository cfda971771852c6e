package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogOptions 日誌輸出設定；File 為空時只輸出到終端
type LogOptions struct {
	Level string
	Mode  string // "concise" 時 LogInfo 只輸出 conciseMessages 內的訊息
	File  string
}

var (
	// Logger 全局日誌實例；InitLogger 之前為 no-op，方便測試與套件初始化時呼叫
	Logger = zap.NewNop()

	concise bool

	conciseMessages = map[string]bool{
		"請求完成":                    true,
		"啟動應用":                    true,
		"目錄快照已更新":                 true,
		"Server exited":           true,
		"Shutting down server...": true,
	}
)

func encoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}
	return cfg
}

// InitLogger 依設定建立終端與檔案輸出；無法辨識的級別視為 info
func InitLogger(opts LogOptions) error {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(true)), zapcore.Lock(os.Stdout), level),
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig(false)), zapcore.AddSync(f), level))
	}

	setLogger(zap.New(zapcore.NewTee(cores...),
		zap.AddCallerSkip(1),
		zap.Fields(zap.String("service", "recipe-matcher")),
	), opts.Mode)
	zap.ReplaceGlobals(Logger)
	return nil
}

func setLogger(l *zap.Logger, mode string) {
	Logger = l
	concise = strings.EqualFold(mode, "concise")
}

// filterFields 過濾掉原始目錄內容等大型欄位，避免整份 JSON 寫進日誌
func filterFields(fields []zap.Field) []zap.Field {
	filtered := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if field.Key == "payload" || strings.Contains(field.Key, "raw_body") {
			continue
		}
		filtered = append(filtered, field)
	}
	return filtered
}

func LogInfo(msg string, fields ...zap.Field) {
	if concise && !conciseMessages[msg] {
		return
	}
	Logger.Info(msg, filterFields(fields)...)
}

func LogError(msg string, fields ...zap.Field) {
	Logger.Error(msg, filterFields(fields)...)
}

func LogWarn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, filterFields(fields)...)
}

func LogDebug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, filterFields(fields)...)
}

func LogFatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
}

// Sync 同步日誌緩衝
func Sync() {
	_ = Logger.Sync()
}

func LogCacheHit(cacheType string) {
	LogDebug("快取命中", zap.String("類型", cacheType))
}

func LogCacheMiss(cacheType string) {
	LogDebug("快取未命中", zap.String("類型", cacheType))
}
