package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"recipe-matcher/internal/core/search"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Source 提供原始目錄資料
type Source interface {
	Fetch(ctx context.Context, resource string) ([]byte, error)
}

// PayloadCache 原始目錄資料的共享快取
type PayloadCache interface {
	GetPayload(ctx context.Context, name string) ([]byte, error)
	SetPayload(ctx context.Context, name string, data []byte) error
}

// 快照資料來源
const (
	OriginUpstream = "upstream"
	OriginCache    = "cache"
)

// Snapshot 某一時間點的目錄與其搜尋索引；建立後不可修改
type Snapshot struct {
	Version     string
	Origin      string
	LoadedAt    time.Time
	Ingredients []common.Ingredient
	Recipes     []common.Recipe
	Index       []search.EnrichedIngredient
}

// Status 目錄狀態，供健康檢查使用
type Status struct {
	Ready       bool      `json:"ready"`
	Version     string    `json:"version,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	Ingredients int       `json:"ingredients"`
	Indexed     int       `json:"indexed"`
	Recipes     int       `json:"recipes"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}

// Store 持有目前的目錄快照；讀取端只拿到不可變的 *Snapshot
type Store struct {
	source Source
	cache  PayloadCache

	refreshMu sync.Mutex

	mu          sync.RWMutex
	current     *Snapshot
	lastAttempt time.Time
	lastErr     error
	listeners   []func(*Snapshot)
}

// NewStore 創建快照存放區；cache 可為 nil
func NewStore(source Source, cache PayloadCache) *Store {
	return &Store{source: source, cache: cache}
}

// OnChange 註冊快照變更時的回呼
func (s *Store) OnChange(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current 目前的快照；尚未載入時為 nil
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Status 目錄狀態摘要
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{LastAttempt: s.lastAttempt}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if snap := s.current; snap != nil {
		st.Ready = true
		st.Version = snap.Version
		st.Origin = snap.Origin
		st.LoadedAt = snap.LoadedAt
		st.Ingredients = len(snap.Ingredients)
		st.Indexed = len(snap.Index)
		st.Recipes = len(snap.Recipes)
	}
	return st
}

// Refresh 重新讀取目錄。資料指紋未變時沿用舊快照，不重建索引；
// 上游失敗且尚無快照時改用 Redis 中的資料。回傳值 changed 表示快照是否被替換。
func (s *Store) Refresh(ctx context.Context) (snap *Snapshot, changed bool, err error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	defer func() {
		s.mu.Lock()
		s.lastAttempt = time.Now()
		s.lastErr = err
		s.mu.Unlock()
	}()

	origin := OriginUpstream
	ingData, recData, err := s.fetchUpstream(ctx)
	if err != nil {
		if cur := s.Current(); cur != nil {
			common.LogWarn("上游目錄讀取失敗，沿用目前快照",
				zap.String("version", cur.Version),
				zap.Error(err),
			)
			return cur, false, common.ErrCatalogFetch.Wrap(err)
		}

		cachedIng, cachedRec, cacheErr := s.loadCached(ctx)
		if cacheErr != nil {
			common.LogError("上游與快取皆無法提供目錄",
				zap.Error(err),
				zap.NamedError("cache_error", cacheErr),
			)
			return nil, false, common.ErrCatalogUnavailable.Wrap(err)
		}
		common.LogWarn("上游目錄讀取失敗，改用快取資料", zap.Error(err))
		ingData, recData, origin = cachedIng, cachedRec, OriginCache
	}

	version := fingerprint(ingData, recData)
	if cur := s.Current(); cur != nil && cur.Version == version {
		common.LogDebug("目錄未變更", zap.String("version", version))
		// redis 副本有 TTL，內容未變也要重寫以續期
		if origin == OriginUpstream {
			s.storeCached(ctx, ingData, recData)
		}
		return cur, false, nil
	}

	ingredients, err := DecodeIngredients(ingData)
	if err != nil {
		return s.Current(), false, common.ErrCatalogFetch.Wrap(err)
	}
	recipes, err := DecodeRecipes(recData)
	if err != nil {
		return s.Current(), false, common.ErrCatalogFetch.Wrap(err)
	}

	if origin == OriginUpstream {
		s.storeCached(ctx, ingData, recData)
	}

	start := time.Now()
	snap = &Snapshot{
		Version:     version,
		Origin:      origin,
		LoadedAt:    time.Now(),
		Ingredients: ingredients,
		Recipes:     recipes,
		Index:       search.BuildIndex(ingredients),
	}

	s.mu.Lock()
	s.current = snap
	listeners := append([]func(*Snapshot){}, s.listeners...)
	s.mu.Unlock()

	common.LogInfo("目錄快照已更新",
		zap.String("version", version),
		zap.String("origin", origin),
		zap.Int("ingredients", len(ingredients)),
		zap.Int("indexed", len(snap.Index)),
		zap.Int("recipes", len(recipes)),
		zap.Duration("索引耗時", time.Since(start)),
	)

	for _, fn := range listeners {
		fn(snap)
	}
	return snap, true, nil
}

// Start 依固定間隔重新整理，直到 ctx 結束
func (s *Store) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			common.LogInfo("目錄定期更新已停止")
			return
		case <-ticker.C:
			if _, _, err := s.Refresh(ctx); err != nil {
				common.LogWarn("定期更新目錄失敗", zap.Error(err))
			}
		}
	}
}

func (s *Store) fetchUpstream(ctx context.Context) ([]byte, []byte, error) {
	ingData, err := s.source.Fetch(ctx, ResourceIngredients)
	if err != nil {
		return nil, nil, err
	}
	recData, err := s.source.Fetch(ctx, ResourceRecipes)
	if err != nil {
		return nil, nil, err
	}
	return ingData, recData, nil
}

func (s *Store) loadCached(ctx context.Context) ([]byte, []byte, error) {
	if s.cache == nil {
		return nil, nil, common.ErrCacheDisabled
	}
	ingData, err := s.cache.GetPayload(ctx, ResourceIngredients)
	if err != nil {
		return nil, nil, fmt.Errorf("cached ingredients: %w", err)
	}
	recData, err := s.cache.GetPayload(ctx, ResourceRecipes)
	if err != nil {
		return nil, nil, fmt.Errorf("cached recipes: %w", err)
	}
	return ingData, recData, nil
}

func (s *Store) storeCached(ctx context.Context, ingData, recData []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetPayload(ctx, ResourceIngredients, ingData); err != nil {
		common.LogWarn("寫入目錄快取失敗", zap.String("resource", ResourceIngredients), zap.Error(err))
	}
	if err := s.cache.SetPayload(ctx, ResourceRecipes, recData); err != nil {
		common.LogWarn("寫入目錄快取失敗", zap.String("resource", ResourceRecipes), zap.Error(err))
	}
}

// fingerprint 目錄內容指紋
func fingerprint(ingData, recData []byte) string {
	h := sha256.New()
	h.Write(ingData)
	h.Write([]byte{0})
	h.Write(recData)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
