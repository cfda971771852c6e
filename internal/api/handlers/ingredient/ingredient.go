// Package ingredient 提供食材瀏覽與模糊搜尋 API。
package ingredient

import (
	"net/http"
	"strings"

	"recipe-matcher/internal/api/handlers"
	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/search"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxQueryLength = 100

// Handler 食材搜尋處理器
type Handler struct {
	store *catalog.Store
	cache *cache.Manager
	match config.MatchConfig
}

// NewHandler 創建食材搜尋處理器；cacheManager 可為 nil
func NewHandler(store *catalog.Store, cacheManager *cache.Manager, match config.MatchConfig) *Handler {
	return &Handler{store: store, cache: cacheManager, match: match}
}

// HighlightView 單一欄位的標示結果
type HighlightView struct {
	search.Highlight
	HTML string `json:"html"`
}

// Result 搜尋結果項目
type Result struct {
	search.MatchCandidate
	Highlights map[string]HighlightView `json:"highlights,omitempty"`
}

// SearchResponse 搜尋響應
type SearchResponse struct {
	Query           string   `json:"query"`
	NormalizedQuery string   `json:"normalized_query"`
	Version         string   `json:"version"`
	Limit           int      `json:"limit"`
	Threshold       float64  `json:"threshold"`
	Count           int      `json:"count"`
	Cached          bool     `json:"cached"`
	Results         []Result `json:"results"`
}

// Browse 列出索引中的前 limit 筆食材
func (h *Handler) Browse(c *gin.Context) {
	snap := h.store.Current()
	if snap == nil {
		handlers.RespondError(c, common.ErrCatalogUnavailable)
		return
	}

	opts, err := h.options(c)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	candidates := search.Search(snap.Index, "", opts)
	c.JSON(http.StatusOK, SearchResponse{
		Version:   snap.Version,
		Limit:     opts.Limit,
		Threshold: opts.Threshold,
		Count:     len(candidates),
		Results:   toResults(candidates),
	})
}

// Search 依使用者輸入做模糊搜尋
func (h *Handler) Search(c *gin.Context) {
	snap := h.store.Current()
	if snap == nil {
		handlers.RespondError(c, common.ErrCatalogUnavailable)
		return
	}

	query := c.Query("q")
	if len([]rune(query)) > maxQueryLength {
		handlers.RespondError(c, common.NewValidationError("q is too long"))
		return
	}

	opts, err := h.options(c)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	normalized := ""
	if strings.TrimSpace(query) != "" {
		normalized = search.NormalizeQuery(query)
	}

	resp := SearchResponse{
		Query:           query,
		NormalizedQuery: normalized,
		Version:         snap.Version,
		Limit:           opts.Limit,
		Threshold:       opts.Threshold,
	}

	key := cache.SearchKey(snap.Version, normalized, opts.Limit, opts.Threshold)
	if cached, err := h.cache.Get(key); err == nil {
		if results, ok := cached.([]Result); ok {
			resp.Results = results
			resp.Count = len(results)
			resp.Cached = true
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	candidates := search.Search(snap.Index, query, opts)
	resp.Results = toResults(candidates)
	resp.Count = len(resp.Results)

	if err := h.cache.Set(key, resp.Results); err != nil {
		common.LogWarn("搜尋結果快取寫入失敗", zap.Error(err))
	}

	common.LogDebug("食材搜尋完成",
		zap.String("query", query),
		zap.String("normalized", normalized),
		zap.Int("results", resp.Count),
		zap.String("request_id", requestid.Get(c)),
	)

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) options(c *gin.Context) (search.Options, error) {
	limit, err := handlers.QueryInt(c, "limit", h.match.Limit)
	if err != nil {
		return search.Options{}, err
	}
	if limit <= 0 || (h.match.MaxLimit > 0 && limit > h.match.MaxLimit) {
		return search.Options{}, common.NewValidationError("limit out of range")
	}

	threshold, err := handlers.QueryFloat(c, "threshold", h.match.Threshold)
	if err != nil {
		return search.Options{}, err
	}
	if threshold < 0 || threshold > 1 {
		return search.Options{}, common.NewValidationError("threshold must be within [0, 1]")
	}

	return search.Options{Limit: limit, Threshold: threshold}, nil
}

// toResults 為英文與孟加拉文名稱附上標示
func toResults(candidates []search.MatchCandidate) []Result {
	results := make([]Result, 0, len(candidates))
	for _, cand := range candidates {
		r := Result{MatchCandidate: cand}
		if len(cand.Matches) > 0 {
			r.Highlights = map[string]HighlightView{
				"name_en": view(search.HighlightMatch(cand.Ingredient.NameEN, cand.Matches)),
				"name_bn": view(search.HighlightMatch(cand.Ingredient.NameBN, cand.Matches)),
			}
		}
		results = append(results, r)
	}
	return results
}

func view(h search.Highlight) HighlightView {
	return HighlightView{Highlight: h, HTML: string(h.HTML())}
}
