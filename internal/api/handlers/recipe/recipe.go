// Package recipe 提供依食材櫃與食材清單排序食譜的 API。
package recipe

import (
	"net/http"

	"recipe-matcher/internal/api/handlers"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/pantry"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxItems = 200

// PantryMatchRequest 食材櫃比對請求
type PantryMatchRequest struct {
	Pantry []string `json:"pantry"`
	Locale string   `json:"locale"`
}

// ByIngredientsRequest 伺服器端食材搜尋請求
type ByIngredientsRequest struct {
	Ingredients []string `json:"ingredients"`
	Locale      string   `json:"locale"`
}

// MatchResponse 排序後的食譜
type MatchResponse struct {
	Locale  string          `json:"locale"`
	Version string          `json:"version"`
	Count   int             `json:"count"`
	Results []pantry.Result `json:"results"`
}

// Handler 食譜排序處理器
type Handler struct {
	store *catalog.Store
}

// NewHandler 創建食譜排序處理器
func NewHandler(store *catalog.Store) *Handler {
	return &Handler{store: store}
}

// HandlePantryMatch 依使用者食材櫃排序食譜，排除沒有任何重疊的食譜
func (h *Handler) HandlePantryMatch(c *gin.Context) {
	var req PantryMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	h.rank(c, req.Pantry, req.Locale, pantry.ModePantry)
}

// HandleByIngredients 依食材清單排序所有食譜，沒有重疊的食譜也保留
func (h *Handler) HandleByIngredients(c *gin.Context) {
	var req ByIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	h.rank(c, req.Ingredients, req.Locale, pantry.ModeIngredientSearch)
}

func (h *Handler) rank(c *gin.Context, items []string, locale string, mode pantry.Mode) {
	if len(items) > maxItems {
		handlers.RespondError(c, common.NewValidationError("too many ingredients"))
		return
	}

	snap := h.store.Current()
	if snap == nil {
		handlers.RespondError(c, common.ErrCatalogUnavailable)
		return
	}

	locale = common.NormalizeLocale(locale)
	results := pantry.RankRecipes(items, snap.Recipes, locale, mode)

	common.LogInfo("食譜排序完成",
		zap.Int("items", len(items)),
		zap.Int("recipes", len(snap.Recipes)),
		zap.Int("results", len(results)),
		zap.String("locale", locale),
		zap.String("request_id", requestid.Get(c)),
	)

	c.JSON(http.StatusOK, MatchResponse{
		Locale:  locale,
		Version: snap.Version,
		Count:   len(results),
		Results: results,
	})
}
