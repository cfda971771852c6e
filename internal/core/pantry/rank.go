package pantry

import (
	"sort"

	"recipe-matcher/internal/pkg/common"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Mode 排序使用情境
type Mode int

const (
	// ModePantry 依使用者食材櫃比對，排除完全沒有重疊的食譜
	ModePantry Mode = iota
	// ModeIngredientSearch 伺服器端食材搜尋，保留所有食譜
	ModeIngredientSearch
)

// Result 單一食譜的比對結果；MatchRatio 介於 0 到 1
type Result struct {
	Recipe     common.Recipe `json:"recipe"`
	Title      string        `json:"title"`
	Have       int           `json:"have"`
	Need       int           `json:"need"`
	Total      int           `json:"total"`
	Matched    []string      `json:"matched"`
	Missing    []string      `json:"missing"`
	MatchRatio float64       `json:"match_ratio"`
}

// Perfect 食譜所有食材皆已具備
func (r Result) Perfect() bool {
	return r.Total > 0 && r.Have == r.Total
}

// Evaluate 計算單一食譜的符合度
func Evaluate(pantry []string, recipe common.Recipe, locale string) Result {
	locale = common.NormalizeLocale(locale)
	items := normalizeAll(pantry)
	ingredients := dedupe(normalizeAll(recipe.IngredientsFor(locale)))

	result := Result{
		Recipe:  recipe,
		Title:   recipe.TitleFor(locale),
		Total:   len(ingredients),
		Matched: make([]string, 0, len(ingredients)),
		Missing: make([]string, 0, len(ingredients)),
	}

	for _, ing := range ingredients {
		if satisfied(ing, items) {
			result.Matched = append(result.Matched, ing)
			continue
		}
		result.Missing = append(result.Missing, ing)
	}

	result.Have = len(result.Matched)
	result.Need = len(result.Missing)
	if result.Total > 0 {
		result.MatchRatio = float64(result.Have) / float64(result.Total)
	}
	return result
}

// RankRecipes 依食材櫃為食譜打分並排序：
// 完全符合優先，其次符合度高者、缺少數量少者，最後依語系排序標題。
func RankRecipes(pantry []string, recipes []common.Recipe, locale string, mode Mode) []Result {
	locale = common.NormalizeLocale(locale)

	results := make([]Result, 0, len(recipes))
	for _, recipe := range recipes {
		r := Evaluate(pantry, recipe, locale)
		if mode == ModePantry && r.Have == 0 {
			continue
		}
		results = append(results, r)
	}

	col := collate.New(language.Make(locale), collate.IgnoreCase)
	sort.SliceStable(results, func(i, j int) bool {
		return less(results[i], results[j], col)
	})
	return results
}

func less(a, b Result, col *collate.Collator) bool {
	if a.Perfect() != b.Perfect() {
		return a.Perfect()
	}
	if a.MatchRatio != b.MatchRatio {
		return a.MatchRatio > b.MatchRatio
	}
	if a.Need != b.Need {
		return a.Need < b.Need
	}
	return col.CompareString(a.Title, b.Title) < 0
}

// satisfied 食材被任一食材櫃項目涵蓋
func satisfied(ingredient string, items []string) bool {
	for _, item := range items {
		if containsEither(ingredient, item) {
			return true
		}
	}
	return false
}

func normalizeAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if n := NormalizeItem(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
