package search

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"recipe-matcher/internal/core/phonetic"
	"recipe-matcher/internal/pkg/common"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultLimit 未指定數量時回傳的筆數
	DefaultLimit = 10
	// DefaultThreshold 0 為完全相符、1 為毫無相似
	DefaultThreshold = 0.35
	// ClosestGuessCutoff 分數高於此值視為「最接近的猜測」
	ClosestGuessCutoff = 0.3
	// MinMatchLength 命中區段至少要涵蓋的字元數
	MinMatchLength = 2
	// minQueryLength 少於此長度的查詢直接回傳瀏覽清單
	minQueryLength = 1
)

// Key 參與比對的欄位
type Key string

const (
	KeyNameEN     Key = "name_en"
	KeyNameBN     Key = "name_bn"
	KeyPhonetic   Key = "phoneticVariations"
	KeyRomanized  Key = "romanizedBangla"
	KeySearchable Key = "searchableText"
)

// weightedKey 欄位、權重與取值方式
type weightedKey struct {
	key    Key
	weight float64
	values func(*EnrichedIngredient) []string
}

// searchKeys 依優先順序排列
var searchKeys = []weightedKey{
	{KeyNameEN, 2, func(e *EnrichedIngredient) []string { return []string{e.NameEN} }},
	{KeyNameBN, 2, func(e *EnrichedIngredient) []string { return []string{e.NameBN} }},
	{KeyPhonetic, 1.5, func(e *EnrichedIngredient) []string { return e.PhoneticVariations }},
	{KeyRomanized, 1.5, func(e *EnrichedIngredient) []string { return []string{e.RomanizedBangla} }},
	{KeySearchable, 1, func(e *EnrichedIngredient) []string { return []string{e.SearchableText} }},
}

var maxKeyWeight = func() float64 {
	w := 0.0
	for _, k := range searchKeys {
		w = math.Max(w, k.weight)
	}
	return w
}()

// Options 搜尋參數
type Options struct {
	Limit     int     `json:"limit"`
	Threshold float64 `json:"threshold"`
}

// DefaultOptions 預設搜尋參數
func DefaultOptions() Options {
	return Options{Limit: DefaultLimit, Threshold: DefaultThreshold}
}

// Match 命中的欄位與區段，Start/End 為 Value 內的 rune 位移 [Start, End)
type Match struct {
	Key   Key    `json:"key"`
	Value string `json:"value"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// MatchCandidate 單一食材的比對結果
type MatchCandidate struct {
	Ingredient     common.Ingredient `json:"ingredient"`
	Score          float64           `json:"score"`
	Matches        []Match           `json:"matches,omitempty"`
	IsClosestGuess bool              `json:"is_closest_guess"`
}

// scored 排序用的中間結果
type scored struct {
	candidate MatchCandidate
	position  int
	distance  int
}

// NormalizeQuery 去空白、NFC、並套用拼音正規化
func NormalizeQuery(query string) string {
	return phonetic.NormalizePhonetic(norm.NFC.String(query))
}

// Search 在索引中做加權多欄位模糊比對。
// 空查詢回傳前 Limit 筆；同一食材 id 只保留最佳分數；結果依分數由小到大排序。
func Search(index []EnrichedIngredient, query string, opts Options) []MatchCandidate {
	opts = sanitizeOptions(opts)

	if utf8.RuneCountInString(strings.TrimSpace(query)) < minQueryLength {
		return browse(index, opts.Limit)
	}

	normalized := NormalizeQuery(query)
	pattern := lowerRunes(normalized)

	best := make(map[string]*scored)
	order := make([]string, 0)
	for pos := range index {
		entry := &index[pos]
		if !entry.Usable() {
			continue
		}
		candidate, distance, ok := scoreEntry(entry, pattern, normalized, opts.Threshold)
		if !ok {
			continue
		}

		id := dedupKey(entry, pos)
		if existing, seen := best[id]; seen {
			if candidate.Score < existing.candidate.Score {
				*existing = scored{candidate: candidate, position: existing.position, distance: distance}
			}
			continue
		}
		best[id] = &scored{candidate: candidate, position: pos, distance: distance}
		order = append(order, id)
	}

	results := make([]scored, 0, len(order))
	for _, id := range order {
		results = append(results, *best[id])
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.candidate.Score != b.candidate.Score {
			return a.candidate.Score < b.candidate.Score
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return a.position < b.position
	})

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	out := make([]MatchCandidate, len(results))
	for i, r := range results {
		out[i] = r.candidate
	}
	return out
}

// scoreEntry 計算單一索引項目在所有欄位中的最佳加權分數
func scoreEntry(entry *EnrichedIngredient, pattern []rune, normalized string, threshold float64) (MatchCandidate, int, bool) {
	bestScore := math.Inf(1)
	bestValue := ""
	var matches []Match

	for _, k := range searchKeys {
		for _, value := range k.values(entry) {
			if value == "" {
				continue
			}
			a, ok := bestAlignment(pattern, lowerRunes(value))
			if !ok || a.end-a.start < MinMatchLength {
				continue
			}
			raw := float64(a.errors) / float64(len(pattern))
			if raw > threshold {
				continue
			}
			matches = append(matches, Match{Key: k.key, Value: value, Start: a.start, End: a.end})
			if s := weightScore(raw, k.weight); s < bestScore {
				bestScore = s
				bestValue = value
			}
		}
	}

	if len(matches) == 0 {
		return MatchCandidate{}, 0, false
	}

	distance := fuzzy.LevenshteinDistance(normalized, strings.ToLower(bestValue))
	return MatchCandidate{
		Ingredient:     entry.Ingredient,
		Score:          bestScore,
		Matches:        matches,
		IsClosestGuess: bestScore > ClosestGuessCutoff,
	}, distance, true
}

// weightScore 欄位權重越低，分數越往 1 推；完全相符維持 0
func weightScore(raw, weight float64) float64 {
	if raw <= 0 {
		return 0
	}
	if raw >= 1 || weight <= 0 {
		return 1
	}
	return 1 - math.Pow(1-raw, maxKeyWeight/weight)
}

func browse(index []EnrichedIngredient, limit int) []MatchCandidate {
	out := make([]MatchCandidate, 0, min(limit, len(index)))
	for i := range index {
		if len(out) >= limit {
			break
		}
		if !index[i].Usable() {
			continue
		}
		out = append(out, MatchCandidate{Ingredient: index[i].Ingredient})
	}
	return out
}

func dedupKey(entry *EnrichedIngredient, pos int) string {
	if entry.ID == "" {
		return "#" + strconv.Itoa(pos)
	}
	return "id:" + string(entry.ID)
}

func sanitizeOptions(opts Options) Options {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Threshold < 0 || math.IsNaN(opts.Threshold) {
		opts.Threshold = 0
	}
	if opts.Threshold > 1 {
		opts.Threshold = 1
	}
	return opts
}
