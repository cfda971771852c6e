// Package search 實作食材目錄的可搜尋索引與加權模糊比對。
package search

import (
	"strings"

	"recipe-matcher/internal/core/phonetic"
	"recipe-matcher/internal/pkg/common"

	"golang.org/x/text/unicode/norm"
)

// EnrichedIngredient 附帶搜尋用衍生欄位的食材
type EnrichedIngredient struct {
	common.Ingredient
	RomanizedBangla    string   `json:"romanized_bangla"`
	PhoneticVariations []string `json:"phonetic_variations"`
	SearchableText     string   `json:"searchable_text"`
}

// BuildIndex 由目錄快照建立索引。缺少英文或孟加拉文名稱的項目直接略過。
func BuildIndex(ingredients []common.Ingredient) []EnrichedIngredient {
	index := make([]EnrichedIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if !ing.Usable() {
			continue
		}
		index = append(index, enrich(ing))
	}
	return index
}

func enrich(ing common.Ingredient) EnrichedIngredient {
	ing.NameEN = strings.TrimSpace(ing.NameEN)
	ing.NameBN = norm.NFC.String(strings.TrimSpace(ing.NameBN))

	variations := curatedVariations(ing.Phonetic)
	if len(variations) == 0 {
		variations = phonetic.GeneratePhoneticVariations(ing.NameEN)
	}

	romanized := strings.ToLower(phonetic.RomanizeBangla(ing.NameBN))

	parts := make([]string, 0, 3+len(variations))
	parts = append(parts, strings.ToLower(ing.NameEN), ing.NameBN, romanized)
	parts = append(parts, variations...)

	return EnrichedIngredient{
		Ingredient:         ing,
		RomanizedBangla:    romanized,
		PhoneticVariations: variations,
		SearchableText:     strings.Join(parts, " "),
	}
}

func curatedVariations(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
