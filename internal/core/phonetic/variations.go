package phonetic

import "strings"

var vowels = []string{"a", "e", "i", "o", "u"}

// suffixRules 單次結尾替換規則，彼此不組合
var suffixRules = []struct {
	from string
	to   string
}{
	{"y", "i"},
	{"i", "y"},
	{"ee", "i"},
	{"oo", "u"},
}

// substitutionRules 全域子音替換規則
var substitutionRules = []struct {
	from string
	to   string
}{
	{"c", "k"},
	{"k", "c"},
	{"ph", "f"},
	{"f", "ph"},
}

// GeneratePhoneticVariations 依英文名稱產生一組可能的拼寫變體。
// 每條規則只作用在小寫原字上一次，結果去重並保留插入順序。
func GeneratePhoneticVariations(word string) []string {
	base := strings.ToLower(strings.TrimSpace(word))
	if base == "" {
		return nil
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, 12)
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(base)

	for _, rule := range suffixRules {
		if strings.HasSuffix(base, rule.from) {
			add(strings.TrimSuffix(base, rule.from) + rule.to)
		}
	}

	for _, v := range vowels {
		if strings.Contains(base, v) {
			add(strings.ReplaceAll(base, v, v+v))
		}
	}

	for _, rule := range substitutionRules {
		if strings.Contains(base, rule.from) {
			add(strings.ReplaceAll(base, rule.from, rule.to))
		}
	}

	return out
}
