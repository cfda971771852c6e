// Package pantry 依使用者現有食材為食譜計算符合度並排序。
package pantry

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// itemReplacer 孟加拉數字轉 ASCII、破折號統一、移除固定標點
var itemReplacer = strings.NewReplacer(
	"০", "0", "১", "1", "২", "2", "৩", "3", "৪", "4",
	"৫", "5", "৬", "6", "৭", "7", "৮", "8", "৯", "9",
	"–", "-", "—", "-",
	".", "", ",", "", "(", "", ")", "", "[", "", "]", "", "\"", "", "'", "",
)

// NormalizeItem 正規化食材名稱：NFC、小寫、數字與破折號統一、去標點、合併空白
func NormalizeItem(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = itemReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// ItemMatches 兩個名稱任一方包含另一方即視為相同；空字串永不相符
func ItemMatches(a, b string) bool {
	a, b = NormalizeItem(a), NormalizeItem(b)
	return containsEither(a, b)
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
