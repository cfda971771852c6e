package search

import (
	"html/template"
	"strings"
)

// Highlight 拆成強調前、強調、強調後三段的文字
type Highlight struct {
	Before string `json:"before"`
	Match  string `json:"match"`
	After  string `json:"after"`
}

// Plain 原樣文字（沒有可套用的命中區段）
func (h Highlight) Plain() bool {
	return h.Match == ""
}

// HTML 以 <mark> 標示強調段，其餘內容做 HTML 跳脫
func (h Highlight) HTML() template.HTML {
	if h.Plain() {
		return template.HTML(template.HTMLEscapeString(h.Before))
	}
	return template.HTML(template.HTMLEscapeString(h.Before) +
		"<mark>" + template.HTMLEscapeString(h.Match) + "</mark>" +
		template.HTMLEscapeString(h.After))
}

// HighlightMatch 找出第一個與 text 互為子字串（不分大小寫）的命中，
// 並將該命中區段換算到 text 上標示出來；沒有可用的命中時原樣回傳。
func HighlightMatch(text string, matches []Match) Highlight {
	runes := []rune(text)
	lowerText := string(lowerRunes(text))

	for _, m := range matches {
		lowerValue := string(lowerRunes(m.Value))
		if lowerValue == "" || lowerText == "" {
			continue
		}

		var start, end int
		switch {
		case strings.Contains(lowerValue, lowerText):
			// text 是 value 的一段：只取落在該段內的命中
			offset := runeIndex(lowerValue, lowerText)
			start = max(m.Start, offset) - offset
			end = min(m.End, offset+len(runes)) - offset
		case strings.Contains(lowerText, lowerValue):
			offset := runeIndex(lowerText, lowerValue)
			start = m.Start + offset
			end = m.End + offset
		default:
			continue
		}

		start = clamp(start, 0, len(runes))
		end = clamp(end, 0, len(runes))
		if start >= end {
			continue
		}
		return Highlight{
			Before: string(runes[:start]),
			Match:  string(runes[start:end]),
			After:  string(runes[end:]),
		}
	}

	return Highlight{Before: text}
}

// runeIndex 回傳 substr 在 s 中第一次出現的 rune 位移
func runeIndex(s, substr string) int {
	i := strings.Index(s, substr)
	if i < 0 {
		return -1
	}
	return len([]rune(s[:i]))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
