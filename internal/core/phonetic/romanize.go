package phonetic

import "strings"

// banglaGlyphs 孟加拉文字元 -> 拉丁近似拼寫
var banglaGlyphs = map[rune]string{
	// 子音
	'ক': "k", 'খ': "kh", 'গ': "g", 'ঘ': "gh", 'ঙ': "ng",
	'চ': "ch", 'ছ': "chh", 'জ': "j", 'ঝ': "jh", 'ঞ': "n",
	'ট': "t", 'ঠ': "th", 'ড': "d", 'ঢ': "dh", 'ণ': "n",
	'ত': "t", 'থ': "th", 'দ': "d", 'ধ': "dh", 'ন': "n",
	'প': "p", 'ফ': "ph", 'ব': "b", 'ভ': "bh", 'ম': "m",
	'য': "j", 'র': "r", 'ল': "l", 'শ': "sh", 'ষ': "sh",
	'স': "s", 'হ': "h", 'ৎ': "t",
	// nukta 合成字
	'\u09DC': "r", '\u09DD': "rh", '\u09DF': "y",
	// 獨立母音
	'অ': "o", 'আ': "a", 'ই': "i", 'ঈ': "i", 'উ': "u",
	'ঊ': "u", 'ঋ': "ri", 'এ': "e", 'ঐ': "oi", 'ও': "o", 'ঔ': "ou",
	// 母音符號
	'া': "a", 'ি': "i", 'ী': "i", 'ু': "u", 'ূ': "u",
	'ৃ': "ri", 'ে': "e", 'ৈ': "oi", 'ো': "o", 'ৌ': "ou",
	// 其他記號
	'ং': "ng", 'ঃ': "h", 'ঁ': "n",
	'্': "", // virama
	'়': "", // 分離的 nukta
}

// nuktaComposer 將「子音 + nukta」的分解序列合成為單一字元
var nuktaComposer = strings.NewReplacer(
	"\u09A1\u09BC", "\u09DC",
	"\u09A2\u09BC", "\u09DD",
	"\u09AF\u09BC", "\u09DF",
)

// RomanizeBangla 逐字將孟加拉文轉寫為拉丁字母；表外字元原樣保留
func RomanizeBangla(text string) string {
	text = nuktaComposer.Replace(text)
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if latin, ok := banglaGlyphs[r]; ok {
			sb.WriteString(latin)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
