// Package phonetic 提供孟加拉語羅馬拼音相關的純函數工具：
// 拼寫變體正規化、孟加拉文轉寫、以及拼寫變體產生。
package phonetic

import "strings"

// rootVariants 常見食材羅馬拼音的標準詞根與已知拼寫變體
var rootVariants = map[string][]string{
	"alu":          {"alu", "aloo", "aalu", "aaloo"},
	"peyaj":        {"peyaj", "piyaj", "peyaaj", "piaj", "pyaj", "peyanj"},
	"roshun":       {"roshun", "rosun", "rashun", "roshon", "rosoon"},
	"ada":          {"ada", "aada", "adaa"},
	"morich":       {"morich", "marich", "moric", "morichh", "moreech"},
	"begun":        {"begun", "baigan", "begoon", "baingan", "begunn"},
	"dim":          {"dim", "deem", "dimm"},
	"dal":          {"dal", "daal", "dhal", "dhaal"},
	"chal":         {"chal", "chaal", "chawal", "chaul"},
	"mach":         {"mach", "maach", "machh", "maachh"},
	"mangsho":      {"mangsho", "mangso", "mongsho", "mangsha", "mansho"},
	"murgi":        {"murgi", "murghi", "morgi", "murgee"},
	"gorur":        {"gorur", "gorru", "goru", "gorur mangsho"},
	"tel":          {"tel", "teil", "tael"},
	"lobon":        {"lobon", "lobone", "noon", "nun"},
	"chini":        {"chini", "cheeni", "chinee"},
	"holud":        {"holud", "holood", "halud", "haldi"},
	"jira":         {"jira", "zira", "jeera", "zeera"},
	"dhonia":       {"dhonia", "dhoniya", "dhania", "dhaniya", "dhonepata"},
	"tomato":       {"tomato", "tometo", "tamatar", "tomatoo"},
	"shosha":       {"shosha", "sosa", "shasha", "shossa"},
	"lau":          {"lau", "laau", "lao"},
	"kumra":        {"kumra", "kumro", "kumda", "kumrah"},
	"phulkopi":     {"phulkopi", "fulkopi", "phulcopi", "fulcopi"},
	"badhakopi":    {"badhakopi", "bandhakopi", "badhacopi", "bandhacopi"},
	"gajor":        {"gajor", "gajar", "gazor", "gazar"},
	"lebu":         {"lebu", "leboo", "laybu", "nebu"},
	"narikel":      {"narikel", "narkel", "narikol", "narical"},
	"doi":          {"doi", "dohi", "dahi", "doie"},
	"dudh":         {"dudh", "doodh", "dud"},
	"ghee":         {"ghee", "ghi", "gee", "ghii"},
	"moyda":        {"moyda", "maida", "moida", "maidah"},
	"atta":         {"atta", "ata", "aata"},
	"shorisha":     {"shorisha", "sorisha", "shorshe", "sorse", "shorsha"},
	"elach":        {"elach", "elachi", "elaichi", "elaach"},
	"daruchini":    {"daruchini", "darchini", "dalchini", "daruchinee"},
	"tejpata":      {"tejpata", "tezpata", "tejpatta", "tejpaata"},
	"panch phoron": {"panch phoron", "panchphoron", "pach phoron", "panch foron"},
}

// reverseLookup 變體 -> 詞根，於初始化時一次建好
var reverseLookup = buildReverseLookup(rootVariants)

func buildReverseLookup(dict map[string][]string) map[string]string {
	lookup := make(map[string]string)
	for root, variants := range dict {
		lookup[root] = root
		for _, v := range variants {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			lookup[v] = root
		}
	}
	return lookup
}

// NormalizePhonetic 將輸入字串正規化為標準詞根；未知拼寫僅回傳小寫去空白後的字串
func NormalizePhonetic(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if root, ok := reverseLookup[s]; ok {
		return root
	}
	return s
}

// Roots 回傳詞根與變體字典的副本（供目錄預填 phonetic 欄位的腳本使用）
func Roots() map[string][]string {
	out := make(map[string][]string, len(rootVariants))
	for root, variants := range rootVariants {
		out[root] = append([]string(nil), variants...)
	}
	return out
}
