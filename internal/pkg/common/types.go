package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// 支援的語系
const (
	LocaleEN = "en"
	LocaleBN = "bn"
)

// ID 目錄項目識別碼；上游可能給整數或字串，一律以字串保存
type ID string

// UnmarshalJSON 同時接受 JSON 數字與字串
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

// Ingredient 標準食材目錄項目
type Ingredient struct {
	ID       ID       `json:"id"`
	NameEN   string   `json:"name_en"`
	NameBN   string   `json:"name_bn"`
	Img      string   `json:"img,omitempty"`
	Phonetic []string `json:"phonetic"`
}

// Usable 英文名與孟加拉文名皆存在時才可參與比對
func (i Ingredient) Usable() bool {
	return strings.TrimSpace(i.NameEN) != "" && strings.TrimSpace(i.NameBN) != ""
}

// Recipe 食譜；標題與食材清單皆依語系分開
type Recipe struct {
	ID          ID                  `json:"id"`
	Title       map[string]string   `json:"title"`
	Ingredients map[string][]string `json:"ingredients"`
	Category    string              `json:"category,omitempty"`
	Img         string              `json:"img,omitempty"`
}

// TitleFor 取得指定語系標題，缺少時退回英文
func (r Recipe) TitleFor(locale string) string {
	if t := strings.TrimSpace(r.Title[locale]); t != "" {
		return t
	}
	return strings.TrimSpace(r.Title[LocaleEN])
}

// IngredientsFor 取得指定語系食材清單，缺少時退回英文
func (r Recipe) IngredientsFor(locale string) []string {
	if list, ok := r.Ingredients[locale]; ok && len(list) > 0 {
		return list
	}
	return r.Ingredients[LocaleEN]
}

// NormalizeLocale 未知語系一律視為英文
func NormalizeLocale(locale string) string {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case LocaleBN:
		return LocaleBN
	default:
		return LocaleEN
	}
}
