// Package catalog 從上游資料服務讀取食材與食譜目錄，並維護不可變的目錄快照。
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 上游資源名稱，同時作為 Redis 快取鍵
const (
	ResourceIngredients = "ingredients"
	ResourceRecipes     = "recipes"
)

// Client 上游目錄服務客戶端
type Client struct {
	client   *resty.Client
	pageSize int
}

// NewClient 創建目錄客戶端
func NewClient(cfg config.CatalogConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2)

	return &Client{
		client:   client,
		pageSize: cfg.PageSize,
	}
}

// Fetch 讀取整份資源的原始 JSON
func (c *Client) Fetch(ctx context.Context, resource string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(c.pageSize)).
		Get("/" + resource)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", resource, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("catalog %s returned status %d", resource, resp.StatusCode())
	}

	common.LogDebug("目錄資料已讀取",
		zap.String("resource", resource),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("耗時", resp.Time()),
	)
	return resp.Body(), nil
}

// rawIngredient 上游食材記錄，欄位名稱不一致
type rawIngredient struct {
	ID         common.ID `json:"id"`
	NameEN     string    `json:"name_en"`
	Name       string    `json:"name"`
	TitleEN    string    `json:"title_en"`
	NameBN     string    `json:"name_bn"`
	NameBangla string    `json:"name_bangla"`
	Phonetic   []string  `json:"phonetic"`
	Phonetics  []string  `json:"phonetics"`
	Img        string    `json:"img"`
	Image      string    `json:"image"`
}

func (r rawIngredient) resolve() common.Ingredient {
	phonetic := r.Phonetic
	if len(phonetic) == 0 {
		phonetic = r.Phonetics
	}
	return common.Ingredient{
		ID:       r.ID,
		NameEN:   firstNonBlank(r.NameEN, r.Name, r.TitleEN),
		NameBN:   firstNonBlank(r.NameBN, r.NameBangla),
		Img:      firstNonBlank(r.Img, r.Image),
		Phonetic: phonetic,
	}
}

// rawRecipe 上游食譜記錄；title 與 ingredients 可能依語系分開，也可能只有單一字串/清單
type rawRecipe struct {
	ID          common.ID       `json:"id"`
	Title       json.RawMessage `json:"title"`
	TitleEN     string          `json:"title_en"`
	TitleBN     string          `json:"title_bn"`
	Ingredients json.RawMessage `json:"ingredients"`
	Category    string          `json:"category"`
	Img         string          `json:"img"`
	Image       string          `json:"image"`
}

func (r rawRecipe) resolve() (common.Recipe, error) {
	recipe := common.Recipe{
		ID:          r.ID,
		Title:       map[string]string{},
		Ingredients: map[string][]string{},
		Category:    r.Category,
		Img:         firstNonBlank(r.Img, r.Image),
	}

	if len(r.Title) > 0 && !bytes.Equal(r.Title, []byte("null")) {
		var single string
		if err := json.Unmarshal(r.Title, &single); err == nil {
			recipe.Title[common.LocaleEN] = single
		} else if err := json.Unmarshal(r.Title, &recipe.Title); err != nil {
			return recipe, fmt.Errorf("recipe %s: invalid title: %w", r.ID, err)
		}
	}
	if recipe.Title[common.LocaleEN] == "" && r.TitleEN != "" {
		recipe.Title[common.LocaleEN] = r.TitleEN
	}
	if recipe.Title[common.LocaleBN] == "" && r.TitleBN != "" {
		recipe.Title[common.LocaleBN] = r.TitleBN
	}

	if len(r.Ingredients) > 0 && !bytes.Equal(r.Ingredients, []byte("null")) {
		var single []string
		if err := json.Unmarshal(r.Ingredients, &single); err == nil {
			recipe.Ingredients[common.LocaleEN] = single
		} else if err := json.Unmarshal(r.Ingredients, &recipe.Ingredients); err != nil {
			return recipe, fmt.Errorf("recipe %s: invalid ingredients: %w", r.ID, err)
		}
	}

	return recipe, nil
}

// DecodeIngredients 解析食材資料，接受陣列或 {"data": [...]}
func DecodeIngredients(data []byte) ([]common.Ingredient, error) {
	var raws []rawIngredient
	if err := decodeList(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}

	out := make([]common.Ingredient, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.resolve())
	}
	return out, nil
}

// DecodeRecipes 解析食譜資料；格式錯誤的單筆食譜會被略過並記錄
func DecodeRecipes(data []byte) ([]common.Recipe, error) {
	var raws []rawRecipe
	if err := decodeList(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	out := make([]common.Recipe, 0, len(raws))
	for _, r := range raws {
		recipe, err := r.resolve()
		if err != nil {
			common.LogWarn("略過格式錯誤的食譜", zap.Error(err))
			continue
		}
		out = append(out, recipe)
	}
	return out, nil
}

func decodeList(data []byte, v interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty payload")
	}
	if trimmed[0] == '[' {
		return common.ParseJSONBytes(trimmed, v)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := common.ParseJSONBytes(trimmed, &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return fmt.Errorf("payload has no data array")
	}
	return common.ParseJSONBytes(envelope.Data, v)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
