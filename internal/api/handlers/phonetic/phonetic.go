// Package phonetic 提供拼音正規化、孟加拉文羅馬化與拼寫變體的查詢 API。
package phonetic

import (
	"net/http"

	"recipe-matcher/internal/api/handlers"
	"recipe-matcher/internal/core/phonetic"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const maxInputLength = 200

func input(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if len([]rune(v)) > maxInputLength {
		handlers.RespondError(c, common.NewValidationError(name+" is too long"))
		return "", false
	}
	return v, true
}

// Normalize GET /phonetic/normalize?q=
func Normalize(c *gin.Context) {
	q, ok := input(c, "q")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"input":      q,
		"normalized": phonetic.NormalizePhonetic(q),
	})
}

// Romanize GET /phonetic/romanize?text=
func Romanize(c *gin.Context) {
	text, ok := input(c, "text")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"input":     text,
		"romanized": phonetic.RomanizeBangla(text),
	})
}

// Variations GET /phonetic/variations?word=
func Variations(c *gin.Context) {
	word, ok := input(c, "word")
	if !ok {
		return
	}
	variations := phonetic.GeneratePhoneticVariations(word)
	if variations == nil {
		variations = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"input":      word,
		"variations": variations,
	})
}
