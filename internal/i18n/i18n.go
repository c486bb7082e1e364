package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"

	DefaultLocale = LocaleEnUS
)

var (
	supportedTags = []language.Tag{language.AmericanEnglish, language.SimplifiedChinese}
	matcher       = language.NewMatcher(supportedTags)
)

// ResolveLocale 依次读取 ?lang、X-Locale 与 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Normalize(lang)
	}
	if lang := strings.TrimSpace(c.GetHeader("X-Locale")); lang != "" {
		return Normalize(lang)
	}
	if accept := strings.TrimSpace(c.GetHeader("Accept-Language")); accept != "" {
		return Normalize(accept)
	}
	return DefaultLocale
}

// Normalize 将任意语言标签映射到支持的语言
func Normalize(raw string) string {
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	switch supportedTags[index] {
	case language.SimplifiedChinese:
		return LocaleZhCN
	default:
		return LocaleEnUS
	}
}

// T 翻译消息 key，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if messages, ok := catalog[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
