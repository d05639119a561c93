package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleTW = "zh-TW"
	LocaleEN = "en-US"

	DefaultLocale = LocaleZH
)

// ResolveLocale 解析请求语言：?lang= > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale, ok := normalizeLocale(c.Query("lang")); ok {
		return locale
	}
	if locale, ok := normalizeLocale(c.GetHeader("X-Locale")); ok {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale, ok := normalizeLocale(tag); ok {
			return locale
		}
	}
	return DefaultLocale
}

func normalizeLocale(raw string) (string, bool) {
	tag := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	switch {
	case tag == "":
		return "", false
	case tag == "zh-tw" || tag == "zh-hk" || tag == "zh-hant":
		return LocaleTW, true
	case strings.HasPrefix(tag, "zh"):
		return LocaleZH, true
	case strings.HasPrefix(tag, "en"):
		return LocaleEN, true
	default:
		return "", false
	}
}

// T 翻译文案，缺失时依次回退到默认语言与 key 本身
func T(locale, key string) string {
	if table, ok := catalog[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
