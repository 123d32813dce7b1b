// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lebem/lebem-backend/internal/i18n"
)

// I18nMiddleware picks the first supported language from ?lang= or the
// Accept-Language header, e.g. "ru-RU,ru;q=0.9,en;q=0.8".
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.Normalize(c.Query("lang"))

		if lang == "" {
			for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
				tag := strings.TrimSpace(strings.Split(part, ";")[0])
				if lang = i18n.Normalize(tag); lang != "" {
					break
				}
			}
		}

		if lang == "" {
			lang = i18n.DefaultLang
		}

		c.Set("lang", lang)
		c.Next()
	}
}
