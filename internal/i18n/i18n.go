// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

const DefaultLang = "uz"

// SupportedLangs lists the bundled locales in preference order.
var SupportedLangs = []string{"uz", "ru", "en"}

//go:embed locales/*.json
var localeFS embed.FS

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var instance *I18n
var once sync.Once

func Initialize() error {
	var err error
	once.Do(func() {
		instance = &I18n{
			translations: make(map[string]map[string]string),
			defaultLang:  DefaultLang,
		}
		err = instance.LoadTranslations()
	})
	return err
}

func (i *I18n) LoadTranslations() error {
	for _, lang := range SupportedLangs {
		filePath := "locales/" + lang + ".json"

		data, err := localeFS.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", filePath, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to unmarshal locale file %s: %w", filePath, err)
		}

		i.mu.Lock()
		i.translations[lang] = translations
		i.mu.Unlock()
	}

	return nil
}

func (i *I18n) lookup(lang, key string) (string, bool) {
	if translations, exists := i.translations[lang]; exists {
		if text, exists := translations[key]; exists {
			return text, true
		}
	}
	return "", false
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	text, ok := i.lookup(lang, key)
	if !ok && lang != i.defaultLang {
		text, ok = i.lookup(i.defaultLang, key)
	}
	if !ok {
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Global functions
func T(lang, key string, args ...interface{}) string {
	if instance != nil {
		return instance.T(lang, key, args...)
	}
	return key
}

// Normalize maps an Accept-Language tag such as "ru-RU" onto a bundled
// locale, or returns "" when none matches.
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		tag = tag[:idx]
	}
	for _, lang := range SupportedLangs {
		if lang == tag {
			return lang
		}
	}
	return ""
}

func GetSupportedLanguages() []string {
	out := make([]string, len(SupportedLangs))
	copy(out, SupportedLangs)
	return out
}
