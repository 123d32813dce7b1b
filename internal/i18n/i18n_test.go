package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Product not found", T("en", KeyProductNotFound))
	assert.Equal(t, "Mahsulot topilmadi", T("uz", KeyProductNotFound))
	assert.Equal(t, "Category and 3 products deactivated", T("en", KeyCategoryForceDeleted, 3))

	// Unknown language falls back to the default locale
	assert.Equal(t, T(DefaultLang, KeyReviewNotFound), T("de", KeyReviewNotFound))

	// Unknown key is echoed
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestLocalesShareKeys(t *testing.T) {
	require.NoError(t, Initialize())

	base := instance.translations["en"]
	for _, lang := range SupportedLangs {
		assert.Len(t, instance.translations[lang], len(base), lang)
		for key := range base {
			_, ok := instance.translations[lang][key]
			assert.True(t, ok, "%s missing %s", lang, key)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ru", Normalize("ru-RU"))
	assert.Equal(t, "uz", Normalize(" UZ "))
	assert.Equal(t, "en", Normalize("en_GB"))
	assert.Equal(t, "", Normalize("zh-TW"))
}
