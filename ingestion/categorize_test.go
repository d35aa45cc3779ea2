package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	t.Run("no keyword matches falls back to general", func(t *testing.T) {
		assert.Equal(t, "general", Categorize("Обычные новости", "ничего особенного не произошло"))
	})

	t.Run("empty input falls back to general", func(t *testing.T) {
		assert.Equal(t, "general", Categorize("", ""))
	})

	t.Run("highest match count wins", func(t *testing.T) {
		// one gifts keyword against two crypto keywords
		assert.Equal(t, "crypto", Categorize("Промокод", "bitcoin и ethereum растут"))
	})

	t.Run("tie is broken by declaration order", func(t *testing.T) {
		// one gifts keyword, one nft keyword, gifts is declared first
		assert.Equal(t, "gifts", Categorize("Промокод", "на opensea"))
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		assert.Equal(t, "crypto", Categorize("BITCOIN", ""))
	})

	t.Run("keywords are found in title and content alike", func(t *testing.T) {
		assert.Equal(t, "gaming", Categorize("киберспорт сегодня", ""))
		assert.Equal(t, "gaming", Categorize("", "киберспорт сегодня"))
	})
}

func TestKnownCategories(t *testing.T) {
	categories := KnownCategories()

	assert.Equal(t, "gifts", categories[0])
	assert.Equal(t, CategoryGeneral, categories[len(categories)-1])
	assert.Contains(t, categories, "crypto")
	assert.Contains(t, categories, "nft")
	assert.Contains(t, categories, "tech")
}
