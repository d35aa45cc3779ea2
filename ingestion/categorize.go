package ingestion

import "strings"

const CategoryGeneral = "general"

type categoryKeywords struct {
	Category string
	Keywords []string
}

// keywordTable maps each category to the substrings that vote for it. Order
// matters: under equal scores the earlier category wins. Extending the
// categorizer only requires editing this table.
var keywordTable = []categoryKeywords{
	{"gifts", []string{"подарок", "подарки", "бесплатно", "халява", "промокод", "скидка", "акция", "розыгрыш", "giveaway", "free gift"}},
	{"crypto", []string{"криптовалюта", "биткоин", "bitcoin", "ethereum", "блокчейн", "defi", "btc", "eth"}},
	{"nft", []string{"nft", "нфт", "токен", "коллекция", "opensea", "digital art", "метавселенная"}},
	{"tech", []string{"технологии", "программирование", "разработка", "стартап", "гаджет", "софт", "startup", "ai", "ии"}},
	{"gaming", []string{"игра", "игры", "гейминг", "геймер", "киберспорт", "gaming", "esports", "playstation", "xbox"}},
	{"community", []string{"сообщество", "комьюнити", "митап", "конференция", "community", "meetup", "чат"}},
}

// KnownCategories returns every category the table can produce, in
// declaration order, with the fallback label last.
func KnownCategories() []string {
	categories := make([]string, 0, len(keywordTable)+1)
	for _, entry := range keywordTable {
		categories = append(categories, entry.Category)
	}
	return append(categories, CategoryGeneral)
}

// Categorize maps post text to one category label by keyword frequency: the
// title and content are concatenated and lower cased, each category scores
// one point per configured keyword found in the text, and the first category
// with the maximal non-zero score wins. Posts matching nothing fall back to
// "general". Pure and total, there is no failure mode.
func Categorize(title, content string) string {
	text := strings.ToLower(title + " " + content)

	best := CategoryGeneral
	bestScore := 0
	for _, entry := range keywordTable {
		score := 0
		for _, keyword := range entry.Keywords {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = entry.Category
			bestScore = score
		}
	}
	return best
}
