package detectors

import (
	"strings"

	"github.com/spacesedan/hypewatch/internal/lexicon"
	"github.com/spacesedan/hypewatch/internal/models"
)

// DetectKeywords counts every hype phrase of lex in text. Matching is a
// case-insensitive substring count, so "moon" also fires inside "moonshot".
func DetectKeywords(lex *lexicon.Lexicon, text string) models.KeywordResult {
	result := models.KeywordResult{
		FoundKeywords: []models.KeywordMatch{},
		Severity:      models.SeverityLow,
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	lc := strings.ToLower(text)
	lex.EachHype(func(phrase string) {
		count := strings.Count(lc, phrase)
		if count == 0 {
			return
		}
		result.FoundKeywords = append(result.FoundKeywords, models.KeywordMatch{
			Keyword: phrase,
			Count:   count,
		})
		result.TotalMatches += count
	})

	result.UniqueMatches = len(result.FoundKeywords)
	result.Severity = KeywordBand.Severity(result.TotalMatches)
	return result
}
