package detectors

import (
	"strings"

	"github.com/spacesedan/hypewatch/internal/lexicon"
	"github.com/spacesedan/hypewatch/internal/models"
)

// DetectDisclaimers reports which disclaimer phrases occur in text. Only
// presence matters, not how often a phrase repeats.
func DetectDisclaimers(lex *lexicon.Lexicon, text string) models.DisclaimerResult {
	result := models.DisclaimerResult{
		FoundDisclaimers:  []string{},
		MissingDisclaimer: true,
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	lc := strings.ToLower(text)
	lex.EachDisclaimer(func(phrase string) {
		if strings.Contains(lc, phrase) {
			result.FoundDisclaimers = append(result.FoundDisclaimers, phrase)
		}
	})

	result.HasDisclaimer = len(result.FoundDisclaimers) > 0
	result.MissingDisclaimer = !result.HasDisclaimer
	return result
}
