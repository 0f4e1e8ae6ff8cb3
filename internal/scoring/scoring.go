// Package scoring combines detector outputs into the 0-100 hype score and
// the 0-10 risk score. Both are pure functions of the four raw results and
// never decrease when any single raw count grows.
package scoring

import (
	"fmt"
	"math"

	"github.com/spacesedan/hypewatch/internal/models"
)

// Hype score weights. The maxima sum to 100.
const (
	KeywordWeight      = 2.5
	KeywordMax         = 25.0
	MissingDisclaimer  = 20.0
	ExaggerationWeight = 6.0
	ExaggerationMax    = 30.0
	SentimentMax       = 25.0
	HypeScoreMax       = 100.0
)

// Risk score points. The maxima sum to 10.
const (
	riskKeywordHigh       = 3.0
	riskKeywordMedium     = 2.0
	riskKeywordLow        = 1.0
	riskMissingDisclaimer = 2.0
	riskExaggerationHigh  = 2.0
	riskExaggerationMed   = 1.5
	riskExaggerationLow   = 1.0
	riskSentimentHigh     = 3.0
	riskSentimentMedium   = 1.5
	riskSentimentLow      = 0.5
	RiskScoreMax          = 10.0
)

// ComposeHype builds the 0-100 hype score.
func ComposeHype(kw models.KeywordResult, disc models.DisclaimerResult, exag models.ExaggerationResult, sent models.SentimentSummary) models.HypeScore {
	breakdown := map[string]float64{
		models.BreakdownHypeKeywords:      math.Min(float64(max(kw.TotalMatches, 0))*KeywordWeight, KeywordMax),
		models.BreakdownMissingDisclaimer: 0,
		models.BreakdownExaggeration:      math.Min(float64(max(exag.TotalExaggerations, 0))*ExaggerationWeight, ExaggerationMax),
		models.BreakdownSentiment:         round(positiveRatio(sent)*SentimentMax, 2),
	}
	if !disc.HasDisclaimer {
		breakdown[models.BreakdownMissingDisclaimer] = MissingDisclaimer
	}

	sum := total(breakdown)
	score := round(math.Min(sum, HypeScoreMax), 2)

	return models.HypeScore{
		Score:     score,
		Label:     HypeLabel(score),
		Breakdown: breakdown,
	}
}

// HypeLabel bands a 0-100 score.
func HypeLabel(score float64) models.RiskLabel {
	return band(score, 30, 60, 80)
}

// ComposeRisk builds the 0-10 risk score and one reason per rule that added
// points, in rule order.
func ComposeRisk(kw models.KeywordResult, disc models.DisclaimerResult, exag models.ExaggerationResult, sent models.SentimentSummary) models.RiskScore {
	breakdown := map[string]float64{
		models.BreakdownHypeKeywords:      0,
		models.BreakdownMissingDisclaimer: 0,
		models.BreakdownExaggeration:      0,
		models.BreakdownSentiment:         0,
	}
	reasons := []string{}

	if pts := keywordPoints(kw); pts > 0 {
		breakdown[models.BreakdownHypeKeywords] = pts
		reasons = append(reasons, fmt.Sprintf("%d hype keyword match(es) across %d phrase(s), %s severity: +%s",
			kw.TotalMatches, kw.UniqueMatches, kw.Severity, points(pts)))
	}

	if !disc.HasDisclaimer {
		breakdown[models.BreakdownMissingDisclaimer] = riskMissingDisclaimer
		reasons = append(reasons, fmt.Sprintf("No financial disclaimer found: +%s", points(riskMissingDisclaimer)))
	}

	if pts := exaggerationPoints(exag); pts > 0 {
		breakdown[models.BreakdownExaggeration] = pts
		reasons = append(reasons, fmt.Sprintf("%d exaggerated claim(s), %s severity: +%s",
			exag.TotalExaggerations, exag.Severity, points(pts)))
	}

	if pts := sentimentPoints(sent); pts > 0 {
		breakdown[models.BreakdownSentiment] = pts
		reasons = append(reasons, fmt.Sprintf("%.0f%% of analyzed chunks read as positive: +%s",
			positiveRatio(sent)*100, points(pts)))
	}

	sum := total(breakdown)
	score := round(math.Min(sum, RiskScoreMax), 1)

	return models.RiskScore{
		Score:     score,
		Label:     RiskLabel(score),
		Breakdown: breakdown,
		Reasons:   reasons,
	}
}

// RiskLabel bands a 0-10 score.
func RiskLabel(score float64) models.RiskLabel {
	return band(score, 3, 6, 8)
}

// keywordPoints keys on the total match count rather than the severity
// field so the result only depends on raw counts.
func keywordPoints(kw models.KeywordResult) float64 {
	switch {
	case kw.TotalMatches > 7:
		return riskKeywordHigh
	case kw.TotalMatches >= 3:
		return riskKeywordMedium
	case kw.TotalMatches >= 1:
		return riskKeywordLow
	default:
		return 0
	}
}

func exaggerationPoints(exag models.ExaggerationResult) float64 {
	switch {
	case exag.TotalExaggerations > 4:
		return riskExaggerationHigh
	case exag.TotalExaggerations >= 2:
		return riskExaggerationMed
	case exag.TotalExaggerations >= 1:
		return riskExaggerationLow
	default:
		return 0
	}
}

func sentimentPoints(sent models.SentimentSummary) float64 {
	ratio := positiveRatio(sent)
	switch {
	case ratio >= 0.6:
		return riskSentimentHigh
	case ratio >= 0.3:
		return riskSentimentMedium
	case ratio > 0:
		return riskSentimentLow
	default:
		return 0
	}
}

// positiveRatio is zero for a degraded summary and clamped to [0,1].
func positiveRatio(sent models.SentimentSummary) float64 {
	if sent.Label == models.SentimentUnknown {
		return 0
	}
	return math.Max(0, math.Min(sent.PositiveRatio, 1))
}

func band(score, medium, high, veryHigh float64) models.RiskLabel {
	switch {
	case score < medium:
		return models.RiskLow
	case score < high:
		return models.RiskMedium
	case score < veryHigh:
		return models.RiskHigh
	default:
		return models.RiskVeryHigh
	}
}

var breakdownOrder = []string{
	models.BreakdownHypeKeywords,
	models.BreakdownMissingDisclaimer,
	models.BreakdownExaggeration,
	models.BreakdownSentiment,
}

// total sums in a fixed order so float rounding does not depend on map
// iteration.
func total(breakdown map[string]float64) float64 {
	var sum float64
	for _, k := range breakdownOrder {
		sum += breakdown[k]
	}
	return sum
}

func points(p float64) string {
	return fmt.Sprintf("%g", p)
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
