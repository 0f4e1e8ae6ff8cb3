package detectors

import (
	"regexp"
	"strings"

	"github.com/spacesedan/hypewatch/internal/models"
)

type claimPattern struct {
	name string
	re   *regexp.Regexp
}

// claimPatterns run in this order against the lower-cased transcript. They
// are independent: one phrase may satisfy several of them and is counted
// once per pattern.
var claimPatterns = []claimPattern{
	{"multiplier_claim", regexp.MustCompile(`\d+x\s*(return|profit|gain|your money)?`)},
	{"percentage_claim", regexp.MustCompile(`\d+\s*%\s*(profit|return|gain|interest)`)},
	{"dollar_timeframe_claim", regexp.MustCompile(`\$[\d,]+\s*in\s*(one|a)\s*\w+`)},
	{"money_multiplier_claim", regexp.MustCompile(`(double|triple|quadruple)\s*(your)?\s*money`)},
	{"absolute_outcome_claim", regexp.MustCompile(`(never|always)\s*(lose|fail)`)},
	{"guarantee_claim", regexp.MustCompile(`(guaranteed|promise|assure)\s*(you|returns|profit|gains)?`)},
	{"quit_job_claim", regexp.MustCompile(`(quit|leave)\s*(your)?\s*(job|work|9\s*to\s*5)`)},
	{"early_retirement_claim", regexp.MustCompile(`(retire|retirement)\s*(early|at \d+|by \d+)`)},
	{"fast_income_claim", regexp.MustCompile(`made?\s*\$[\d,]+\s*in\s*(a day|one day|a week|one week|a month)`)},
	{"urgency_claim", regexp.MustCompile(`(act now|limited time|before it's too late|don't miss out|last chance)`)},
	{"secrecy_claim", regexp.MustCompile(`(secret|hidden)\s*(strategy|method|system|trick|formula)`)},
}

// ClaimPatternNames lists the exaggeration patterns in evaluation order.
func ClaimPatternNames() []string {
	names := make([]string, len(claimPatterns))
	for i, p := range claimPatterns {
		names[i] = p.name
	}
	return names
}

// DetectExaggerations counts matches of every claim pattern. A pattern
// adds its full match count to the total; patterns with no match are left
// out of the result.
func DetectExaggerations(text string) models.ExaggerationResult {
	result := models.ExaggerationResult{
		ExaggeratedClaims: []models.PatternMatch{},
		Severity:          models.SeverityLow,
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	lc := strings.ToLower(text)
	for _, p := range claimPatterns {
		n := len(p.re.FindAllStringIndex(lc, -1))
		if n == 0 {
			continue
		}
		result.ExaggeratedClaims = append(result.ExaggeratedClaims, models.PatternMatch{
			Name:    p.name,
			Pattern: p.re.String(),
			Matches: n,
		})
		result.TotalExaggerations += n
	}

	result.Severity = ExaggerationBand.Severity(result.TotalExaggerations)
	return result
}
