// Package detectors holds the lexical detectors that scan a transcript for
// hype keywords, disclaimers and exaggerated financial claims.
//
// Every detector is a pure function of its inputs. Blank text is valid and
// yields the detector's zero-signal result.
package detectors

import "github.com/spacesedan/hypewatch/internal/models"

// Band thresholds: counts below Medium are low, counts above High are high.
type Band struct {
	Medium int
	High   int
}

var (
	KeywordBand      = Band{Medium: 3, High: 7}
	ExaggerationBand = Band{Medium: 2, High: 4}
)

// Severity maps a raw count onto its band.
func (b Band) Severity(total int) models.Severity {
	switch {
	case total > b.High:
		return models.SeverityHigh
	case total >= b.Medium:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
