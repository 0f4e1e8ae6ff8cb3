package models

// Severity is a coarse band over a detector's raw count.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type KeywordMatch struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type KeywordResult struct {
	FoundKeywords []KeywordMatch `json:"found_keywords"`
	TotalMatches  int            `json:"total_matches"`
	UniqueMatches int            `json:"unique_matches"`
	Severity      Severity       `json:"severity"`
}

type DisclaimerResult struct {
	HasDisclaimer     bool     `json:"has_disclaimer"`
	FoundDisclaimers  []string `json:"found_disclaimers"`
	MissingDisclaimer bool     `json:"missing_disclaimer"`
}

type PatternMatch struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Matches int    `json:"matches"`
}

type ExaggerationResult struct {
	ExaggeratedClaims  []PatternMatch `json:"exaggerated_claims"`
	TotalExaggerations int            `json:"total_exaggerations"`
	Severity           Severity       `json:"severity"`
}
