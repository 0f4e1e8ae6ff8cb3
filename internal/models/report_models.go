package models

const (
	BreakdownHypeKeywords      = "hype_keywords"
	BreakdownMissingDisclaimer = "missing_disclaimer"
	BreakdownExaggeration      = "exaggeration"
	BreakdownSentiment         = "sentiment"
)

type RiskLabel string

const (
	RiskLow      RiskLabel = "Low"
	RiskMedium   RiskLabel = "Medium"
	RiskHigh     RiskLabel = "High"
	RiskVeryHigh RiskLabel = "Very High"
)

// HypeScore is the 0-100 composite.
type HypeScore struct {
	Score     float64            `json:"score"`
	Label     RiskLabel          `json:"label"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// RiskScore is the 0-10 composite with one reason per contributing rule.
type RiskScore struct {
	Score     float64            `json:"score"`
	Label     RiskLabel          `json:"label"`
	Breakdown map[string]float64 `json:"breakdown"`
	Reasons   []string           `json:"reasons"`
}

type RiskReport struct {
	HypeScore        HypeScore          `json:"hype_score"`
	RiskScore        RiskScore          `json:"risk_score"`
	HypeAnalysis     KeywordResult      `json:"hype_analysis"`
	Disclaimer       DisclaimerResult   `json:"disclaimer_analysis"`
	Exaggeration     ExaggerationResult `json:"exaggeration_analysis"`
	Sentiment        SentimentSummary   `json:"sentiment_analysis"`
	Reasons          []string           `json:"reasons"`
	TranscriptLength int                `json:"transcript_length"`
}

// Response is what the engine boundary hands back: either a report or an
// error message, never both.
type Response struct {
	Success bool        `json:"success"`
	Report  *RiskReport `json:"report,omitempty"`
	Error   string      `json:"error,omitempty"`
}
