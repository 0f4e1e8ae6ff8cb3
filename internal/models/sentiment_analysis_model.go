package models

import "strings"

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	// SentimentUnknown only comes from classifier failure.
	SentimentUnknown SentimentLabel = "unknown"
)

// ParseSentimentLabel maps a classifier label onto one of the three
// classifiable labels. Unknown labels report false.
func ParseSentimentLabel(raw string) (SentimentLabel, bool) {
	switch SentimentLabel(strings.ToLower(strings.TrimSpace(raw))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNegative:
		return SentimentNegative, true
	case SentimentNeutral:
		return SentimentNeutral, true
	default:
		return "", false
	}
}

type SentimentVerdict struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

type SentimentSummary struct {
	Label          SentimentLabel         `json:"label"`
	Confidence     float64                `json:"confidence"`
	PositiveRatio  float64                `json:"positive_ratio"`
	ChunkCounts    map[SentimentLabel]int `json:"chunk_counts"`
	ChunksAnalyzed int                    `json:"chunks_analyzed"`
	ChunksFailed   int                    `json:"chunks_failed"`
	Note           string                 `json:"note,omitempty"`
}

// NewChunkCounts returns a zeroed count map for the classifiable labels.
func NewChunkCounts() map[SentimentLabel]int {
	return map[SentimentLabel]int{
		SentimentPositive: 0,
		SentimentNegative: 0,
		SentimentNeutral:  0,
	}
}
