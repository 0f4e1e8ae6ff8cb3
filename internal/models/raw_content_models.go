package models

import "time"

// TranscriptMessage is the payload read from the transcripts topic.
type TranscriptMessage struct {
	ContentID string          `json:"content_id"`
	Source    string          `json:"source"`
	Title     string          `json:"title,omitempty"`
	Language  string          `json:"language,omitempty"`
	Text      string          `json:"text"`
	Metadata  ContentMetadata `json:"metadata"`
}

type ContentMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
	URL       string    `json:"url,omitempty"`
	Duration  int       `json:"duration_seconds,omitempty"`
}

// ScoredTranscript is published to the reports topic.
type ScoredTranscript struct {
	ContentID string          `json:"content_id"`
	Source    string          `json:"source"`
	Title     string          `json:"title,omitempty"`
	Metadata  ContentMetadata `json:"metadata"`
	Response  Response        `json:"response"`
	ScoredAt  time.Time       `json:"scored_at"`
}

// Segment is one timed span from the speech-to-text collaborator.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SourceReport is the result of analysing a remote media source end to end.
type SourceReport struct {
	SourceURL         string    `json:"source_url"`
	Title             string    `json:"video_title"`
	DurationSeconds   int       `json:"duration_seconds"`
	Language          string    `json:"language"`
	TranscriptPreview string    `json:"transcript_preview"`
	FullTranscript    string    `json:"full_transcript"`
	Segments          []Segment `json:"segments,omitempty"`
	Response          Response  `json:"response"`
}
