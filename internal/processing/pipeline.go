package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spacesedan/hypewatch/internal/models"
)

const previewLength = 300

var ErrUnsupportedSource = errors.New("only YouTube URLs are supported")

// AudioFetcher downloads the audio track of a media URL to a local file.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, sourceURL string) (Audio, error)
}

type Audio struct {
	Path            string
	Title           string
	DurationSeconds int
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Transcript, error)
}

type Transcript struct {
	Text     string
	Language string
	Segments []models.Segment
}

// Scorer is satisfied by *analyzer.Engine.
type Scorer interface {
	Run(ctx context.Context, text string) models.Response
}

// Pipeline takes a media URL through download, transcription and scoring.
type Pipeline struct {
	fetcher     AudioFetcher
	transcriber Transcriber
	scorer      Scorer
}

func NewPipeline(fetcher AudioFetcher, transcriber Transcriber, scorer Scorer) *Pipeline {
	return &Pipeline{fetcher: fetcher, transcriber: transcriber, scorer: scorer}
}

// AnalyzeSource scores the transcript of a YouTube video. The downloaded
// audio file is removed on every path once it exists.
func (p *Pipeline) AnalyzeSource(ctx context.Context, sourceURL string) (models.SourceReport, error) {
	if !IsYouTubeURL(sourceURL) {
		return models.SourceReport{}, fmt.Errorf("%w: %q", ErrUnsupportedSource, sourceURL)
	}
	start := time.Now()

	slog.Info("[Pipeline] Downloading audio", slog.String("url", sourceURL))
	audio, err := p.fetcher.FetchAudio(ctx, sourceURL)
	if audio.Path != "" {
		defer removeAudio(audio.Path)
	}
	if err != nil {
		return models.SourceReport{}, fmt.Errorf("fetch audio: %w", err)
	}

	slog.Info("[Pipeline] Transcribing", slog.String("title", audio.Title))
	transcript, err := p.transcriber.Transcribe(ctx, audio.Path)
	if err != nil {
		return models.SourceReport{}, fmt.Errorf("transcribe: %w", err)
	}
	text := strings.TrimSpace(transcript.Text)

	resp := p.scorer.Run(ctx, text)

	slog.Info("[Pipeline] Source analyzed",
		slog.String("title", audio.Title),
		slog.Int("words", len(strings.Fields(text))),
		slog.Bool("success", resp.Success),
		slog.Duration("elapsed", time.Since(start)))

	return models.SourceReport{
		SourceURL:         sourceURL,
		Title:             audio.Title,
		DurationSeconds:   audio.DurationSeconds,
		Language:          languageOrUnknown(transcript.Language),
		TranscriptPreview: preview(text, previewLength),
		FullTranscript:    text,
		Segments:          transcript.Segments,
		Response:          resp,
	}, nil
}

// IsYouTubeURL accepts youtube.com (any subdomain) and youtu.be links.
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

func removeAudio(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("[Pipeline] Failed to delete temp audio",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	slog.Debug("[Pipeline] Temp audio deleted", slog.String("path", path))
}

// preview returns at most n characters of s without splitting a rune.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func languageOrUnknown(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return "unknown"
	}
	return lang
}
