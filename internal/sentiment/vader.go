package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/hypewatch/internal/models"
)

const vaderThreshold = 0.20

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips the resulting tags so
// captions pasted from video descriptions score like plain speech.
func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := tagPattern.ReplaceAllString(string(output), " ")
	return strings.Join(strings.Fields(plain), " ")
}

// VaderClassifier is the local lexicon-based classifier. It needs no
// network or model files and is the default back-end.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (c *VaderClassifier) Classify(ctx context.Context, text string) (models.SentimentVerdict, error) {
	if err := ctx.Err(); err != nil {
		return models.SentimentVerdict{}, err
	}

	compound := c.analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound
	return vaderVerdict(compound), nil
}

func vaderVerdict(compound float64) models.SentimentVerdict {
	magnitude := math.Min(math.Abs(compound), 1)
	switch {
	case compound >= vaderThreshold:
		return models.SentimentVerdict{Label: models.SentimentPositive, Confidence: magnitude}
	case compound <= -vaderThreshold:
		return models.SentimentVerdict{Label: models.SentimentNegative, Confidence: magnitude}
	default:
		return models.SentimentVerdict{Label: models.SentimentNeutral, Confidence: 1 - magnitude}
	}
}
