package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spacesedan/hypewatch/internal/models"
)

const openAIPrompt = `You label the sentiment of a spoken financial transcript excerpt.
Answer with a single JSON object and nothing else:
{"label": "positive" | "negative" | "neutral", "confidence": <number between 0 and 1>}`

// OpenAIClassifier asks a chat model for a {label, confidence} verdict.
type OpenAIClassifier struct {
	model    string
	complete func(ctx context.Context, params openai.ChatCompletionNewParams) (string, error)
}

func NewOpenAIClassifier(apiKey, model string, timeout time.Duration) (*OpenAIClassifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai: missing OPENAI_API_KEY")
	}
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
	)
	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", model),
		slog.Duration("timeout", timeout))

	return &OpenAIClassifier{
		model: model,
		complete: func(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
			completion, err := client.Chat.Completions.New(ctx, params)
			if err != nil {
				return "", err
			}
			if len(completion.Choices) == 0 {
				return "", errors.New("openai: no choices in completion")
			}
			return completion.Choices[0].Message.Content, nil
		},
	}, nil
}

func (o *OpenAIClassifier) Classify(ctx context.Context, text string) (models.SentimentVerdict, error) {
	content, err := o.complete(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAIPrompt),
			openai.UserMessage(text),
		}),
		Model:       openai.F(openai.ChatModel(o.model)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return models.SentimentVerdict{}, fmt.Errorf("openai completion: %w", err)
	}
	return parseOpenAIVerdict(content)
}

// parseOpenAIVerdict accepts the JSON object with or without a markdown
// code fence around it.
func parseOpenAIVerdict(content string) (models.SentimentVerdict, error) {
	raw := cleanOpenAIResponse(content)
	if raw == "" {
		return models.SentimentVerdict{}, errors.New("openai: empty response")
	}

	var out struct {
		Label      string   `json:"label"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return models.SentimentVerdict{}, fmt.Errorf("openai: decode verdict: %w", err)
	}
	if out.Confidence == nil {
		return models.SentimentVerdict{}, errors.New("openai: verdict has no confidence")
	}
	return models.SentimentVerdict{
		Label:      models.SentimentLabel(strings.ToLower(strings.TrimSpace(out.Label))),
		Confidence: *out.Confidence,
	}, nil
}

func cleanOpenAIResponse(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}
