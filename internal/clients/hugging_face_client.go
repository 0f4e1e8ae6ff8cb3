package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/hypewatch/internal/models"
)

// HuggingFaceClient classifies chunks against a hosted sentiment service
// that accepts a batch of {content_id, text} and answers with one verdict
// per item.
type HuggingFaceClient struct {
	Client         *http.Client
	Endpoint       string
	HealthEndpoint string

	maxRetries     int
	initialBackoff time.Duration
}

type HuggingFaceOption func(*HuggingFaceClient)

// WithRetryPolicy overrides the attempt count and the first backoff.
func WithRetryPolicy(maxRetries int, initialBackoff time.Duration) HuggingFaceOption {
	return func(h *HuggingFaceClient) {
		if maxRetries > 0 {
			h.maxRetries = maxRetries
		}
		if initialBackoff >= 0 {
			h.initialBackoff = initialBackoff
		}
	}
}

func NewHuggingFaceClient(endpoint, healthEndpoint string, timeout time.Duration, opts ...HuggingFaceOption) (*HuggingFaceClient, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("huggingface: sentiment endpoint is required")
	}
	h := &HuggingFaceClient{
		Client:         &http.Client{Timeout: timeout},
		Endpoint:       endpoint,
		HealthEndpoint: healthEndpoint,
		maxRetries:     MAX_RETRIES,
		initialBackoff: INITIAL_BACKOFF,
	}
	for _, opt := range opts {
		opt(h)
	}
	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.String("endpoint", endpoint),
		slog.Duration("timeout", timeout))
	return h, nil
}

// DoWithRetry retries transport errors and 5xx answers with exponential
// backoff. The request body is rewound before every attempt.
func (h *HuggingFaceClient) DoWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.initialBackoff

	for attempt := 0; attempt < h.maxRetries; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, fmt.Errorf("rewind request body: %w", bodyErr)
			}
			req.Body = body
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}
		if attempt == h.maxRetries-1 {
			break
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	if err == nil {
		err = fmt.Errorf("server error: %s", errMsg(nil, resp))
	}
	return nil, err
}

// Classify sends text as a single-item batch.
func (h *HuggingFaceClient) Classify(ctx context.Context, text string) (models.SentimentVerdict, error) {
	input := models.SentimentAnalysisBatchRequest{{ContentID: "chunk", Text: text}}

	var result models.SentimentAnalysisBatchResponse
	start := time.Now()
	if err := h.postJSON(ctx, h.Endpoint, input, &result); err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return models.SentimentVerdict{}, err
	}
	if len(result) == 0 {
		return models.SentimentVerdict{}, errors.New("huggingface: empty sentiment response")
	}

	slog.Debug("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)))
	return models.SentimentVerdict{
		Label:      models.SentimentLabel(strings.ToLower(strings.TrimSpace(result[0].SentimentLabel))),
		Confidence: result[0].Confidence,
	}, nil
}

// HealthCheck reports whether the health endpoint answers 200.
func (h *HuggingFaceClient) HealthCheck(ctx context.Context) bool {
	if h.HealthEndpoint == "" {
		return true
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.HealthEndpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Health check failed", slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// helper function for posting data to the inference service
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to build request",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.DoWithRetry(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, preview(respBody))
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			slog.String("raw_response", preview(respBody)),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func preview(respBody []byte) string {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
