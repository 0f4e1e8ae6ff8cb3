package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/hypewatch/internal/models"
	"github.com/valkey-io/valkey-go"
)

const valkeyRetries = 3

// ValkeyClient is the shared verdict tier behind the in-process memo.
// Every failure is logged and reported as a miss so that a Valkey outage
// only costs extra classifier calls.
type ValkeyClient struct {
	Client valkey.Client
	opts   valkey.ClientOption
	ttl    time.Duration
	mu     sync.Mutex
}

func valkeyOptions(address, password string, useTLS bool) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress:      []string{address},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func connectValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}
	return client, nil
}

// NewValkeyClient connects and pings. Verdicts expire after ttl.
func NewValkeyClient(address, password string, useTLS bool, ttl time.Duration) (*ValkeyClient, error) {
	if strings.TrimSpace(address) == "" {
		return nil, errors.New("valkey: address is required")
	}
	opts := valkeyOptions(address, password, useTLS)
	client, err := connectValkey(opts)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", address),
		slog.Duration("ttl", ttl))
	return &ValkeyClient{Client: client, opts: opts, ttl: ttl}, nil
}

func (vc *ValkeyClient) Close() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.Client != nil {
		vc.Client.Close()
	}
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

// Load fetches a memoized verdict.
func (vc *ValkeyClient) Load(ctx context.Context, key string) (models.SentimentVerdict, bool) {
	c := vc.client()
	res := vc.DoWithRetry(ctx, c.B().Get().Key(key).Build().Pin(), valkeyRetries)

	raw, err := res.ToString()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyClient] Verdict lookup failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return models.SentimentVerdict{}, false
	}

	v, err := decodeVerdict(raw)
	if err != nil {
		slog.Warn("[ValkeyClient] Discarding malformed verdict",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return models.SentimentVerdict{}, false
	}
	return v, true
}

// Store writes a verdict together with its expiry.
func (vc *ValkeyClient) Store(ctx context.Context, key string, v models.SentimentVerdict) {
	raw, err := encodeVerdict(v)
	if err != nil {
		return
	}

	c := vc.client()
	cmd := c.B().Set().Key(key).Value(raw).Px(verdictExpiry(vc.ttl)).Build().Pin()
	if err := vc.DoWithRetry(ctx, cmd, valkeyRetries).Error(); err != nil {
		slog.Warn("[ValkeyClient] Failed to store verdict",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// verdictExpiry is the PX value for ttl. PX has millisecond resolution and
// rejects 0, so anything shorter is rounded up to one millisecond.
func verdictExpiry(ttl time.Duration) time.Duration {
	return max(ttl, time.Millisecond)
}

// DoWithRetry retries everything except a nil reply, which is a valid
// answer for lookups. completed must be pinned to survive a retry.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.client().Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) || ctx.Err() != nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func encodeVerdict(v models.SentimentVerdict) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeVerdict(raw string) (models.SentimentVerdict, error) {
	var v models.SentimentVerdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return models.SentimentVerdict{}, err
	}
	label, ok := models.ParseSentimentLabel(string(v.Label))
	if !ok || v.Confidence < 0 || v.Confidence > 1 {
		return models.SentimentVerdict{}, fmt.Errorf("unexpected verdict %q", raw)
	}
	v.Label = label
	return v, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
