package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spacesedan/hypewatch/internal/models"
	"golang.org/x/sync/singleflight"
)

// VerdictStore is an optional shared tier behind the in-process memo, e.g.
// a Valkey instance shared by several workers. Implementations bound their
// own size (TTL, eviction) and treat every error as a miss.
type VerdictStore interface {
	Load(ctx context.Context, key string) (models.SentimentVerdict, bool)
	Store(ctx context.Context, key string, v models.SentimentVerdict)
}

// Memo caches chunk verdicts by exact chunk text. The local tier is an LRU
// of fixed capacity; concurrent lookups of the same text share a single
// classifier call. Failed classifications are never cached.
type Memo struct {
	local  *lru.Cache[string, models.SentimentVerdict]
	shared VerdictStore
	flight singleflight.Group
}

// NewMemo builds a memo holding at most size verdicts in process. shared
// may be nil.
func NewMemo(size int, shared VerdictStore) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	local, err := lru.New[string, models.SentimentVerdict](size)
	if err != nil {
		return nil, fmt.Errorf("create verdict memo: %w", err)
	}
	return &Memo{local: local, shared: shared}, nil
}

// StoreKey is the key a chunk's verdict is kept under in the shared tier.
func StoreKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "hypewatch:verdict:" + hex.EncodeToString(sum[:])
}

// Get looks text up in the local tier, then the shared one.
func (m *Memo) Get(ctx context.Context, text string) (models.SentimentVerdict, bool) {
	if v, ok := m.local.Get(text); ok {
		return v, true
	}
	if m.shared == nil {
		return models.SentimentVerdict{}, false
	}
	v, ok := m.shared.Load(ctx, StoreKey(text))
	if !ok {
		return models.SentimentVerdict{}, false
	}
	m.local.Add(text, v)
	return v, true
}

// Do returns the memoized verdict for text or computes it with classify.
// cached reports whether the verdict came without this call running
// classify itself.
func (m *Memo) Do(ctx context.Context, text string, classify func() (models.SentimentVerdict, error)) (v models.SentimentVerdict, cached bool, err error) {
	if v, ok := m.Get(ctx, text); ok {
		return v, true, nil
	}

	ran := false
	res, err, _ := m.flight.Do(text, func() (any, error) {
		if v, ok := m.local.Get(text); ok {
			return v, nil
		}
		ran = true
		v, err := classify()
		if err != nil {
			return nil, err
		}
		m.local.Add(text, v)
		if m.shared != nil {
			m.shared.Store(ctx, StoreKey(text), v)
		}
		return v, nil
	})
	if err != nil {
		return models.SentimentVerdict{}, false, err
	}
	return res.(models.SentimentVerdict), !ran, nil
}

// Len reports how many verdicts the local tier holds.
func (m *Memo) Len() int {
	return m.local.Len()
}
