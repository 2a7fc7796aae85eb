// Package cache memoizes processed sentences in Redis. Entries are keyed by
// pipeline variant, which names the lexicon, and a hash of the columns the
// rules read. They hold the resulting lemma column.
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/resilience"
)

const keyPrefix = "tdz:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
	CountByPattern(ctx context.Context, pattern string) (int64, error)
}

// SentenceCache never fails a request because of the store: store errors
// are logged and treated as misses, and while the store keeps failing a
// circuit breaker skips it entirely.
type SentenceCache struct {
	store   Store
	ttl     time.Duration
	breaker *resilience.CircuitBreaker
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

// New returns a cache over store. m may be nil.
func New(store Store, ttl time.Duration, m *metrics.Metrics) *SentenceCache {
	cfg := resilience.BreakerConfig{FailureThreshold: 5, Cooldown: 30 * time.Second}
	if m != nil {
		cfg.OnStateChange = func(s resilience.State) {
			open := 0.0
			if s == resilience.StateOpen {
				open = 1
			}
			m.CacheCircuitOpen.Set(open)
		}
	}
	return &SentenceCache{
		store:   store,
		ttl:     ttl,
		breaker: resilience.NewCircuitBreaker("sentence-cache", cfg),
		metrics: m,
		logger:  slog.Default().With("component", "sentence-cache"),
	}
}

// GetOrCompute returns s processed by compute, from the cache when possible.
// compute receives a private copy of s and rewrites it in place. Concurrent
// misses on the same key run compute once. s itself is never modified.
func (c *SentenceCache) GetOrCompute(
	ctx context.Context,
	variant string,
	s conllx.Sentence,
	compute func(conllx.Sentence) error,
) (conllx.Sentence, bool, error) {
	key, err := buildKey(variant, s)
	if err != nil {
		return nil, false, err
	}
	if lemmas, ok := c.get(ctx, key, len(s)); ok {
		c.recordHit()
		return withLemmas(s, lemmas), true, nil
	}
	c.recordMiss()

	val, err, _ := c.group.Do(key, func() (any, error) {
		out := s.Clone()
		if err := compute(out); err != nil {
			return nil, err
		}
		lemmas := lemmaColumn(out)
		c.set(ctx, key, lemmas)
		return lemmas, nil
	})
	if err != nil {
		return nil, false, err
	}
	return withLemmas(s, val.([]string)), false, nil
}

// Invalidate drops every cached sentence and returns how many were removed.
func (c *SentenceCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

// Stats returns the hit and miss counts of this process.
func (c *SentenceCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Keys counts the cached sentences.
func (c *SentenceCache) Keys(ctx context.Context) (int64, error) {
	return c.store.CountByPattern(ctx, keyPrefix+"*")
}

func (c *SentenceCache) get(ctx context.Context, key string, n int) ([]string, bool) {
	var data []byte
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.store.Get(ctx, key)
		if pkgredis.IsMiss(err) {
			return nil
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	var lemmas []string
	if err := msgpack.Unmarshal(data, &lemmas); err != nil {
		c.logger.Error("cache decode failed", "key", key, "error", err)
		return nil, false
	}
	if len(lemmas) != n {
		return nil, false
	}
	return lemmas, true
}

func (c *SentenceCache) set(ctx context.Context, key string, lemmas []string) {
	data, err := msgpack.Marshal(lemmas)
	if err != nil {
		c.logger.Error("cache encode failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.store.Set(ctx, key, data, c.ttl)
	})
	if err != nil && !errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

func (c *SentenceCache) recordHit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *SentenceCache) recordMiss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// keyToken holds the columns the rules read.
type keyToken struct {
	Form    string `msgpack:"f"`
	Lemma   string `msgpack:"l"`
	Tag     string `msgpack:"t"`
	Head    int    `msgpack:"h"`
	HeadRel string `msgpack:"r"`
}

func buildKey(variant string, s conllx.Sentence) (string, error) {
	toks := make([]keyToken, len(s))
	for i, tok := range s {
		toks[i] = keyToken{Form: tok.Form, Lemma: tok.Lemma, Tag: tok.POS, Head: tok.Head, HeadRel: tok.HeadRel}
	}
	raw, err := msgpack.Marshal(toks)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	hash := sha256.Sum256(raw)
	return fmt.Sprintf("%s%s:%x", keyPrefix, variant, hash[:16]), nil
}

func lemmaColumn(s conllx.Sentence) []string {
	lemmas := make([]string, len(s))
	for i, tok := range s {
		lemmas[i] = tok.Lemma
	}
	return lemmas
}

func withLemmas(s conllx.Sentence, lemmas []string) conllx.Sentence {
	out := s.Clone()
	for i := range out {
		out[i].Lemma = lemmas[i]
	}
	return out
}
