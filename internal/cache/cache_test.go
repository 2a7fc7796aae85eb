package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/redis"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, pkgredis.ErrMiss
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var n int64
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountByPattern(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var n int64
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n, nil
}

func testSentence() conllx.Sentence {
	return conllx.Sentence{
		{ID: 1, Form: "Die", Lemma: "der", POS: "ART", Head: 2, HeadRel: "DET"},
		{ID: 2, Form: "Änderungen", Lemma: "änderung", POS: "NN", Head: 0, HeadRel: "ROOT"},
	}
}

func upper(s conllx.Sentence) error {
	for i := range s {
		s[i].Lemma = strings.ToUpper(s[i].Lemma)
	}
	return nil
}

func TestGetOrCompute(t *testing.T) {
	store := newMemStore()
	c := New(store, time.Minute, nil)
	ctx := context.Background()

	in := testSentence()
	var calls int
	compute := func(s conllx.Sentence) error {
		calls++
		return upper(s)
	}

	out, hit, err := c.GetOrCompute(ctx, "lemmatize", in, compute)
	if err != nil || hit {
		t.Fatalf("first call: hit = %v, err = %v", hit, err)
	}
	if out[0].Lemma != "DER" || out[1].Lemma != "ÄNDERUNG" {
		t.Errorf("out = %+v", out)
	}
	if in[0].Lemma != "der" {
		t.Error("input sentence modified")
	}

	out, hit, err = c.GetOrCompute(ctx, "lemmatize", testSentence(), compute)
	if err != nil || !hit {
		t.Fatalf("second call: hit = %v, err = %v", hit, err)
	}
	if out[1].Lemma != "ÄNDERUNG" || out[1].Form != "Änderungen" {
		t.Errorf("cached out = %+v", out)
	}
	if calls != 1 {
		t.Errorf("compute calls = %d, want 1", calls)
	}

	if _, hit, _ := c.GetOrCompute(ctx, "delemmatize", testSentence(), compute); hit {
		t.Error("variants share cache entries")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Stats() = %d, %d, want 1, 2", hits, misses)
	}
	for k, ttl := range store.ttls {
		if ttl != time.Minute {
			t.Errorf("ttl of %s = %v", k, ttl)
		}
	}
}

func TestKeyDependsOnInput(t *testing.T) {
	a, err := buildKey("lemmatize", testSentence())
	if err != nil {
		t.Fatal(err)
	}
	s := testSentence()
	s[1].HeadRel = "SUBJ"
	b, _ := buildKey("lemmatize", s)
	s = testSentence()
	s[1].Features = "pl"
	c, _ := buildKey("lemmatize", s)

	if a == b {
		t.Error("relation change did not change the key")
	}
	if a != c {
		t.Error("unread column changed the key")
	}
	if !strings.HasPrefix(a, "tdz:lemmatize:") {
		t.Errorf("key = %q", a)
	}
}

func TestComputeError(t *testing.T) {
	c := New(newMemStore(), time.Minute, nil)
	boom := errors.New("boom")
	_, _, err := c.GetOrCompute(context.Background(), "lemmatize", testSentence(), func(conllx.Sentence) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if n, _ := c.Keys(context.Background()); n != 0 {
		t.Errorf("failed result cached: %d keys", n)
	}
}

func TestSingleflight(t *testing.T) {
	c := New(newMemStore(), time.Minute, nil)
	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(s conllx.Sentence) error {
		calls.Add(1)
		<-release
		return upper(s)
	}

	var wg sync.WaitGroup
	results := make([]conllx.Sentence, 8)
	for i := range results {
		wg.Go(func() {
			out, _, err := c.GetOrCompute(context.Background(), "lemmatize", testSentence(), compute)
			if err != nil {
				t.Error(err)
			}
			results[i] = out
		})
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n < 1 || n > int32(len(results)) {
		t.Errorf("compute calls = %d", n)
	}
	for i, out := range results {
		if len(out) != 2 || out[0].Lemma != "DER" {
			t.Errorf("result %d = %+v", i, out)
		}
	}
	results[0][0].Lemma = "x"
	if results[1][0].Lemma != "DER" {
		t.Error("callers share the returned sentence")
	}
}

func TestInvalidateAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	c := New(newMemStore(), time.Minute, m)
	ctx := context.Background()

	c.GetOrCompute(ctx, "lemmatize", testSentence(), upper)
	c.GetOrCompute(ctx, "lemmatize", testSentence(), upper)

	if n, err := c.Keys(ctx); err != nil || n != 1 {
		t.Errorf("Keys() = %d, %v, want 1", n, err)
	}
	deleted, err := c.Invalidate(ctx)
	if err != nil || deleted != 1 {
		t.Errorf("Invalidate() = %d, %v, want 1", deleted, err)
	}
	if _, hit, _ := c.GetOrCompute(ctx, "lemmatize", testSentence(), upper); hit {
		t.Error("hit after Invalidate")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			got[f.GetName()] += metric.GetCounter().GetValue()
		}
	}
	if got["cache_hits_total"] != 1 || got["cache_misses_total"] != 2 {
		t.Errorf("hits = %v, misses = %v", got["cache_hits_total"], got["cache_misses_total"])
	}
}

type downStore struct {
	memStore
	calls atomic.Int32
}

func (d *downStore) Get(context.Context, string) ([]byte, error) {
	d.calls.Add(1)
	return nil, errors.New("connection refused")
}

func (d *downStore) Set(context.Context, string, []byte, time.Duration) error {
	d.calls.Add(1)
	return errors.New("connection refused")
}

func TestStoreOutageBypassesCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := &downStore{}
	c := New(store, time.Minute, m)

	for range 10 {
		out, hit, err := c.GetOrCompute(context.Background(), "lemmatize", testSentence(), upper)
		if err != nil || hit {
			t.Fatalf("hit = %v, err = %v", hit, err)
		}
		if out[0].Lemma != "DER" {
			t.Fatalf("out = %+v", out)
		}
	}
	// Five failing calls open the circuit; later requests skip the store.
	if n := store.calls.Load(); n != 5 {
		t.Errorf("store calls = %d, want 5", n)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == "cache_circuit_open" {
			if v := f.GetMetric()[0].GetGauge().GetValue(); v != 1 {
				t.Errorf("cache_circuit_open = %v, want 1", v)
			}
		}
	}
}
