package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

func newTestManager(t *testing.T, maxSize int) (*Manager, *time.Time) {
	t.Helper()
	m := NewManager(config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             time.Minute,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { m.Close() })

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	return m, &clock
}

func TestManagerGetSet(t *testing.T) {
	m, _ := newTestManager(t, 10)

	if _, err := m.Get("missing"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("Get(missing) error = %v, want ErrCacheMiss", err)
	}
	if err := m.Set("k", []string{"potato"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, err := m.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := v.([]string); len(got) != 1 || got[0] != "potato" {
		t.Errorf("Get() = %v", got)
	}

	stats := m.GetStats()
	if stats["hits"].(int64) != 1 || stats["misses"].(int64) != 1 {
		t.Errorf("stats = %v", stats)
	}
}

func TestManagerExpiry(t *testing.T) {
	m, clock := newTestManager(t, 10)

	_ = m.Set("k", 1)
	*clock = clock.Add(2 * time.Minute)

	if _, err := m.Get("k"); !errors.Is(err, common.ErrCacheMiss) {
		t.Errorf("expired entry returned, err = %v", err)
	}
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m, clock := newTestManager(t, 2)

	_ = m.Set("a", 1)
	*clock = clock.Add(time.Second)
	_ = m.Set("b", 2)
	if _, err := m.Get("a"); err != nil {
		t.Fatalf("Get(a) error = %v", err)
	}

	if err := m.Set("c", 3); err != nil {
		t.Fatalf("Set(c) error = %v", err)
	}
	if _, err := m.Get("b"); err == nil {
		t.Error("b should have been evicted")
	}
	if _, err := m.Get("a"); err != nil {
		t.Error("a should survive eviction")
	}
}

func TestManagerPurge(t *testing.T) {
	m, _ := newTestManager(t, 10)
	_ = m.Set("a", 1)
	m.Purge()
	if _, err := m.Get("a"); err == nil {
		t.Error("entry survived Purge")
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	if _, err := m.Get("k"); !errors.Is(err, common.ErrCacheDisabled) {
		t.Errorf("nil Get error = %v", err)
	}
	if err := m.Set("k", 1); err != nil {
		t.Errorf("nil Set error = %v", err)
	}
	m.Purge()
	if err := m.Close(); err != nil {
		t.Errorf("nil Close error = %v", err)
	}
	if NewManager(config.CacheConfig{Enabled: false}) != nil {
		t.Error("disabled config should yield nil manager")
	}
}

func TestSearchKey(t *testing.T) {
	base := SearchKey("v1", "alu", 10, 0.35)
	if base != SearchKey("v1", "alu", 10, 0.35) {
		t.Error("SearchKey is not deterministic")
	}
	for _, other := range []string{
		SearchKey("v2", "alu", 10, 0.35),
		SearchKey("v1", "alo", 10, 0.35),
		SearchKey("v1", "alu", 5, 0.35),
		SearchKey("v1", "alu", 10, 0.3),
	} {
		if other == base {
			t.Errorf("SearchKey collision for %q", other)
		}
	}
}

func TestDisabledService(t *testing.T) {
	s, err := NewService(context.Background(), config.RedisConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if s.Enabled() {
		t.Error("disabled service reports enabled")
	}
	if _, err := s.GetPayload(context.Background(), "ingredients"); !errors.Is(err, common.ErrCacheDisabled) {
		t.Errorf("GetPayload error = %v", err)
	}
	if err := s.SetPayload(context.Background(), "ingredients", []byte("[]")); err != nil {
		t.Errorf("SetPayload error = %v", err)
	}
}
