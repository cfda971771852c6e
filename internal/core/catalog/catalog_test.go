package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

const ingredientsJSON = `[
	{"id": 1, "name_en": "Potato", "name_bn": "আলু", "phonetic": ["alu", "aloo"]},
	{"id": "2", "name": "Onion", "name_bangla": "পেঁয়াজ", "phonetics": ["peyaj"]},
	{"id": 3, "title_en": "Garlic", "name_bn": "রসুন"},
	{"id": 4, "name_en": "Broken"}
]`

const recipesJSON = `{"data": [
	{"id": 10, "title": {"en": "Aloo Bhaji", "bn": "আলু ভাজি"}, "ingredients": {"en": ["Potato", "Onion"], "bn": ["আলু", "পেঁয়াজ"]}},
	{"id": 11, "title": "Plain Rice", "ingredients": ["Rice", "Water"]},
	{"id": 12, "title": 42}
]}`

func TestDecodeIngredientsFallbacks(t *testing.T) {
	got, err := DecodeIngredients([]byte(ingredientsJSON))
	if err != nil {
		t.Fatalf("DecodeIngredients() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}

	tests := []struct {
		idx    int
		id     common.ID
		nameEN string
		nameBN string
		phon   int
	}{
		{0, "1", "Potato", "আলু", 2},
		{1, "2", "Onion", "পেঁয়াজ", 1},
		{2, "3", "Garlic", "রসুন", 0},
		{3, "4", "Broken", "", 0},
	}
	for _, tt := range tests {
		ing := got[tt.idx]
		if ing.ID != tt.id || ing.NameEN != tt.nameEN || ing.NameBN != tt.nameBN || len(ing.Phonetic) != tt.phon {
			t.Errorf("ingredient %d = %+v", tt.idx, ing)
		}
	}
}

func TestDecodeRecipesShapes(t *testing.T) {
	got, err := DecodeRecipes([]byte(recipesJSON))
	if err != nil {
		t.Fatalf("DecodeRecipes() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (malformed recipe skipped)", len(got))
	}
	if got[0].TitleFor(common.LocaleBN) != "আলু ভাজি" || len(got[0].IngredientsFor(common.LocaleBN)) != 2 {
		t.Errorf("localized recipe = %+v", got[0])
	}
	if got[1].TitleFor(common.LocaleBN) != "Plain Rice" || len(got[1].IngredientsFor(common.LocaleEN)) != 2 {
		t.Errorf("plain recipe = %+v", got[1])
	}
}

func TestDecodeListRejectsGarbage(t *testing.T) {
	for _, payload := range []string{"", "  ", `{"items": []}`, `not json`} {
		if _, err := DecodeIngredients([]byte(payload)); err == nil {
			t.Errorf("DecodeIngredients(%q) expected error", payload)
		}
	}
}

func TestClientFetch(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		switch r.URL.Path {
		case "/api/ingredients":
			w.Write([]byte(ingredientsJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(config.CatalogConfig{BaseURL: srv.URL + "/api/", PageSize: 500, Timeout: time.Second})

	data, err := c.Fetch(context.Background(), ResourceIngredients)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != ingredientsJSON {
		t.Errorf("Fetch() body mismatch")
	}
	if gotLimit != "500" {
		t.Errorf("limit = %q, want 500", gotLimit)
	}

	if _, err := c.Fetch(context.Background(), ResourceRecipes); err == nil {
		t.Error("expected error for 404")
	}
}

type fakeSource struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func (f *fakeSource) Fetch(_ context.Context, resource string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.data[resource]), nil
}

func (f *fakeSource) set(resource, data string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data != "" {
		f.data[resource] = data
	}
	f.err = err
}

type fakeCache struct {
	data   map[string][]byte
	writes int
}

func (f *fakeCache) GetPayload(_ context.Context, name string) ([]byte, error) {
	d, ok := f.data[name]
	if !ok {
		return nil, common.ErrCacheMiss
	}
	return d, nil
}

func (f *fakeCache) SetPayload(_ context.Context, name string, data []byte) error {
	f.data[name] = data
	f.writes++
	return nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{data: map[string]string{
		ResourceIngredients: ingredientsJSON,
		ResourceRecipes:     recipesJSON,
	}}
}

func TestStoreRefreshMemoizesIndex(t *testing.T) {
	src := newFakeSource()
	store := NewStore(src, nil)

	if store.Current() != nil || store.Status().Ready {
		t.Fatal("store should start empty")
	}

	var notified int
	store.OnChange(func(*Snapshot) { notified++ })

	snap, changed, err := store.Refresh(context.Background())
	if err != nil || !changed {
		t.Fatalf("first Refresh() = changed %v, err %v", changed, err)
	}
	if len(snap.Index) != 3 {
		t.Errorf("indexed = %d, want 3 (record without name_bn skipped)", len(snap.Index))
	}

	again, changed, err := store.Refresh(context.Background())
	if err != nil || changed || again != snap {
		t.Errorf("unchanged payload should reuse snapshot: changed %v err %v", changed, err)
	}

	src.set(ResourceRecipes, `[]`, nil)
	next, changed, err := store.Refresh(context.Background())
	if err != nil || !changed || next.Version == snap.Version {
		t.Errorf("changed payload should produce new snapshot: changed %v err %v", changed, err)
	}
	if notified != 2 {
		t.Errorf("listeners notified %d times, want 2", notified)
	}
}

func TestStoreRewritesCacheOnEveryUpstreamRefresh(t *testing.T) {
	cache := &fakeCache{data: map[string][]byte{}}
	store := NewStore(newFakeSource(), cache)

	for i := 0; i < 5; i++ {
		if _, _, err := store.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() #%d: %v", i+1, err)
		}
	}
	if cache.writes != 10 {
		t.Errorf("SetPayload calls = %d, want 10 (both resources on every refresh)", cache.writes)
	}
	if string(cache.data[ResourceRecipes]) != recipesJSON {
		t.Errorf("cached recipes = %q", cache.data[ResourceRecipes])
	}
}

func TestStoreDoesNotRewriteCacheFromCache(t *testing.T) {
	cache := &fakeCache{data: map[string][]byte{}}
	if _, _, err := NewStore(newFakeSource(), cache).Refresh(context.Background()); err != nil {
		t.Fatalf("warm Refresh() error = %v", err)
	}
	cache.writes = 0

	down := newFakeSource()
	down.set("", "", errors.New("upstream down"))
	if _, _, err := NewStore(down, cache).Refresh(context.Background()); err != nil {
		t.Fatalf("cache fallback Refresh() error = %v", err)
	}
	if cache.writes != 0 {
		t.Errorf("SetPayload calls = %d, want 0 when serving from cache", cache.writes)
	}
}

func TestStoreKeepsSnapshotOnUpstreamFailure(t *testing.T) {
	src := newFakeSource()
	store := NewStore(src, nil)
	first, _, _ := store.Refresh(context.Background())

	src.set("", "", errors.New("connection refused"))
	snap, changed, err := store.Refresh(context.Background())
	if !errors.Is(err, common.ErrCatalogFetch) {
		t.Errorf("err = %v, want ErrCatalogFetch", err)
	}
	if changed || snap != first || store.Current() != first {
		t.Error("failed refresh must keep the current snapshot")
	}
	if st := store.Status(); !st.Ready || st.LastError == "" {
		t.Errorf("status = %+v", st)
	}
}

func TestStoreFallsBackToCache(t *testing.T) {
	cache := &fakeCache{data: map[string][]byte{}}

	// 先由上游寫入快取
	warm := NewStore(newFakeSource(), cache)
	if _, _, err := warm.Refresh(context.Background()); err != nil {
		t.Fatalf("warm Refresh() error = %v", err)
	}

	down := newFakeSource()
	down.set("", "", errors.New("upstream down"))
	cold := NewStore(down, cache)
	snap, changed, err := cold.Refresh(context.Background())
	if err != nil || !changed {
		t.Fatalf("cache fallback Refresh() = changed %v, err %v", changed, err)
	}
	if snap.Origin != OriginCache || snap.Version != warm.Current().Version {
		t.Errorf("snapshot = origin %q version %q", snap.Origin, snap.Version)
	}
}

func TestStoreUnavailableWithoutCache(t *testing.T) {
	src := newFakeSource()
	src.set("", "", errors.New("upstream down"))
	store := NewStore(src, &fakeCache{data: map[string][]byte{}})

	snap, _, err := store.Refresh(context.Background())
	if snap != nil || !errors.Is(err, common.ErrCatalogUnavailable) {
		t.Errorf("Refresh() = %v, %v; want nil, ErrCatalogUnavailable", snap, err)
	}
}

func TestStoreStartStopsWithContext(t *testing.T) {
	store := NewStore(newFakeSource(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.Start(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.Current() == nil {
		select {
		case <-deadline:
			t.Fatal("periodic refresh never loaded a snapshot")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
