package trade

import (
	"context"
	"testing"
)

type memDetailCache struct {
	items map[string]Item
}

func newMemDetailCache() *memDetailCache {
	return &memDetailCache{items: make(map[string]Item)}
}

func (c *memDetailCache) Detail(id string) (*Item, bool, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, false, nil
	}
	return &item, true, nil
}

func (c *memDetailCache) SaveDetail(item Item) error {
	c.items[item.ID] = item
	return nil
}

type countingAPI struct {
	batches [][]string
}

func (a *countingAPI) FetchDetails(ctx context.Context, ids []string) ([]Item, error) {
	a.batches = append(a.batches, ids)
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{ID: id})
	}
	return items, nil
}

func TestFetchAllServesCacheHits(t *testing.T) {
	cache := newMemDetailCache()
	cache.SaveDetail(Item{ID: "cached"})
	api := &countingAPI{}
	f := NewCachedFetcher(api, cache)

	items, err := f.FetchAll(context.Background(), []string{"cached", "miss"}, false)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if len(api.batches) != 1 || len(api.batches[0]) != 1 || api.batches[0][0] != "miss" {
		t.Errorf("expected only the miss to go upstream, got %v", api.batches)
	}
	// The miss is now cached.
	if _, ok, _ := cache.Detail("miss"); !ok {
		t.Error("fetched item was not cached")
	}
}

func TestFetchAllRefreshBypassesCache(t *testing.T) {
	cache := newMemDetailCache()
	cache.SaveDetail(Item{ID: "stale"})
	api := &countingAPI{}
	f := NewCachedFetcher(api, cache)

	if _, err := f.FetchAll(context.Background(), []string{"stale"}, true); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(api.batches) != 1 {
		t.Errorf("refresh must go upstream, got %v", api.batches)
	}
}

func TestFetchAllBatchesMisses(t *testing.T) {
	api := &countingAPI{}
	f := NewCachedFetcher(api, newMemDetailCache())

	ids := make([]string, 23)
	for i := range ids {
		ids[i] = string(rune('a'+i/10)) + string(rune('0'+i%10))
	}

	items, err := f.FetchAll(context.Background(), ids, false)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	if len(items) != 23 {
		t.Errorf("expected 23 items, got %d", len(items))
	}
	if len(api.batches) != 3 {
		t.Fatalf("expected 3 upstream batches, got %d", len(api.batches))
	}
	for i, batch := range api.batches {
		if len(batch) > MaxFetchBatch {
			t.Errorf("batch %d exceeds the upstream cap: %d ids", i, len(batch))
		}
	}
}
