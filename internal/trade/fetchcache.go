package trade

import (
	"context"
)

// DetailFetcher fetches full item records for ids, at most MaxFetchBatch
// per call.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, ids []string) ([]Item, error)
}

// DetailCache is a persistent item-detail cache keyed by item id.
type DetailCache interface {
	Detail(id string) (*Item, bool, error)
	SaveDetail(item Item) error
}

// CachedFetcher fetches item details through the cache: hits are served
// locally, misses go upstream in batches of MaxFetchBatch and are stored
// on the way back.
type CachedFetcher struct {
	api   DetailFetcher
	cache DetailCache
}

// NewCachedFetcher creates a CachedFetcher.
func NewCachedFetcher(api DetailFetcher, cache DetailCache) *CachedFetcher {
	return &CachedFetcher{api: api, cache: cache}
}

// FetchAll returns item details for all ids. With refresh set, the cache
// is bypassed on read (fresh records still overwrite stale ones). Ids
// the upstream no longer knows are silently absent from the result.
func (f *CachedFetcher) FetchAll(ctx context.Context, ids []string, refresh bool) ([]Item, error) {
	items := make([]Item, 0, len(ids))
	var missing []string

	if refresh {
		missing = ids
	} else {
		for _, id := range ids {
			item, ok, err := f.cache.Detail(id)
			if err != nil {
				return nil, err
			}
			if ok {
				items = append(items, *item)
			} else {
				missing = append(missing, id)
			}
		}
	}

	for start := 0; start < len(missing); start += MaxFetchBatch {
		end := start + MaxFetchBatch
		if end > len(missing) {
			end = len(missing)
		}

		fetched, err := f.api.FetchDetails(ctx, missing[start:end])
		if err != nil {
			return nil, err
		}
		for _, item := range fetched {
			if err := f.cache.SaveDetail(item); err != nil {
				return nil, err
			}
		}
		items = append(items, fetched...)
	}

	return items, nil
}
