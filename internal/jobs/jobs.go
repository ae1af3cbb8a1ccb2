// Package jobs assembles the long-running tradewatch operations into
// runnable job definitions.
package jobs

import (
	"context"

	"github.com/abelbrown/tradewatch/internal/estimate"
	"github.com/abelbrown/tradewatch/internal/job"
	"github.com/abelbrown/tradewatch/internal/sync"
	"github.com/abelbrown/tradewatch/internal/trade"
)

// syncEngine is the slice of the sync engine the jobs need.
type syncEngine interface {
	Sync(ctx context.Context, progress func(sync.Progress)) ([]string, error)
}

// estimator prices single items.
type estimator interface {
	Estimate(ctx context.Context, item *trade.Item) (estimate.Estimate, error)
}

// detailFetcher resolves ids to full item records.
type detailFetcher interface {
	FetchAll(ctx context.Context, ids []string, refresh bool) ([]trade.Item, error)
}

// estimateCache answers whether an item already has a cached estimate.
type estimateCache interface {
	Estimate(itemID string, dest any) (bool, error)
}

// NewSyncAccount builds the account-sync job: it crawls the trade site
// for all of the account's listings. This can take a few minutes.
func NewSyncAccount(engine syncEngine) *job.Job[[]string] {
	return &job.Job[[]string]{
		ID:          "account-sync",
		Name:        "Sync Account",
		Description: "Scrapes the trade website for all your items. This might take a few minutes.",
		Task: func(ctx context.Context, out chan<- job.Progress[[]string]) error {
			ids, err := engine.Sync(ctx, func(p sync.Progress) {
				select {
				case out <- job.Progress[[]string]{Current: p.Current, Total: p.Total, Data: p.IDs}:
				case <-ctx.Done():
				}
			})
			if err != nil {
				return err
			}
			// The steady-state path emits no pagination snapshots, so
			// report the final state explicitly.
			select {
			case out <- job.Progress[[]string]{Current: len(ids), Total: len(ids), Data: ids}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		},
	}
}

// NewPriceCheckAll builds the estimate-sweep job over the given items.
// With skipAlreadyChecked set, items with a live cached estimate are
// reported without recomputation.
func NewPriceCheckAll(est estimator, cache estimateCache, items []trade.Item, skipAlreadyChecked bool) *job.Job[estimate.Estimate] {
	return &job.Job[estimate.Estimate]{
		ID:          "price-check-items",
		Name:        "Price Checking Items",
		Description: "Checking items listed...",
		Task: func(ctx context.Context, out chan<- job.Progress[estimate.Estimate]) error {
			for i := range items {
				item := &items[i]

				var result estimate.Estimate
				cached := false
				if skipAlreadyChecked {
					ok, err := cache.Estimate(item.ID, &result)
					if err != nil {
						return err
					}
					cached = ok
				}
				if !cached {
					var err error
					result, err = est.Estimate(ctx, item)
					if err != nil {
						return err
					}
				}

				select {
				case out <- job.Progress[estimate.Estimate]{Current: i + 1, Total: len(items), Data: result}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		},
	}
}

// NewRefreshAll builds the refresh job: it re-fetches the given items
// in upstream-sized batches, bypassing the local cache so stale prices
// and stash positions are overwritten.
func NewRefreshAll(fetch detailFetcher, items []trade.Item) *job.Job[[]trade.Item] {
	return &job.Job[[]trade.Item]{
		ID:          "refresh-items",
		Name:        "Refreshing Items",
		Description: "Refreshing items listed...",
		Task: func(ctx context.Context, out chan<- job.Progress[[]trade.Item]) error {
			var refreshed []trade.Item
			for start := 0; start < len(items); start += trade.MaxFetchBatch {
				end := start + trade.MaxFetchBatch
				if end > len(items) {
					end = len(items)
				}

				ids := make([]string, 0, end-start)
				for _, item := range items[start:end] {
					ids = append(ids, item.ID)
				}

				batch, err := fetch.FetchAll(ctx, ids, true)
				if err != nil {
					return err
				}
				refreshed = append(refreshed, batch...)

				select {
				case out <- job.Progress[[]trade.Item]{Current: end, Total: len(items), Data: refreshed}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		},
	}
}
