// Package sync mirrors one account's marketplace listings locally by
// paginating the upstream's price-sorted search. The upstream has no
// offset cursor and caps every result page, so pagination works by
// raising a price floor past the last item on each page, splitting by
// item level when too many listings share one exact price.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abelbrown/tradewatch/internal/logging"
	"github.com/abelbrown/tradewatch/internal/store"
	"github.com/abelbrown/tradewatch/internal/trade"
)

const (
	// maxPasses caps the outer pagination loop. Hitting it means the
	// upstream is behaving pathologically; the run aborts with whatever
	// was accumulated.
	maxPasses = 20

	// maxSplitSteps caps the item-level split sub-loop, which has no
	// other proven termination bound. Exhaustion is a partial success,
	// not an error.
	maxSplitSteps = 40

	// maxItemLevel is the upper bound of the item-level range.
	maxItemLevel = 100

	// defaultDelay is the inter-pass wait. The upstream tolerates a far
	// lower cadence for repeated searches than its raw per-request
	// budget allows, so this applies on top of the request throttling.
	defaultDelay = 10 * time.Second
)

// ErrTooManyIterations is returned when the pagination loop hits its
// pass cap. The accumulated id set is still returned alongside it.
var ErrTooManyIterations = errors.New("sync: too many pagination passes")

// Progress is one pagination snapshot.
type Progress struct {
	Current int
	Total   int
	IDs     []string
}

// searchAPI is the slice of the trade client the engine needs.
type searchAPI interface {
	Search(ctx context.Context, q trade.Query) (*trade.SearchResult, error)
}

// detailFetcher resolves ids to full item records, optionally bypassing
// the local cache.
type detailFetcher interface {
	FetchAll(ctx context.Context, ids []string, refresh bool) ([]trade.Item, error)
}

// Engine paginates one account's listings into its mirror.
type Engine struct {
	api    searchAPI
	fetch  detailFetcher
	mirror *store.Mirror

	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEngine creates an Engine for the mirror's account.
func NewEngine(api searchAPI, fetch detailFetcher, mirror *store.Mirror) *Engine {
	return &Engine{
		api:    api,
		fetch:  fetch,
		mirror: mirror,
		delay:  defaultDelay,
		sleep:  sleepContext,
	}
}

// Sync runs the pagination loop to completion and returns the full id
// set. The progress callback, when non-nil, receives one snapshot per
// pass. When the run is already up to date (the upstream total matches
// the cached count on the first pass) the cached set is returned with
// no further network calls.
//
// On ErrTooManyIterations the partial id set accumulated so far is
// returned alongside the error.
func (e *Engine) Sync(ctx context.Context, progress func(Progress)) ([]string, error) {
	floor := 1.0
	currency := trade.DefaultCurrency
	var seen []string
	totalNeeded := 0

	cachedCount, err := e.mirror.Count()
	if err != nil {
		return nil, err
	}

	for pass := 1; ; pass++ {
		if pass > maxPasses {
			logging.Warn("pagination pass cap hit", "account", e.mirror.Account(), "seen", len(seen))
			if err := e.mirror.Replace(seen); err != nil {
				return seen, err
			}
			return seen, fmt.Errorf("%w (%d)", ErrTooManyIterations, maxPasses)
		}

		result, err := e.api.Search(ctx, trade.Query{
			Account:  e.mirror.Account(),
			PriceMin: trade.Float(floor),
			Currency: currency,
		})
		if err != nil {
			return seen, err
		}

		if pass == 1 {
			totalNeeded = result.Total
			logging.Info("sync started", "account", e.mirror.Account(), "total", totalNeeded, "cached", cachedCount)

			if totalNeeded == cachedCount {
				// Steady state: everything is already mirrored.
				logging.Info("mirror already current", "account", e.mirror.Account())
				return e.mirror.KnownIDs()
			}
		}

		if len(result.Result) == 0 {
			break
		}

		// Known ids the floor has passed without re-seeing must have
		// sold; drop them before this page lands in the mirror.
		if _, err := e.mirror.Prune(floor, currency, toSet(seen)); err != nil {
			return seen, err
		}

		if _, err := e.mirror.Upsert(result.Result); err != nil {
			return seen, err
		}
		seen = merge(seen, result.Result)

		// The page is price-ascending, so its last id carries the
		// highest price seen so far. Fetch it fresh: a stale cached
		// price here would stall the floor.
		lastPrice, lastCurrency := floor, currency
		boundary, err := e.fetch.FetchAll(ctx, result.Result[len(result.Result)-1:], true)
		if err != nil {
			return seen, err
		}
		if len(boundary) > 0 && boundary[0].Listing.Price.Amount > 0 {
			lastPrice = boundary[0].Listing.Price.Amount
			lastCurrency = boundary[0].Listing.Price.Currency
		}

		switch {
		case lastCurrency != currency:
			// Higher-tier currencies denominate in smaller amounts, so
			// a lower numeric floor is expected on a switch.
			logging.Debug("switching pagination currency", "from", currency, "to", lastCurrency)
			currency = lastCurrency
			if lastPrice < floor {
				floor = lastPrice
			}
		case lastPrice == floor:
			// The whole page shares one exact price; bumping the floor
			// past it would skip listings. Enumerate the price point by
			// item level, then step over it.
			split, err := e.splitByItemLevel(ctx, floor, currency)
			seen = merge(seen, split)
			if err != nil {
				return seen, err
			}
			if _, err := e.mirror.Upsert(split); err != nil {
				return seen, err
			}
			floor++
		default:
			logging.Debug("jumping price floor", "from", floor, "to", lastPrice)
			floor = lastPrice
		}

		if progress != nil {
			progress(Progress{Current: len(seen), Total: totalNeeded, IDs: seen})
		}

		if err := e.sleep(ctx, e.delay); err != nil {
			return seen, err
		}
	}

	if err := e.mirror.Replace(seen); err != nil {
		return seen, err
	}
	logging.Info("sync finished", "account", e.mirror.Account(), "items", len(seen))
	return seen, nil
}

// splitByItemLevel enumerates all listings at one exact price point by
// narrowing an item-level window whenever a sub-query still fills a
// whole page, and advancing the window once it fits. Terminates when
// the accumulated count reaches the price point's reported total, when
// the window reaches the top of the level range, or at the step cap
// (partial result, no error).
func (e *Engine) splitByItemLevel(ctx context.Context, price float64, currency string) ([]string, error) {
	var ids []string
	total := -1
	lo, hi := 1, maxItemLevel

	for step := 0; step < maxSplitSteps; step++ {
		result, err := e.api.Search(ctx, trade.Query{
			Account:  e.mirror.Account(),
			PriceMin: trade.Float(price),
			PriceMax: trade.Float(price),
			Currency: currency,
			ILvlMin:  trade.Int(lo),
			ILvlMax:  trade.Int(hi),
			Sort:     "ilvl",
		})
		if err != nil {
			return ids, err
		}
		if total < 0 {
			// The first window spans the whole level range, so its
			// total is the price point's total.
			total = result.Total
		}

		if len(result.Result) >= trade.PageCap && lo < hi {
			hi = lo + (hi-lo)/2
			continue
		}

		ids = merge(ids, result.Result)
		if total >= 0 && len(ids) >= total {
			return ids, nil
		}
		if hi >= maxItemLevel {
			return ids, nil
		}
		lo, hi = hi+1, maxItemLevel
	}

	logging.Warn("item-level split step cap hit", "price", price, "currency", currency, "collected", len(ids))
	return ids, nil
}

// merge appends ids, dropping ones already present. Order is preserved.
func merge(existing, add []string) []string {
	present := toSet(existing)
	for _, id := range add {
		if !present[id] {
			present[id] = true
			existing = append(existing, id)
		}
	}
	return existing
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
