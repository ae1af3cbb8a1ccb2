// Package estimate prices an item by searching for comparable listings
// (same base type, rarity, and top-tier affixes) and aggregating their
// normalized prices.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/abelbrown/tradewatch/internal/logging"
	"github.com/abelbrown/tradewatch/internal/mods"
	"github.com/abelbrown/tradewatch/internal/trade"
)

// targetPrices is how many comparable prices the estimator tries to
// collect before aggregating.
const targetPrices = 10

// ErrNoComparables is returned when no comparable listing produced a
// usable price.
var ErrNoComparables = errors.New("estimate: no comparable prices found")

// ErrMixedCurrency indicates prices in more than one currency reached
// aggregation. Normalization runs before accumulation, so this is an
// internal invariant violation, not a market condition.
var ErrMixedCurrency = errors.New("estimate: mixed currencies in aggregation")

// Estimate is a point estimate with an uncertainty band, both in the
// same currency.
type Estimate struct {
	Price  trade.Price `json:"price"`
	StdDev trade.Price `json:"stdDev"`
}

type searchAPI interface {
	Search(ctx context.Context, q trade.Query) (*trade.SearchResult, error)
}

type detailFetcher interface {
	FetchAll(ctx context.Context, ids []string, refresh bool) ([]trade.Item, error)
}

// converter normalizes prices into a common currency and re-expresses
// large amounts in the next currency tier.
type converter interface {
	ToEquivalent(ctx context.Context, want string, prices []trade.Price) ([]trade.Price, error)
	Upscale(ctx context.Context, p trade.Price) (trade.Price, error)
}

// Cache persists estimates per item id with a long-lived expiry.
type Cache interface {
	Estimate(itemID string, dest any) (bool, error)
	SaveEstimate(itemID string, estimate any) error
}

// Engine produces price estimates.
type Engine struct {
	api       searchAPI
	fetch     detailFetcher
	convert   converter
	parser    *mods.Parser
	cache     Cache
	reference string
}

// NewEngine creates an Engine. All comparable prices are normalized
// into the reference currency before aggregation.
func NewEngine(api searchAPI, fetch detailFetcher, convert converter, parser *mods.Parser, cache Cache, reference string) *Engine {
	return &Engine{
		api:       api,
		fetch:     fetch,
		convert:   convert,
		parser:    parser,
		cache:     cache,
		reference: reference,
	}
}

// Estimate prices one item. Comparable listings are collected by
// searching with the item's top-tier affixes, relaxing one affix at a
// time until enough prices accumulate. The result is cached by item id.
//
// An affix line that matches no dictionary entry fails the whole call
// with mods.ErrUnknownMod: silently dropping it would corrupt the
// comparable filter.
func (e *Engine) Estimate(ctx context.Context, item *trade.Item) (Estimate, error) {
	var cached Estimate
	if ok, err := e.cache.Estimate(item.ID, &cached); err != nil {
		return Estimate{}, err
	} else if ok {
		return cached, nil
	}

	parsed, err := e.parseExplicits(item)
	if err != nil {
		return Estimate{}, err
	}

	var prices []trade.Price
	for i := len(item.Item.Extended.Mods.Explicit); i >= 1 && len(prices) < targetPrices; i-- {
		stats := e.topTierFilters(item, parsed, i)
		if len(stats) == 0 {
			break
		}

		batch, err := e.comparablePrices(ctx, item, trade.Query{
			Type:   item.Item.BaseType,
			Rarity: item.Item.Rarity,
			Status: "any",
			Stats:  stats,
		}, 0)
		if err != nil {
			return Estimate{}, err
		}
		prices = append(prices, batch...)
	}

	if strings.EqualFold(item.Item.Rarity, "normal") {
		// Affixless items have nothing to filter on; sample the plain
		// base-type market instead.
		batch, err := e.comparablePrices(ctx, item, trade.Query{
			Type:   item.Item.BaseType,
			Status: "any",
		}, targetPrices)
		if err != nil {
			return Estimate{}, err
		}
		prices = append(prices, batch...)
	}

	result, err := aggregate(prices)
	if err != nil {
		return Estimate{}, err
	}

	if result.Price, err = e.convert.Upscale(ctx, result.Price); err != nil {
		return Estimate{}, err
	}
	if result.StdDev, err = e.convert.Upscale(ctx, result.StdDev); err != nil {
		return Estimate{}, err
	}

	logging.Info("estimated item price", "item", item.Name(), "amount", result.Price.Amount, "currency", result.Price.Currency, "comparables", len(prices))

	if err := e.cache.SaveEstimate(item.ID, result); err != nil {
		return Estimate{}, err
	}
	return result, nil
}

// FindMatchingItem searches for the item's own current listing using
// its full affix set at once. Unlike Estimate, the item's own id is
// kept in the result.
func (e *Engine) FindMatchingItem(ctx context.Context, item *trade.Item) (*trade.SearchResult, error) {
	parsed, err := e.parseExplicits(item)
	if err != nil {
		return nil, err
	}

	return e.api.Search(ctx, trade.Query{
		Type:   item.Item.BaseType,
		Rarity: item.Item.Rarity,
		Status: "any",
		Stats:  e.topTierFilters(item, parsed, len(item.Item.Extended.Mods.Explicit)),
	})
}

// comparablePrices runs one comparable search, drops the candidate's
// own listing, fetches details, and normalizes the prices into the
// reference currency. A non-zero sampleTo takes an evenly strided
// sample of the ids instead of all of them.
func (e *Engine) comparablePrices(ctx context.Context, item *trade.Item, q trade.Query, sampleTo int) ([]trade.Price, error) {
	result, err := e.api.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Result))
	for _, id := range result.Result {
		if id != item.ID {
			ids = append(ids, id)
		}
	}
	if sampleTo > 0 {
		ids = sample(ids, sampleTo)
	}

	items, err := e.fetch.FetchAll(ctx, ids, false)
	if err != nil {
		return nil, err
	}

	raw := make([]trade.Price, 0, len(items))
	for _, it := range items {
		raw = append(raw, it.Listing.Price)
	}
	return e.convert.ToEquivalent(ctx, e.reference, raw)
}

// parseExplicits parses the item's explicit affix lines, keyed by stat
// hash.
func (e *Engine) parseExplicits(item *trade.Item) (map[string]mods.Mod, error) {
	parsed := make(map[string]mods.Mod, len(item.Item.ExplicitMods))
	for _, line := range item.Item.ExplicitMods {
		mod, err := e.parser.Parse(line)
		if err != nil {
			return nil, err
		}
		parsed[mod.Hash] = mod
	}
	return parsed, nil
}

// topTierFilters builds stat filters for the item's topN highest-tier
// explicit affixes, each constrained to at least the item's own rolled
// value.
func (e *Engine) topTierFilters(item *trade.Item, parsed map[string]mods.Mod, topN int) []trade.StatFilter {
	explicit := append([]trade.ExtendedMod(nil), item.Item.Extended.Mods.Explicit...)
	sort.SliceStable(explicit, func(i, j int) bool {
		return tierNum(explicit[i].Tier) > tierNum(explicit[j].Tier)
	})
	if topN < len(explicit) {
		explicit = explicit[:topN]
	}

	var filters []trade.StatFilter
	seen := make(map[string]bool)
	for _, mod := range explicit {
		for _, mag := range mod.Magnitudes {
			p, ok := parsed[mag.Hash]
			if !ok || seen[mag.Hash] {
				continue
			}
			if p.Value1 == 0 {
				continue
			}
			seen[mag.Hash] = true
			filters = append(filters, trade.StatFilter{ID: mag.Hash, Min: trade.Float(p.Value1)})
		}
	}
	return filters
}

// tierNum extracts the numeric rank from a tier label such as "S1" or
// "P3".
func tierNum(tier string) int {
	trimmed := strings.TrimLeftFunc(tier, unicode.IsLetter)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return n
}

// sample takes up to n evenly strided entries. Deterministic by
// construction, which keeps estimates reproducible.
func sample(ids []string, n int) []string {
	if len(ids) <= n {
		return ids
	}
	stride := len(ids) / n
	out := make([]string, 0, n)
	for i := 0; i < len(ids) && len(out) < n; i += stride {
		out = append(out, ids[i])
	}
	return out
}

// aggregate reduces the accumulated prices to a mean and a population
// standard deviation. All prices must share one currency; they do by
// construction, since every batch is normalized before accumulation.
func aggregate(prices []trade.Price) (Estimate, error) {
	if len(prices) == 0 {
		return Estimate{}, ErrNoComparables
	}

	currency := prices[0].Currency
	var sum float64
	for _, p := range prices {
		if p.Currency != currency {
			return Estimate{}, fmt.Errorf("%w: %s and %s", ErrMixedCurrency, currency, p.Currency)
		}
		sum += p.Amount
	}
	mean := sum / float64(len(prices))

	var sqsum float64
	for _, p := range prices {
		d := p.Amount - mean
		sqsum += d * d
	}
	stddev := math.Sqrt(sqsum / float64(len(prices)))

	return Estimate{
		Price:  trade.Price{Amount: mean, Currency: currency},
		StdDev: trade.Price{Amount: stddev, Currency: currency},
	}, nil
}
