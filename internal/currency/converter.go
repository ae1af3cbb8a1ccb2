// Package currency converts listing prices between trade currencies
// using bulk-exchange offers, with cached rates.
package currency

import (
	"context"
	"fmt"

	"github.com/abelbrown/tradewatch/internal/logging"
	"github.com/abelbrown/tradewatch/internal/trade"
)

// maxOffers bounds how many exchange offers feed one rate sample.
const maxOffers = 10

// nextTier maps a currency to the next higher-value currency used for
// display normalization.
var nextTier = map[string]string{
	"exalted": "divine",
}

// exchangeAPI is the slice of the trade client the converter needs.
type exchangeAPI interface {
	ExchangeOffers(ctx context.Context, want, have string) (*trade.ExchangeResult, error)
}

// RateCache persists exchange rates with a medium-lived expiry.
type RateCache interface {
	Rate(want, have string) (float64, bool, error)
	SaveRate(want, have string, rate float64) error
}

// Converter computes exchange rates between currencies. A rate r for
// (want, have) satisfies amount_in_have * r = amount_in_want.
type Converter struct {
	api   exchangeAPI
	cache RateCache
}

// NewConverter creates a Converter.
func NewConverter(api exchangeAPI, cache RateCache) *Converter {
	return &Converter{api: api, cache: cache}
}

// Rate returns the exchange rate for a currency pair. The identity pair
// is 1 by definition and never touches the cache or the network. Fresh
// rates come from a weighted mean over at most the first maxOffers
// exchange offers, weighted by each offer's item amount so orders with
// more volume count more.
func (c *Converter) Rate(ctx context.Context, want, have string) (float64, error) {
	if want == have {
		return 1, nil
	}

	if rate, ok, err := c.cache.Rate(want, have); err != nil {
		return 0, err
	} else if ok {
		return rate, nil
	}

	result, err := c.api.ExchangeOffers(ctx, want, have)
	if err != nil {
		return 0, fmt.Errorf("currency: fetch offers for %s/%s: %w", want, have, err)
	}

	offers := result.Offers()
	if len(offers) > maxOffers {
		offers = offers[:maxOffers]
	}

	var weightedSum, weightTotal float64
	for _, offer := range offers {
		if offer.Exchange.Amount <= 0 || offer.Item.Amount <= 0 {
			continue
		}
		ratio := offer.Item.Amount / offer.Exchange.Amount
		weight := offer.Item.Amount
		weightedSum += ratio * weight
		weightTotal += weight
	}
	if weightTotal == 0 {
		return 0, fmt.Errorf("currency: no usable offers for %s/%s", want, have)
	}

	rate := weightedSum / weightTotal
	logging.Debug("exchange rate sampled", "want", want, "have", have, "rate", rate, "offers", len(offers))

	if err := c.cache.SaveRate(want, have, rate); err != nil {
		return 0, err
	}
	return rate, nil
}

// ToEquivalent re-expresses each price in the want currency. An empty
// input produces an empty output; rejecting it is the aggregation
// stage's job.
func (c *Converter) ToEquivalent(ctx context.Context, want string, prices []trade.Price) ([]trade.Price, error) {
	out := make([]trade.Price, 0, len(prices))
	for _, p := range prices {
		rate, err := c.Rate(ctx, want, p.Currency)
		if err != nil {
			return nil, err
		}
		out = append(out, trade.Price{Amount: p.Amount * rate, Currency: want})
	}
	return out, nil
}

// Upscale re-expresses a price in the next-tier currency when the
// amount exceeds one unit of it (e.g. more exalted than one divine is
// worth). A display normalization applied once after aggregation, not
// during accumulation.
func (c *Converter) Upscale(ctx context.Context, p trade.Price) (trade.Price, error) {
	next, ok := nextTier[p.Currency]
	if !ok {
		return p, nil
	}

	rate, err := c.Rate(ctx, p.Currency, next)
	if err != nil {
		return trade.Price{}, err
	}
	if rate <= 0 || p.Amount <= rate {
		return p, nil
	}

	return trade.Price{Amount: p.Amount / rate, Currency: next}, nil
}
