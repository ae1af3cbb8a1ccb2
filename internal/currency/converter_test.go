package currency

import (
	"context"
	"math"
	"testing"

	"github.com/abelbrown/tradewatch/internal/trade"
)

// fakeExchange serves canned offers and counts calls.
type fakeExchange struct {
	offers map[string][]trade.ExchangeOffer // keyed by want+"/"+have
	calls  int
}

func offer(itemAmount, exchangeAmount float64) trade.ExchangeOffer {
	var o trade.ExchangeOffer
	o.Item.Amount = itemAmount
	o.Item.Currency = "want"
	o.Exchange = trade.CurrencyAmount{Amount: exchangeAmount, Currency: "have"}
	return o
}

func (f *fakeExchange) ExchangeOffers(ctx context.Context, want, have string) (*trade.ExchangeResult, error) {
	f.calls++
	result := &trade.ExchangeResult{Result: map[string]trade.ExchangeListing{}}
	var listing trade.ExchangeListing
	listing.Listing.Offers = f.offers[want+"/"+have]
	result.Result["l1"] = listing
	return result, nil
}

// memRateCache is an in-memory RateCache.
type memRateCache struct {
	rates map[string]float64
}

func newMemRateCache() *memRateCache {
	return &memRateCache{rates: make(map[string]float64)}
}

func (m *memRateCache) Rate(want, have string) (float64, bool, error) {
	r, ok := m.rates[want+"/"+have]
	return r, ok, nil
}

func (m *memRateCache) SaveRate(want, have string, rate float64) error {
	m.rates[want+"/"+have] = rate
	return nil
}

func TestRateIdentity(t *testing.T) {
	api := &fakeExchange{}
	c := NewConverter(api, newMemRateCache())

	rate, err := c.Rate(context.Background(), "exalted", "exalted")
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if rate != 1 {
		t.Errorf("identity rate must be 1, got %v", rate)
	}
	if api.calls != 0 {
		t.Errorf("identity rate must not hit the network, got %d calls", api.calls)
	}
}

func TestRateWeightedMean(t *testing.T) {
	api := &fakeExchange{offers: map[string][]trade.ExchangeOffer{
		"exalted/divine": {
			offer(100, 1), // ratio 100, weight 100
			offer(300, 2), // ratio 150, weight 300
		},
	}}
	c := NewConverter(api, newMemRateCache())

	rate, err := c.Rate(context.Background(), "exalted", "divine")
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}

	// (100*100 + 150*300) / (100 + 300) = 137.5
	if math.Abs(rate-137.5) > 1e-9 {
		t.Errorf("expected weighted mean 137.5, got %v", rate)
	}
}

func TestRateCached(t *testing.T) {
	api := &fakeExchange{offers: map[string][]trade.ExchangeOffer{
		"exalted/divine": {offer(100, 1)},
	}}
	c := NewConverter(api, newMemRateCache())

	for i := 0; i < 3; i++ {
		if _, err := c.Rate(context.Background(), "exalted", "divine"); err != nil {
			t.Fatalf("Rate failed: %v", err)
		}
	}
	if api.calls != 1 {
		t.Errorf("expected a single upstream call, got %d", api.calls)
	}
}

func TestRateSkipsUnusableOffers(t *testing.T) {
	api := &fakeExchange{offers: map[string][]trade.ExchangeOffer{
		"exalted/divine": {
			offer(0, 1),   // zero volume, skipped
			offer(100, 0), // zero exchange, skipped
			offer(200, 2), // ratio 100
		},
	}}
	c := NewConverter(api, newMemRateCache())

	rate, err := c.Rate(context.Background(), "exalted", "divine")
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if rate != 100 {
		t.Errorf("expected 100, got %v", rate)
	}
}

func TestRateNoOffers(t *testing.T) {
	api := &fakeExchange{}
	c := NewConverter(api, newMemRateCache())

	if _, err := c.Rate(context.Background(), "exalted", "divine"); err == nil {
		t.Error("expected error when no offers are available")
	}
}

func TestToEquivalent(t *testing.T) {
	cache := newMemRateCache()
	cache.SaveRate("exalted", "divine", 100)
	c := NewConverter(&fakeExchange{}, cache)

	out, err := c.ToEquivalent(context.Background(), "exalted", []trade.Price{
		{Amount: 5, Currency: "exalted"},
		{Amount: 2, Currency: "divine"},
	})
	if err != nil {
		t.Fatalf("ToEquivalent failed: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(out))
	}
	if out[0].Amount != 5 || out[0].Currency != "exalted" {
		t.Errorf("same-currency price changed: %+v", out[0])
	}
	if out[1].Amount != 200 || out[1].Currency != "exalted" {
		t.Errorf("expected 2 divine = 200 exalted, got %+v", out[1])
	}
}

func TestToEquivalentEmpty(t *testing.T) {
	c := NewConverter(&fakeExchange{}, newMemRateCache())

	out, err := c.ToEquivalent(context.Background(), "exalted", nil)
	if err != nil {
		t.Fatalf("empty input must not error here: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
}

func TestUpscale(t *testing.T) {
	cache := newMemRateCache()
	cache.SaveRate("exalted", "divine", 100)
	c := NewConverter(&fakeExchange{}, cache)

	// 250 exalted is worth more than one divine: re-express.
	up, err := c.Upscale(context.Background(), trade.Price{Amount: 250, Currency: "exalted"})
	if err != nil {
		t.Fatalf("Upscale failed: %v", err)
	}
	if up.Currency != "divine" || math.Abs(up.Amount-2.5) > 1e-9 {
		t.Errorf("expected 2.5 divine, got %+v", up)
	}

	// 50 exalted stays as is.
	same, err := c.Upscale(context.Background(), trade.Price{Amount: 50, Currency: "exalted"})
	if err != nil {
		t.Fatalf("Upscale failed: %v", err)
	}
	if same.Currency != "exalted" || same.Amount != 50 {
		t.Errorf("expected unchanged price, got %+v", same)
	}

	// Currencies with no higher tier pass through.
	top, err := c.Upscale(context.Background(), trade.Price{Amount: 9999, Currency: "divine"})
	if err != nil {
		t.Fatalf("Upscale failed: %v", err)
	}
	if top.Currency != "divine" || top.Amount != 9999 {
		t.Errorf("expected unchanged top-tier price, got %+v", top)
	}
}
