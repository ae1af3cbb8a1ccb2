package store

import (
	"github.com/abelbrown/tradewatch/internal/trade"
)

// Domain accessors over the KV namespaces. All key construction stays
// inside this package.

// Detail returns the cached detail record for a listing id.
func (s *Store) Detail(id string) (*trade.Item, bool, error) {
	var item trade.Item
	ok, err := s.GetJSON(itemKey(id), &item)
	if err != nil || !ok {
		return nil, false, err
	}
	return &item, true, nil
}

// SaveDetail caches an item's detail record. Details never expire; they
// are pruned with their mirror entry when the listing disappears.
func (s *Store) SaveDetail(item trade.Item) error {
	return s.SetJSON(itemKey(item.ID), item, 0)
}

// Rate returns the cached exchange rate for a currency pair, if fresh.
func (s *Store) Rate(want, have string) (float64, bool, error) {
	var rate float64
	ok, err := s.GetJSON(rateKey(want, have), &rate)
	return rate, ok, err
}

// SaveRate caches an exchange rate with the medium-lived rate TTL.
func (s *Store) SaveRate(want, have string, rate float64) error {
	return s.SetJSON(rateKey(want, have), rate, TTLExchangeRate)
}

// Estimate reads the cached price estimate for a listing id into dest.
func (s *Store) Estimate(itemID string, dest any) (bool, error) {
	return s.GetJSON(estimateKey(itemID), dest)
}

// SaveEstimate caches a price estimate with the long-lived estimate TTL.
func (s *Store) SaveEstimate(itemID string, estimate any) error {
	return s.SetJSON(estimateKey(itemID), estimate, TTLPriceEstimate)
}
