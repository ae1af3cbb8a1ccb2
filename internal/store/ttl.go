package store

import "time"

// TTLs per cache category. These are added to the write time to compute
// the key's expiry.
const (
	// TTLExchangeRate - market rates drift slowly, an hour of staleness
	// is acceptable.
	TTLExchangeRate = time.Hour

	// TTLPriceEstimate - estimates are expensive to recompute and a day
	// old one is still useful.
	TTLPriceEstimate = 24 * time.Hour
)
