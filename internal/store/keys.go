package store

// Cache keys are partitioned by namespace through these builders; no
// other code constructs keys, which makes cross-namespace collisions
// structurally impossible.

// accountItemsKey holds the deduplicated set of known listing ids for
// one account.
func accountItemsKey(account string) string {
	return "account_items:" + account
}

// itemKey holds the last-fetched detail record for one listing id.
func itemKey(id string) string {
	return "item:" + id
}

// rateKey holds one cached exchange rate for a currency pair.
func rateKey(want, have string) string {
	return "exchange_rate:" + want + ":" + have
}

// estimateKey holds one cached price estimate for a listing id.
func estimateKey(itemID string) string {
	return "price_estimate:" + itemID
}
