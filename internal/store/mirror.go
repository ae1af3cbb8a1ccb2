package store

import (
	"github.com/abelbrown/tradewatch/internal/trade"
)

// Mirror is one account's local view of its marketplace listings: a
// deduplicated ordered set of known listing ids plus the shared detail
// cache. Created empty on first use; ids are added by upsert and pruned
// when a later sync pass shows the listing is gone.
type Mirror struct {
	store   *Store
	account string
}

// NewMirror returns the mirror for an account.
func NewMirror(s *Store, account string) *Mirror {
	return &Mirror{store: s, account: account}
}

// Account returns the mirrored account name.
func (m *Mirror) Account() string {
	return m.account
}

// KnownIDs returns the persisted id set, oldest first.
func (m *Mirror) KnownIDs() ([]string, error) {
	var ids []string
	if _, err := m.store.GetJSON(accountItemsKey(m.account), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the size of the persisted id set.
func (m *Mirror) Count() (int, error) {
	ids, err := m.KnownIDs()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Replace overwrites the id set. Ids dropped by the overwrite lose
// their cached detail records with them, so a rebuild leaves no
// orphaned details behind.
func (m *Mirror) Replace(ids []string) error {
	existing, err := m.KnownIDs()
	if err != nil {
		return err
	}

	next := dedupe(ids)
	keep := make(map[string]bool, len(next))
	for _, id := range next {
		keep[id] = true
	}
	for _, id := range existing {
		if keep[id] {
			continue
		}
		if err := m.store.Delete(itemKey(id)); err != nil {
			return err
		}
	}

	return m.store.SetJSON(accountItemsKey(m.account), next, 0)
}

// Upsert merges ids into the set, preserving insertion order and
// dropping duplicates. Returns the merged set.
func (m *Mirror) Upsert(ids []string) ([]string, error) {
	existing, err := m.KnownIDs()
	if err != nil {
		return nil, err
	}

	merged := dedupe(append(existing, ids...))
	if err := m.store.SetJSON(accountItemsKey(m.account), merged, 0); err != nil {
		return nil, err
	}
	return merged, nil
}

// Detail returns the cached detail for one of the account's ids.
func (m *Mirror) Detail(id string) (*trade.Item, bool, error) {
	return m.store.Detail(id)
}

// SaveDetail caches a detail record.
func (m *Mirror) SaveDetail(item trade.Item) error {
	return m.store.SaveDetail(item)
}

// Prune removes every known id whose cached detail price is strictly
// below the given floor in the given currency and which the run has not
// re-listed. Such an id would have reappeared at its price point
// if the listing were still live, so it must have sold or been
// withdrawn. Both the id and its cached detail are removed. Returns the
// number of pruned ids.
func (m *Mirror) Prune(floor float64, currency string, seen map[string]bool) (int, error) {
	ids, err := m.KnownIDs()
	if err != nil {
		return 0, err
	}

	kept := make([]string, 0, len(ids))
	pruned := 0
	for _, id := range ids {
		if seen[id] {
			kept = append(kept, id)
			continue
		}

		detail, ok, err := m.store.Detail(id)
		if err != nil {
			return pruned, err
		}
		if ok && detail.Listing.Price.Currency == currency && detail.Listing.Price.Amount < floor {
			if err := m.store.Delete(itemKey(id)); err != nil {
				return pruned, err
			}
			pruned++
			continue
		}
		kept = append(kept, id)
	}

	if pruned > 0 {
		if err := m.store.SetJSON(accountItemsKey(m.account), kept, 0); err != nil {
			return pruned, err
		}
	}
	return pruned, nil
}

// dedupe removes duplicate ids, keeping first occurrence order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
