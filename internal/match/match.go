// Package match resolves incoming trade offers against the mirrored
// item set and groups items by stash tab.
package match

import (
	"strings"

	"github.com/abelbrown/tradewatch/internal/trade"
)

// Offer is one incoming trade offer: a free-text item name hint plus
// the stash position the buyer's message referenced.
type Offer struct {
	ItemName string
	StashTab string
	X        int
	Y        int
}

// FindItem locates the mirrored item an offer refers to. The offer's
// name hint is matched as a prefix against the item's display name,
// combined with stash position equality; when no positional match
// exists the first name-only match wins. Returns nil when nothing
// matches.
func FindItem(items []trade.Item, offer Offer) *trade.Item {
	for i := range items {
		item := &items[i]
		if strings.HasPrefix(offer.ItemName, item.Name()) &&
			offer.X == item.Listing.Stash.X &&
			offer.Y == item.Listing.Stash.Y {
			return item
		}
	}
	for i := range items {
		item := &items[i]
		if strings.HasPrefix(offer.ItemName, item.Name()) {
			return item
		}
	}
	return nil
}

// StashTabs groups items by stash tab name, preserving item order
// within each tab.
func StashTabs(items []trade.Item) map[string][]trade.Item {
	tabs := make(map[string][]trade.Item)
	for _, item := range items {
		name := item.Listing.Stash.Name
		tabs[name] = append(tabs[name], item)
	}
	return tabs
}
