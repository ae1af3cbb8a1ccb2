package match

import (
	"testing"

	"github.com/abelbrown/tradewatch/internal/trade"
)

func listedItem(id, name, typeLine, tab string, x, y int) trade.Item {
	var item trade.Item
	item.ID = id
	item.Item.Name = name
	item.Item.TypeLine = typeLine
	item.Listing.Stash = trade.Stash{Name: tab, X: x, Y: y}
	return item
}

func TestFindItemByNameAndPosition(t *testing.T) {
	items := []trade.Item{
		listedItem("a", "Storm Crown", "Runic Crown", "gear", 0, 0),
		listedItem("b", "Storm Crown", "Runic Crown", "gear", 3, 7),
	}

	found := FindItem(items, Offer{ItemName: "Storm Crown Runic Crown", X: 3, Y: 7})
	if found == nil || found.ID != "b" {
		t.Fatalf("expected positional match on b, got %+v", found)
	}
}

func TestFindItemFallsBackToNameOnly(t *testing.T) {
	items := []trade.Item{
		listedItem("a", "Storm Crown", "Runic Crown", "gear", 0, 0),
	}

	// Position does not line up (the item moved); the name still does.
	found := FindItem(items, Offer{ItemName: "Storm Crown Runic Crown", X: 9, Y: 9})
	if found == nil || found.ID != "a" {
		t.Fatalf("expected name-only fallback to a, got %+v", found)
	}
}

func TestFindItemUsesTypeLineForUnnamedItems(t *testing.T) {
	items := []trade.Item{
		listedItem("a", "", "Exalted Orb", "currency", 1, 2),
	}

	found := FindItem(items, Offer{ItemName: "Exalted Orb", X: 1, Y: 2})
	if found == nil || found.ID != "a" {
		t.Fatalf("expected type-line match, got %+v", found)
	}
}

func TestFindItemNoMatch(t *testing.T) {
	items := []trade.Item{
		listedItem("a", "Storm Crown", "Runic Crown", "gear", 0, 0),
	}

	if found := FindItem(items, Offer{ItemName: "Doom Bite"}); found != nil {
		t.Fatalf("expected no match, got %+v", found)
	}
}

func TestStashTabs(t *testing.T) {
	items := []trade.Item{
		listedItem("a", "One", "", "gear", 0, 0),
		listedItem("b", "Two", "", "maps", 0, 0),
		listedItem("c", "Three", "", "gear", 1, 0),
	}

	tabs := StashTabs(items)
	if len(tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(tabs))
	}
	if len(tabs["gear"]) != 2 || tabs["gear"][0].ID != "a" || tabs["gear"][1].ID != "c" {
		t.Errorf("unexpected gear tab: %+v", tabs["gear"])
	}
	if len(tabs["maps"]) != 1 || tabs["maps"][0].ID != "b" {
		t.Errorf("unexpected maps tab: %+v", tabs["maps"])
	}
}
