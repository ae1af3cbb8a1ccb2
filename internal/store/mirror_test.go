package store

import (
	"testing"

	"github.com/abelbrown/tradewatch/internal/trade"
)

func testItem(id string, amount float64, currency string) trade.Item {
	var item trade.Item
	item.ID = id
	item.Listing.Price = trade.Price{Amount: amount, Currency: currency}
	return item
}

func TestMirrorUpsertDedupes(t *testing.T) {
	st := openTestStore(t)
	m := NewMirror(st, "TestAccount")

	if _, err := m.Upsert([]string{"a", "b", "c"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	merged, err := m.Upsert([]string{"b", "c", "d"})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	want := []string{"a", "b", "c", "d"}
	if len(merged) != len(want) {
		t.Fatalf("expected %d ids, got %d: %v", len(want), len(merged), merged)
	}
	for i, id := range want {
		if merged[i] != id {
			t.Errorf("position %d: expected %q, got %q", i, id, merged[i])
		}
	}
}

func TestMirrorIsolatedPerAccount(t *testing.T) {
	st := openTestStore(t)
	m1 := NewMirror(st, "Alice")
	m2 := NewMirror(st, "Bob")

	if _, err := m1.Upsert([]string{"a1"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	ids, err := m2.KnownIDs()
	if err != nil {
		t.Fatalf("KnownIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected Bob's mirror to be empty, got %v", ids)
	}
}

func TestMirrorPrune(t *testing.T) {
	st := openTestStore(t)
	m := NewMirror(st, "TestAccount")

	if _, err := m.Upsert([]string{"cheap", "pricey", "unseen-nodetail"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := m.SaveDetail(testItem("cheap", 3, "exalted")); err != nil {
		t.Fatalf("SaveDetail failed: %v", err)
	}
	if err := m.SaveDetail(testItem("pricey", 50, "exalted")); err != nil {
		t.Fatalf("SaveDetail failed: %v", err)
	}

	// Floor 10: "cheap" is below and unseen, so it must have sold.
	// "pricey" is above the floor and stays. An id with no cached
	// detail can't be judged and stays too.
	pruned, err := m.Prune(10, "exalted", map[string]bool{})
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned id, got %d", pruned)
	}

	ids, err := m.KnownIDs()
	if err != nil {
		t.Fatalf("KnownIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "pricey" {
		t.Errorf("unexpected surviving ids: %v", ids)
	}

	// The pruned id's detail is gone with it.
	if _, ok, _ := m.Detail("cheap"); ok {
		t.Error("expected pruned detail to be removed")
	}
}

func TestMirrorReplaceDropsOrphanedDetails(t *testing.T) {
	st := openTestStore(t)
	m := NewMirror(st, "ReplaceAccount")

	if _, err := m.Upsert([]string{"kept", "dropped"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := m.SaveDetail(testItem("kept", 5, "exalted")); err != nil {
		t.Fatalf("SaveDetail failed: %v", err)
	}
	if err := m.SaveDetail(testItem("dropped", 3, "exalted")); err != nil {
		t.Fatalf("SaveDetail failed: %v", err)
	}

	if err := m.Replace([]string{"kept"}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	if _, ok, _ := m.Detail("kept"); !ok {
		t.Error("expected surviving id to keep its detail")
	}
	if _, ok, _ := m.Detail("dropped"); ok {
		t.Error("expected dropped id to lose its detail")
	}
}

func TestMirrorPruneKeepsSeen(t *testing.T) {
	st := openTestStore(t)
	m := NewMirror(st, "TestAccount")

	if _, err := m.Upsert([]string{"cheap"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := m.SaveDetail(testItem("cheap", 3, "exalted")); err != nil {
		t.Fatalf("SaveDetail failed: %v", err)
	}

	// Below the floor but seen this pass: still listed, keep it.
	pruned, err := m.Prune(10, "exalted", map[string]bool{"cheap": true})
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("expected no pruning, got %d", pruned)
	}
}

func TestMirrorPruneIgnoresOtherCurrency(t *testing.T) {
	st := openTestStore(t)
	m := NewMirror(st, "TestAccount")

	if _, err := m.Upsert([]string{"divine-item"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := m.SaveDetail(testItem("divine-item", 2, "divine")); err != nil {
		t.Fatalf("SaveDetail failed: %v", err)
	}

	// Pagination is in exalted; a divine-priced detail can't be
	// compared against the floor and must survive.
	pruned, err := m.Prune(10, "exalted", map[string]bool{})
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("expected no pruning across currencies, got %d", pruned)
	}
}
