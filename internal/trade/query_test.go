package trade

import (
	"encoding/json"
	"strings"
	"testing"
)

func marshalPayload(t *testing.T, q Query) string {
	t.Helper()
	data, err := json.Marshal(q.payload())
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return string(data)
}

func TestPayloadOmitsEmptyGroups(t *testing.T) {
	body := marshalPayload(t, Query{Account: "tester", PriceMin: Float(1)})

	// Untouched filter groups are structurally absent, not emitted as
	// empty objects.
	for _, absent := range []string{"type_filters", "misc_filters", "stats", "status"} {
		if strings.Contains(body, absent) {
			t.Errorf("payload contains %q for an empty group: %s", absent, body)
		}
	}
	if !strings.Contains(body, "trade_filters") {
		t.Errorf("payload missing trade_filters: %s", body)
	}
}

func TestPayloadDefaultCurrencyIsAbsent(t *testing.T) {
	body := marshalPayload(t, Query{PriceMin: Float(1), Currency: DefaultCurrency})
	if strings.Contains(body, "option") {
		t.Errorf("default currency must not emit a price option: %s", body)
	}

	body = marshalPayload(t, Query{PriceMin: Float(1), Currency: "divine"})
	if !strings.Contains(body, `"option":"divine"`) {
		t.Errorf("non-default currency must emit a price option: %s", body)
	}
}

func TestPayloadDefaultSort(t *testing.T) {
	body := marshalPayload(t, Query{Account: "tester"})
	if !strings.Contains(body, `"sort":{"price":"asc"}`) {
		t.Errorf("expected default price-ascending sort: %s", body)
	}

	body = marshalPayload(t, Query{Account: "tester", Sort: "ilvl", SortDir: "desc"})
	if !strings.Contains(body, `"sort":{"ilvl":"desc"}`) {
		t.Errorf("expected explicit sort key: %s", body)
	}
}

func TestPayloadStatFilters(t *testing.T) {
	q := Query{
		Type:   "Vaal Greaves",
		Rarity: "Rare",
		Stats: []StatFilter{
			{ID: "stat.life", Min: Float(80)},
			{ID: "stat.empty"}, // no bounds, dropped
		},
	}

	var payload searchPayload
	data := marshalPayload(t, q)
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		t.Fatalf("round-trip payload: %v", err)
	}

	if len(payload.Query.Stats) != 1 {
		t.Fatalf("expected one stat group, got %d", len(payload.Query.Stats))
	}
	group := payload.Query.Stats[0]
	if group.Type != "and" {
		t.Errorf("expected and-combined group, got %q", group.Type)
	}
	if len(group.Filters) != 1 || group.Filters[0].ID != "stat.life" {
		t.Errorf("unbounded stat filter survived: %+v", group.Filters)
	}
	if group.Filters[0].Value.Min == nil || *group.Filters[0].Value.Min != 80 {
		t.Errorf("unexpected min: %+v", group.Filters[0].Value)
	}
}

func TestPayloadItemLevelRange(t *testing.T) {
	body := marshalPayload(t, Query{ILvlMin: Int(20), ILvlMax: Int(40)})
	if !strings.Contains(body, `"ilvl":{"min":20,"max":40}`) {
		t.Errorf("expected ilvl range: %s", body)
	}
}

func TestPayloadCorrupted(t *testing.T) {
	body := marshalPayload(t, Query{Corrupted: Bool(false)})
	if !strings.Contains(body, `"corrupted":{"option":"false"}`) {
		t.Errorf("expected explicit corrupted=false option: %s", body)
	}

	body = marshalPayload(t, Query{})
	if strings.Contains(body, "corrupted") {
		t.Errorf("unset corrupted must be absent: %s", body)
	}
}
