package trade

// Query is the typed search filter. Zero-valued fields are absent from
// the wire payload entirely: a filter group is only emitted when one of
// its members is populated, so "no filter" is a structural absence
// rather than a runtime deletion pass.
type Query struct {
	// Trade filters
	Account  string
	PriceMin *float64
	PriceMax *float64
	// Currency selects the price filter's currency option. The default
	// currency (exalted) is expressed as an absent option upstream.
	Currency string

	// Type filters
	Type     string // base type
	Rarity   string
	Category string
	ILvlMin  *int
	ILvlMax  *int

	// Misc filters
	Corrupted *bool

	// Stat filters, AND-combined
	Stats []StatFilter

	// Status option ("any", "online"); empty means upstream default
	Status string

	// Sort key and direction; default price ascending
	Sort    string
	SortDir string
}

// StatFilter constrains one stat hash to a numeric range.
type StatFilter struct {
	ID  string
	Min *float64
	Max *float64
}

// Float returns a pointer for use in Query range fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer for use in Query range fields.
func Int(v int) *int { return &v }

// Bool returns a pointer for use in Query option fields.
func Bool(v bool) *bool { return &v }

// DefaultCurrency is the denominating currency the upstream assumes
// when the price filter carries no currency option.
const DefaultCurrency = "exalted"

// Wire representation. Only populated groups are marshalled.

type searchPayload struct {
	Query  searchQuery       `json:"query"`
	Sort   map[string]string `json:"sort,omitempty"`
	Engine string            `json:"engine,omitempty"`
}

type searchQuery struct {
	Type    string        `json:"type,omitempty"`
	Status  *option       `json:"status,omitempty"`
	Stats   []statGroup   `json:"stats,omitempty"`
	Filters *filterGroups `json:"filters,omitempty"`
}

type option struct {
	Option string `json:"option"`
}

type input struct {
	Input string `json:"input"`
}

type floatRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type intRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

type statGroup struct {
	Type    string       `json:"type"`
	Filters []statFilter `json:"filters"`
}

type statFilter struct {
	ID    string     `json:"id"`
	Value floatRange `json:"value"`
}

type filterGroups struct {
	Trade *tradeFilters `json:"trade_filters,omitempty"`
	Type  *typeFilters  `json:"type_filters,omitempty"`
	Misc  *miscFilters  `json:"misc_filters,omitempty"`
}

type tradeFilters struct {
	Filters struct {
		Account *input       `json:"account,omitempty"`
		Price   *priceFilter `json:"price,omitempty"`
	} `json:"filters"`
}

type priceFilter struct {
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Option string   `json:"option,omitempty"`
}

type typeFilters struct {
	Filters struct {
		Category *option   `json:"category,omitempty"`
		Rarity   *option   `json:"rarity,omitempty"`
		ILvl     *intRange `json:"ilvl,omitempty"`
	} `json:"filters"`
}

type miscFilters struct {
	Filters struct {
		Corrupted *option `json:"corrupted,omitempty"`
	} `json:"filters"`
}

// payload converts the typed query into its wire form.
func (q Query) payload() searchPayload {
	p := searchPayload{
		Query: searchQuery{Type: q.Type},
	}

	if q.Status != "" {
		p.Query.Status = &option{Option: q.Status}
	}

	if len(q.Stats) > 0 {
		group := statGroup{Type: "and"}
		for _, s := range q.Stats {
			if s.Min == nil && s.Max == nil {
				continue
			}
			group.Filters = append(group.Filters, statFilter{
				ID:    s.ID,
				Value: floatRange{Min: s.Min, Max: s.Max},
			})
		}
		if len(group.Filters) > 0 {
			p.Query.Stats = []statGroup{group}
		}
	}

	var groups filterGroups

	if q.Account != "" || q.PriceMin != nil || q.PriceMax != nil {
		tf := &tradeFilters{}
		if q.Account != "" {
			tf.Filters.Account = &input{Input: q.Account}
		}
		if q.PriceMin != nil || q.PriceMax != nil {
			pf := &priceFilter{Min: q.PriceMin, Max: q.PriceMax}
			if q.Currency != "" && q.Currency != DefaultCurrency {
				pf.Option = q.Currency
			}
			tf.Filters.Price = pf
		}
		groups.Trade = tf
	}

	if q.Category != "" || q.Rarity != "" || q.ILvlMin != nil || q.ILvlMax != nil {
		tf := &typeFilters{}
		if q.Category != "" {
			tf.Filters.Category = &option{Option: q.Category}
		}
		if q.Rarity != "" {
			tf.Filters.Rarity = &option{Option: q.Rarity}
		}
		if q.ILvlMin != nil || q.ILvlMax != nil {
			tf.Filters.ILvl = &intRange{Min: q.ILvlMin, Max: q.ILvlMax}
		}
		groups.Type = tf
	}

	if q.Corrupted != nil {
		mf := &miscFilters{}
		if *q.Corrupted {
			mf.Filters.Corrupted = &option{Option: "true"}
		} else {
			mf.Filters.Corrupted = &option{Option: "false"}
		}
		groups.Misc = mf
	}

	if groups.Trade != nil || groups.Type != nil || groups.Misc != nil {
		p.Query.Filters = &groups
	}

	sortKey := q.Sort
	if sortKey == "" {
		sortKey = "price"
	}
	sortDir := q.SortDir
	if sortDir == "" {
		sortDir = "asc"
	}
	p.Sort = map[string]string{sortKey: sortDir}

	return p
}
