// Package trade defines the upstream trade API wire types and the
// rate-governed client used to call its search, fetch, and exchange
// endpoints.
package trade

// Price is a listing price: an amount in a named currency.
type Price struct {
	Type     string  `json:"type,omitempty"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Stash locates an item inside its owner's stash.
type Stash struct {
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Account identifies the listing account.
type Account struct {
	Name    string `json:"name"`
	Online  *bool  `json:"online"`
	Current bool   `json:"current"`
}

// Listing is the sale side of an item: who lists it, where, for how much.
// The listing may legitimately change between fetches of the same item id;
// the upstream reuses ids for the current listing, not a historical one.
type Listing struct {
	Method  string  `json:"method"`
	Indexed string  `json:"indexed"`
	Stash   Stash   `json:"stash"`
	Account Account `json:"account"`
	Price   Price   `json:"price"`
}

// Magnitude ties one affix line to a stat hash and its roll range.
// The upstream sends min/max as strings.
type Magnitude struct {
	Hash string `json:"hash"`
	Min  string `json:"min"`
	Max  string `json:"max"`
}

// ExtendedMod is the structured form of one affix line: tier label
// (e.g. "S1", "P3"), numeric level, and one or more magnitudes.
type ExtendedMod struct {
	Name       string      `json:"name"`
	Tier       string      `json:"tier"`
	Level      int         `json:"level"`
	Magnitudes []Magnitude `json:"magnitudes"`
}

// ModGroups groups extended mods by affix class. Positional invariant:
// Explicit[i] corresponds to ItemData.ExplicitMods[i].
type ModGroups struct {
	Explicit []ExtendedMod `json:"explicit"`
	Implicit []ExtendedMod `json:"implicit"`
	Enchant  []ExtendedMod `json:"enchant"`
}

// Extended carries the structured affix representation.
type Extended struct {
	Mods ModGroups `json:"mods"`
}

// ItemData is the item itself, independent of its listing.
type ItemData struct {
	ID           string   `json:"id"`
	Realm        string   `json:"realm"`
	Name         string   `json:"name"`
	TypeLine     string   `json:"typeLine"`
	BaseType     string   `json:"baseType"`
	Rarity       string   `json:"rarity"`
	ILvl         int      `json:"ilvl"`
	Identified   bool     `json:"identified"`
	Corrupted    bool     `json:"corrupted"`
	ImplicitMods []string `json:"implicitMods"`
	ExplicitMods []string `json:"explicitMods"`
	EnchantMods  []string `json:"enchantMods"`
	Extended     Extended `json:"extended"`
}

// Item is one fetched listing: identity plus current listing state.
type Item struct {
	ID      string   `json:"id"`
	Listing Listing  `json:"listing"`
	Item    ItemData `json:"item"`
}

// SearchResult is the response of the search endpoint. Result is
// price-ascending and capped at roughly PageCap entries regardless
// of Total.
type SearchResult struct {
	ID     string   `json:"id"`
	Total  int      `json:"total"`
	Result []string `json:"result"`
}

// fetchResult is the response of the fetch endpoint. Fewer records
// than requested ids is valid: some ids are gone.
type fetchResult struct {
	Result []Item `json:"result"`
}

// CurrencyAmount is one side of an exchange offer.
type CurrencyAmount struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// ExchangeOffer pairs what the lister asks (Exchange) with what they
// give (Item). Stock is how much of Item they have listed.
type ExchangeOffer struct {
	Exchange CurrencyAmount `json:"exchange"`
	Item     struct {
		Currency string  `json:"currency"`
		Amount   float64 `json:"amount"`
		Stock    float64 `json:"stock"`
	} `json:"item"`
}

// ExchangeListing is one lister's set of offers for a currency pair.
type ExchangeListing struct {
	Listing struct {
		Offers []ExchangeOffer `json:"offers"`
	} `json:"listing"`
}

// ExchangeResult is the response of the exchange endpoint, keyed by
// listing id.
type ExchangeResult struct {
	Total  int                        `json:"total"`
	Result map[string]ExchangeListing `json:"result"`
}

// Offers flattens all listings into a single offer slice.
func (r *ExchangeResult) Offers() []ExchangeOffer {
	var out []ExchangeOffer
	for _, l := range r.Result {
		out = append(out, l.Listing.Offers...)
	}
	return out
}

// Name returns the item's display name, falling back to its type line
// for items without an explicit name.
func (i *Item) Name() string {
	if i.Item.Name != "" {
		return i.Item.Name
	}
	return i.Item.TypeLine
}
