package cards

import "sort"

// Catalog is the loaded card list plus an ID index and the distinct facet
// values filter UIs offer. Built once per load; read-only afterwards.
type Catalog struct {
	Cards []Card
	byID  map[string]int
}

func NewCatalog(cs []Card) *Catalog {
	idx := make(map[string]int, len(cs))
	for i, c := range cs {
		idx[c.CardID] = i
	}
	return &Catalog{Cards: cs, byID: idx}
}

// Get returns the card with the given ID.
func (ct *Catalog) Get(id string) (Card, bool) {
	i, ok := ct.byID[id]
	if !ok {
		return Card{}, false
	}
	return ct.Cards[i], true
}

// Has reports whether the ID exists in the catalog.
func (ct *Catalog) Has(id string) bool {
	_, ok := ct.byID[id]
	return ok
}

// Leaders returns all LEADER cards in listing order.
func (ct *Catalog) Leaders() []Card {
	var out []Card
	for _, c := range ct.Cards {
		if c.Type == TypeLeader {
			out = append(out, c)
		}
	}
	ByListing(out)
	return out
}

// Facets enumerates the distinct filterable values present in the catalog.
type Facets struct {
	Colors     []string `json:"colors"`
	Types      []string `json:"types"`
	Costs      []int    `json:"costs"`
	Counters   []string `json:"counters"`
	Attributes []string `json:"attributes"`
	Blocks     []string `json:"blocks"`
	Features   []string `json:"features"`
	SeriesIDs  []string `json:"series_ids"`
}

// Facets collects the sorted distinct values for each filter dimension.
// The "-" series sentinel is omitted, matching the original picker.
func (ct *Catalog) Facets() Facets {
	costs := map[int]struct{}{}
	counters := map[string]struct{}{}
	attrs := map[string]struct{}{}
	blocks := map[string]struct{}{}
	feats := map[string]struct{}{}
	series := map[string]struct{}{}
	for _, c := range ct.Cards {
		costs[c.Cost] = struct{}{}
		counters[c.Counter] = struct{}{}
		blocks[c.BlockIcon] = struct{}{}
		for _, a := range c.Attributes {
			attrs[a] = struct{}{}
		}
		for _, f := range c.Features {
			feats[f] = struct{}{}
		}
		if c.SeriesID != SeriesNone {
			series[c.SeriesID] = struct{}{}
		}
	}
	return Facets{
		Colors:     append([]string(nil), ColorOrder...),
		Types:      TypeOrder(),
		Costs:      sortedInts(costs),
		Counters:   sortedStrings(counters),
		Attributes: sortedStrings(attrs),
		Blocks:     sortedStrings(blocks),
		Features:   sortedStrings(feats),
		SeriesIDs:  sortedStrings(series),
	}
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
