package cards

import (
	"sort"
	"strings"
)

// SortKey orders cards for listings and export. It is derived purely from the
// raw color spec and the card type: primary color first, then type, then the
// secondary color of multicolor cards, then a multicolor flag. Cards with no
// recognizable color sort last.
type SortKey struct {
	BaseColor int `json:"base_color"`
	TypeRank  int `json:"type_rank"`
	SubColor  int `json:"sub_color"`
	Multi     int `json:"multi"`
}

const unrankedColor = 999

// unknown types still sort after the four known ones
const unknownTypeRank = 9

// NewSortKey computes the ordering tuple for a color spec and type string.
func NewSortKey(colorSpec, cardType string) SortKey {
	text := strings.TrimSpace(colorSpec)
	if text == "" || text == Placeholder {
		return SortKey{unrankedColor, unrankedColor, unrankedColor, unrankedColor}
	}

	base := -1
	for i, c := range ColorOrder {
		if strings.Contains(text, c) {
			base = i
			break
		}
	}
	if base < 0 {
		return SortKey{unrankedColor, unrankedColor, unrankedColor, unrankedColor}
	}

	multi := strings.Contains(text, "/") || strings.Contains(text, "／")
	sub := 0
	if multi {
		for i, c := range ColorOrder {
			if i != base && strings.Contains(text, c) {
				sub = i + 1
				break
			}
		}
	}

	typeRank, ok := typePriority[cardType]
	if !ok {
		typeRank = unknownTypeRank
	}

	flag := 0
	if multi {
		flag = 1
	}
	return SortKey{BaseColor: base, TypeRank: typeRank, SubColor: sub, Multi: flag}
}

// Less orders sort keys lexicographically across the four fields.
func (k SortKey) Less(o SortKey) bool {
	if k.BaseColor != o.BaseColor {
		return k.BaseColor < o.BaseColor
	}
	if k.TypeRank != o.TypeRank {
		return k.TypeRank < o.TypeRank
	}
	if k.SubColor != o.SubColor {
		return k.SubColor < o.SubColor
	}
	return k.Multi < o.Multi
}

// ByListing sorts cards in place by (SortKey, cost, card ID), the ordering
// used for every on-screen result set.
func ByListing(cs []Card) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Key != b.Key {
			return a.Key.Less(b.Key)
		}
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return a.CardID < b.CardID
	})
}

// DeckOrderLess is the deck-contents ordering: type first, then cost, then
// base color, then card ID. Deck views group by role and cost rather than by
// color, so this deliberately differs from the listing order.
func DeckOrderLess(a, b Card) bool {
	if a.Key.TypeRank != b.Key.TypeRank {
		return a.Key.TypeRank < b.Key.TypeRank
	}
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if a.Key.BaseColor != b.Key.BaseColor {
		return a.Key.BaseColor < b.Key.BaseColor
	}
	return a.CardID < b.CardID
}
