package cards

import "strings"

// FilterOptions is a conjunction of optional predicates; an empty field
// places no constraint. LeaderColors is only set in deck-building context:
// it excludes LEADER rows and keeps cards sharing a color with the leader,
// before any other predicate applies.
type FilterOptions struct {
	Colors       []string `json:"colors"`
	Types        []string `json:"types"`
	Costs        []int    `json:"costs"`
	Counters     []string `json:"counters"`
	Attributes   []string `json:"attributes"`
	Blocks       []string `json:"blocks"`
	Features     []string `json:"features"`
	SeriesIDs    []string `json:"series_ids"`
	FreeWords    string   `json:"free_words"`
	LeaderColors []string `json:"leader_colors"`
}

func anyInSet(set []string, wanted []string) bool {
	for _, w := range wanted {
		for _, s := range set {
			if s == w {
				return true
			}
		}
	}
	return false
}

func anyEqual(v string, wanted []string) bool {
	for _, w := range wanted {
		if v == w {
			return true
		}
	}
	return false
}

func anyEqualInt(v int, wanted []int) bool {
	for _, w := range wanted {
		if v == w {
			return true
		}
	}
	return false
}

func matches(c Card, opt FilterOptions) bool {
	if len(opt.LeaderColors) > 0 {
		if c.Type == TypeLeader {
			return false
		}
		ok := false
		for _, lc := range opt.LeaderColors {
			if strings.Contains(c.Color, lc) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(opt.Colors) > 0 {
		ok := false
		for _, col := range opt.Colors {
			if strings.Contains(c.Color, col) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(opt.Types) > 0 && !anyEqual(c.Type, opt.Types) {
		return false
	}
	if len(opt.Costs) > 0 && !anyEqualInt(c.Cost, opt.Costs) {
		return false
	}
	if len(opt.Counters) > 0 && !anyEqual(c.Counter, opt.Counters) {
		return false
	}
	if len(opt.Attributes) > 0 && !anyInSet(c.Attributes, opt.Attributes) {
		return false
	}
	if len(opt.Blocks) > 0 && !anyEqual(c.BlockIcon, opt.Blocks) {
		return false
	}
	if len(opt.SeriesIDs) > 0 && !anyEqual(c.SeriesID, opt.SeriesIDs) {
		return false
	}
	if len(opt.Features) > 0 && !anyInSet(c.Features, opt.Features) {
		return false
	}
	if opt.FreeWords != "" {
		name := strings.ToLower(c.Name)
		text := strings.ToLower(c.Text)
		feats := strings.ToLower(strings.Join(c.Features, " "))
		trig := strings.ToLower(c.Trigger)
		for _, k := range strings.Fields(opt.FreeWords) {
			k = strings.ToLower(k)
			if !strings.Contains(name, k) &&
				!strings.Contains(feats, k) &&
				!strings.Contains(text, k) &&
				!strings.Contains(trig, k) {
				return false
			}
		}
	}
	return true
}

// Filter applies the predicate conjunction and returns a new slice sorted by
// (SortKey, cost, card ID). The input is never mutated.
func Filter(cs []Card, opt FilterOptions) []Card {
	out := []Card{}
	for _, c := range cs {
		if matches(c, opt) {
			out = append(out, c)
		}
	}
	ByListing(out)
	return out
}
