package cards

// Card is one normalized catalog row. Derived fields (Cost, Attributes,
// Features, SeriesID, Key) are computed once at load time; downstream code
// never re-parses the raw cells.
type Card struct {
	CardID     string   `json:"card_id"`
	Name       string   `json:"name"`
	Color      string   `json:"color"` // raw spec, e.g. "赤" or "赤/緑"
	Type       string   `json:"type"`
	Cost       int      `json:"cost"`
	Counter    string   `json:"counter"`
	Attributes []string `json:"attributes"`
	Features   []string `json:"features"`
	BlockIcon  string   `json:"block_icon"`
	SeriesID   string   `json:"series_id"`
	Text       string   `json:"text"`
	Trigger    string   `json:"trigger"`
	Key        SortKey  `json:"-"`
}

// Card types in display priority order.
const (
	TypeLeader    = "LEADER"
	TypeCharacter = "CHARACTER"
	TypeEvent     = "EVENT"
	TypeStage     = "STAGE"
)

// ColorOrder is the canonical color ordering used for sort keys and for
// presenting color facets.
var ColorOrder = []string{"赤", "緑", "青", "紫", "黒", "黄"}

var typePriority = map[string]int{
	TypeLeader:    0,
	TypeCharacter: 1,
	TypeEvent:     2,
	TypeStage:     3,
}

// TypeOrder lists the known card types in priority order.
func TypeOrder() []string {
	return []string{TypeLeader, TypeCharacter, TypeEvent, TypeStage}
}

// Placeholder marks an absent cell in the source CSV.
const Placeholder = "-"

// SeriesOther is the SeriesID assigned when the acquisition info is present
// but carries no bracketed series token; SeriesNone when the cell is empty.
const (
	SeriesOther = "その他"
	SeriesNone  = Placeholder
)
