package deck

// Deck is a leader plus a card-ID→count mapping and an optional name. The
// codec and compositor accept decks that break the size rules; Validate
// reports them for the UI layer, nothing in this package enforces them.
type Deck struct {
	Name    string         `json:"name"`
	Leader  string         `json:"leader"`
	Entries map[string]int `json:"entries"` // card_id -> count
}

func New(leader string) Deck {
	return Deck{Leader: leader, Entries: map[string]int{}}
}

// Total is the entry count across all cards, leader excluded.
func (d Deck) Total() int {
	n := 0
	for _, c := range d.Entries {
		n += c
	}
	return n
}

// Deck construction rules. MaxCopies does not apply to the unlimited
// allow-list.
const (
	MaxDeckSize = 50
	MaxCopies   = 4
)

var unlimitedCards = map[string]struct{}{
	"OP01-075": {},
	"OP08-072": {},
}

// Unlimited reports whether the card may exceed the per-card copy cap.
func Unlimited(cardID string) bool {
	_, ok := unlimitedCards[cardID]
	return ok
}

// ViolationKind classifies an advisory deck-rule violation.
type ViolationKind string

const (
	ViolationOversized  ViolationKind = "deck_over_limit"
	ViolationUndersized ViolationKind = "deck_under_limit"
	ViolationTooMany    ViolationKind = "card_over_cap"
)

type Violation struct {
	Kind   ViolationKind `json:"kind"`
	CardID string        `json:"card_id,omitempty"`
	Count  int           `json:"count"`
}

// Validate reports rule violations. Advisory only: callers surface these as
// status, never as a reason to refuse export, save or image generation.
func Validate(d Deck) []Violation {
	var out []Violation
	if t := d.Total(); t > MaxDeckSize {
		out = append(out, Violation{Kind: ViolationOversized, Count: t})
	} else if t < MaxDeckSize {
		out = append(out, Violation{Kind: ViolationUndersized, Count: t})
	}
	for id, c := range d.Entries {
		if c > MaxCopies && !Unlimited(id) {
			out = append(out, Violation{Kind: ViolationTooMany, CardID: id, Count: c})
		}
	}
	return out
}
