package session

import (
	"github.com/youruser/deckstudio/internal/cards"
	"github.com/youruser/deckstudio/internal/deck"
)

// View is the deck-builder screen currently shown.
type View string

const (
	ViewLeaderSelect View = "leader"
	ViewPreview      View = "preview"
	ViewAddCards     View = "add_cards"
)

// State is the deck-builder session: the screen, the deck under construction
// and the picker's filter values. Transition methods return the next state
// and never mutate the receiver, so the owning layer can keep or discard
// results freely.
type State struct {
	View   View                `json:"view"`
	Deck   deck.Deck           `json:"deck"`
	Filter cards.FilterOptions `json:"filter"`
}

// NewState starts at leader selection with no deck.
func NewState() State {
	return State{View: ViewLeaderSelect, Deck: deck.Deck{Entries: map[string]int{}}}
}

func (s State) withDeck(d deck.Deck) State {
	s.Deck = d
	return s
}

// ChooseLeader starts a fresh deck for the leader and moves to the preview.
func (s State) ChooseLeader(leaderID string) State {
	s.Deck = deck.New(leaderID)
	s.View = ViewPreview
	s.Filter = cards.FilterOptions{}
	return s
}

// ResetLeader abandons the deck and returns to leader selection.
func (s State) ResetLeader() State {
	s.Deck = deck.Deck{Entries: map[string]int{}}
	s.View = ViewLeaderSelect
	s.Filter = cards.FilterOptions{}
	return s
}

// OpenCardPicker moves to the add-cards screen.
func (s State) OpenCardPicker() State {
	s.View = ViewAddCards
	return s
}

// BackToPreview returns from the picker to the deck preview.
func (s State) BackToPreview() State {
	s.View = ViewPreview
	return s
}

// SetFilter replaces the picker's filter values.
func (s State) SetFilter(opt cards.FilterOptions) State {
	s.Filter = opt
	return s
}

// Rename sets the deck name.
func (s State) Rename(name string) State {
	d := s.Deck
	d.Name = name
	return s.withDeck(d)
}

// AddCard increments a card's count, honoring the per-card cap unless the
// card is on the unlimited allow-list. Adding past the cap is a no-op.
func (s State) AddCard(id string) State {
	cur := s.Deck.Entries[id]
	if cur >= deck.MaxCopies && !deck.Unlimited(id) {
		return s
	}
	d := s.Deck
	d.Entries = copyEntries(d.Entries)
	d.Entries[id] = cur + 1
	return s.withDeck(d)
}

// RemoveCard decrements a card's count, deleting the entry at zero.
func (s State) RemoveCard(id string) State {
	cur, ok := s.Deck.Entries[id]
	if !ok {
		return s
	}
	d := s.Deck
	d.Entries = copyEntries(d.Entries)
	if cur > 1 {
		d.Entries[id] = cur - 1
	} else {
		delete(d.Entries, id)
	}
	return s.withDeck(d)
}

// ApplyImport replaces the whole deck with an imported one and shows the
// preview, mirroring a successful codec parse.
func (s State) ApplyImport(d deck.Deck) State {
	s.Deck = d
	s.View = ViewPreview
	s.Filter = cards.FilterOptions{}
	return s
}

func copyEntries(m map[string]int) map[string]int {
	out := make(map[string]int, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
