package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youruser/deckstudio/internal/cards"
	"github.com/youruser/deckstudio/internal/deck"
)

func TestTransitions(t *testing.T) {
	s := NewState()
	assert.Equal(t, ViewLeaderSelect, s.View)

	s = s.ChooseLeader("LEAD-001")
	assert.Equal(t, ViewPreview, s.View)
	assert.Equal(t, "LEAD-001", s.Deck.Leader)
	assert.Empty(t, s.Deck.Entries)

	s = s.OpenCardPicker()
	assert.Equal(t, ViewAddCards, s.View)

	s = s.BackToPreview()
	assert.Equal(t, ViewPreview, s.View)

	s = s.ResetLeader()
	assert.Equal(t, ViewLeaderSelect, s.View)
	assert.Empty(t, s.Deck.Leader)
}

func TestChooseLeaderClearsDeck(t *testing.T) {
	s := NewState().ChooseLeader("LEAD-001").AddCard("CARD-001").Rename("old")
	s = s.ChooseLeader("LEAD-002")
	assert.Empty(t, s.Deck.Entries)
	assert.Empty(t, s.Deck.Name)
}

func TestAddRemoveCard(t *testing.T) {
	s := NewState().ChooseLeader("LEAD-001")

	t.Run("cap at four copies", func(t *testing.T) {
		cur := s
		for i := 0; i < 6; i++ {
			cur = cur.AddCard("CARD-001")
		}
		assert.Equal(t, deck.MaxCopies, cur.Deck.Entries["CARD-001"])
	})

	t.Run("unlimited card passes the cap", func(t *testing.T) {
		cur := s
		for i := 0; i < 6; i++ {
			cur = cur.AddCard("OP01-075")
		}
		assert.Equal(t, 6, cur.Deck.Entries["OP01-075"])
	})

	t.Run("remove deletes at zero", func(t *testing.T) {
		cur := s.AddCard("CARD-001").AddCard("CARD-001")
		cur = cur.RemoveCard("CARD-001")
		assert.Equal(t, 1, cur.Deck.Entries["CARD-001"])
		cur = cur.RemoveCard("CARD-001")
		_, ok := cur.Deck.Entries["CARD-001"]
		assert.False(t, ok)
	})

	t.Run("transitions do not mutate the prior state", func(t *testing.T) {
		base := s.AddCard("CARD-001")
		_ = base.AddCard("CARD-001")
		assert.Equal(t, 1, base.Deck.Entries["CARD-001"])
	})
}

func TestApplyImport(t *testing.T) {
	d := deck.New("LEAD-002")
	d.Name = "Imported"
	d.Entries["CARD-002"] = 4

	s := NewState().ChooseLeader("LEAD-001").AddCard("CARD-001").
		SetFilter(cards.FilterOptions{Colors: []string{"赤"}})
	s = s.ApplyImport(d)

	assert.Equal(t, ViewPreview, s.View)
	assert.Equal(t, d, s.Deck)
	assert.Empty(t, s.Filter.Colors)
}
