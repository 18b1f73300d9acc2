package deck

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/youruser/deckstudio/internal/cards"
)

// Text interchange format:
//
//	# name          (optional, only when the deck has a name)
//	1xLEADER-ID
//	{count}x{card_id}  per entry, in deck-display order
//
// The same blob feeds file export, QR payloads and the local deck store.

// ParseErrorKind distinguishes the structural failures that abort an import.
// Everything else (stray lines, unknown entry IDs) is tolerated and skipped.
type ParseErrorKind string

const (
	ErrEmptyList     ParseErrorKind = "empty_list"
	ErrLeaderLine    ParseErrorKind = "leader_line_malformed"
	ErrLeaderCount   ParseErrorKind = "leader_count_malformed"
	ErrUnknownLeader ParseErrorKind = "leader_unknown"
)

type ParseError struct {
	Kind   ParseErrorKind
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("deck parse: %s (%q)", e.Reason, e.Line)
	}
	return "deck parse: " + e.Reason
}

// Entry is one (card ID, count) pair in deck-display order.
type Entry struct {
	CardID string
	Count  int
}

// Ordered returns the deck's entries in deck-display order: type, then cost,
// then base color, then card ID. Entry IDs missing from the catalog sort
// after all known cards, by ID, so the result stays deterministic.
func Ordered(d Deck, ct *cards.Catalog) []Entry {
	ids := make([]string, 0, len(d.Entries))
	for id := range d.Entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aok := ct.Get(ids[i])
		b, bok := ct.Get(ids[j])
		if aok != bok {
			return aok
		}
		if !aok {
			return ids[i] < ids[j]
		}
		return cards.DeckOrderLess(a, b)
	})
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, Entry{CardID: id, Count: d.Entries[id]})
	}
	return out
}

// Serialize renders the deck in canonical form.
func Serialize(d Deck, ct *cards.Catalog) string {
	lines := make([]string, 0, len(d.Entries)+2)
	if d.Name != "" {
		lines = append(lines, "# "+d.Name)
	}
	lines = append(lines, "1x"+d.Leader)
	for _, e := range Ordered(d, ct) {
		lines = append(lines, strconv.Itoa(e.Count)+"x"+e.CardID)
	}
	return strings.Join(lines, "\n")
}

// Parse reads the interchange format back into a Deck. The leader line is
// mandatory and strict; entry lines are permissive: lines without the "x"
// separator, with a malformed count or with an unknown card ID are dropped.
// On a duplicated card ID the last line wins.
func Parse(text string, ct *cards.Catalog) (Deck, error) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	name := ""
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		name = strings.TrimSpace(strings.TrimPrefix(lines[0], "#"))
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return Deck{}, &ParseError{Kind: ErrEmptyList, Reason: "no leader line"}
	}

	leaderLine := lines[0]
	sep := strings.Index(leaderLine, "x")
	if sep < 0 {
		return Deck{}, &ParseError{Kind: ErrLeaderLine, Line: leaderLine, Reason: "leader line has no 'x' separator"}
	}
	// The first line is always the leader; its count is parsed but its value
	// is not checked.
	if _, err := strconv.Atoi(leaderLine[:sep]); err != nil {
		return Deck{}, &ParseError{Kind: ErrLeaderCount, Line: leaderLine, Reason: "leader count is not an integer"}
	}
	leaderID := leaderLine[sep+1:]
	if !ct.Has(leaderID) {
		return Deck{}, &ParseError{Kind: ErrUnknownLeader, Line: leaderLine, Reason: "leader card " + leaderID + " not in catalog"}
	}

	d := New(leaderID)
	d.Name = name
	for _, line := range lines[1:] {
		sep := strings.Index(line, "x")
		if sep < 0 {
			continue
		}
		count, err := strconv.Atoi(line[:sep])
		if err != nil {
			continue
		}
		id := line[sep+1:]
		if !ct.Has(id) {
			continue
		}
		d.Entries[id] = count
	}
	return d, nil
}
