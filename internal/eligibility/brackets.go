package eligibility

import (
	"fmt"
	"math"
)

// BracketID names a selectable follower-count range, e.g. "3000-10000".
type BracketID string

// Unbounded marks the open upper end of the last bracket.
const Unbounded = math.MaxInt

// DefaultFollowerCutoff is the follower count from which a bracket is eligible.
const DefaultFollowerCutoff = 3000

// FollowerBracket is the half-open range [Lower, Upper) of follower counts.
type FollowerBracket struct {
	ID       BracketID `json:"id"`
	Lower    int       `json:"lower"`
	Upper    int       `json:"upper"`
	Eligible bool      `json:"eligible"`
}

// BracketTable is an ordered, contiguous set of brackets covering [0, ∞).
type BracketTable struct {
	brackets []FollowerBracket
	cutoff   int
}

var defaultBounds = []struct {
	id    BracketID
	lower int
	upper int
}{
	{"0-1000", 0, 1000},
	{"1000-2000", 1000, 2000},
	{"2000-3000", 2000, 3000},
	{"3000-10000", 3000, 10000},
	{"10000+", 10000, Unbounded},
}

// DefaultBrackets returns the five-bracket table with the given cutoff.
func DefaultBrackets(cutoff int) BracketTable {
	brackets := make([]FollowerBracket, 0, len(defaultBounds))
	for _, b := range defaultBounds {
		brackets = append(brackets, FollowerBracket{ID: b.id, Lower: b.lower, Upper: b.upper})
	}
	table, _ := NewBracketTable(brackets, cutoff)
	return table
}

// NewBracketTable checks that brackets are contiguous from 0 to Unbounded and
// derives each Eligible flag from cutoff.
func NewBracketTable(brackets []FollowerBracket, cutoff int) (BracketTable, error) {
	if len(brackets) == 0 {
		return BracketTable{}, fmt.Errorf("bracket table is empty")
	}
	if cutoff < 0 {
		return BracketTable{}, fmt.Errorf("cutoff must be non-negative, got %d", cutoff)
	}
	next := 0
	seen := make(map[BracketID]bool, len(brackets))
	for _, b := range brackets {
		if b.Lower != next {
			return BracketTable{}, fmt.Errorf("bracket %q starts at %d, expected %d", b.ID, b.Lower, next)
		}
		if b.Upper <= b.Lower {
			return BracketTable{}, fmt.Errorf("bracket %q has empty range", b.ID)
		}
		if seen[b.ID] {
			return BracketTable{}, fmt.Errorf("duplicate bracket %q", b.ID)
		}
		seen[b.ID] = true
		next = b.Upper
	}
	if next != Unbounded {
		return BracketTable{}, fmt.Errorf("last bracket must be unbounded")
	}

	t := BracketTable{brackets: make([]FollowerBracket, len(brackets))}
	copy(t.brackets, brackets)
	return t.WithCutoff(cutoff), nil
}

// WithCutoff returns a copy whose brackets are eligible iff their lower bound
// reaches cutoff.
func (t BracketTable) WithCutoff(cutoff int) BracketTable {
	out := BracketTable{brackets: make([]FollowerBracket, len(t.brackets)), cutoff: cutoff}
	for i, b := range t.brackets {
		b.Eligible = b.Lower >= cutoff
		out.brackets[i] = b
	}
	return out
}

// Cutoff is the follower count the eligibility flags were derived from.
func (t BracketTable) Cutoff() int {
	return t.cutoff
}

// Lookup finds a bracket by id.
func (t BracketTable) Lookup(id BracketID) (FollowerBracket, bool) {
	for _, b := range t.brackets {
		if b.ID == id {
			return b, true
		}
	}
	return FollowerBracket{}, false
}

// IsEligible reports whether id names an eligible bracket. Unknown or unset ids are not eligible.
func (t BracketTable) IsEligible(id BracketID) bool {
	b, ok := t.Lookup(id)
	return ok && b.Eligible
}

// Brackets returns a copy of the table rows in order.
func (t BracketTable) Brackets() []FollowerBracket {
	out := make([]FollowerBracket, len(t.brackets))
	copy(out, t.brackets)
	return out
}
