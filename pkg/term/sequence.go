package term

import "strings"

// Sequence is an ordered, possibly empty list of terms representing a
// computation continuation (a "K cell" in the semantics literature: the
// remaining steps of a program).
type Sequence struct {
	items []Term
	sort  Sort
	hash  Hash
}

// NewSequence constructs a Sequence. sort is the sequence's own sort
// (conventionally a fixed "computation" sort shared by every sequence in a
// given semantics).
func NewSequence(items []Term, sort Sort) *Sequence {
	s := &Sequence{items: append([]Term(nil), items...), sort: sort}
	s.hash = hashTerm(s)
	return s
}

// Items returns the sequence's elements in order.
func (s *Sequence) Items() []Term { return append([]Term(nil), s.items...) }

// Len returns the number of elements.
func (s *Sequence) Len() int { return len(s.items) }

func (s *Sequence) Hash() Hash { return s.hash }

func (s *Sequence) Sort() Sort { return s.sort }

func (s *Sequence) String() string {
	if len(s.items) == 0 {
		return ".K"
	}
	parts := make([]string, len(s.items))
	for i, it := range s.items {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ~> ")
}

func (s *Sequence) FreeVars() map[string]Sort { return mergeFreeVars(s.items) }

func (s *Sequence) Equal(other Term) bool {
	o, ok := other.(*Sequence)
	return ok && o.hash == s.hash
}

func (s *Sequence) children() []Term { return s.items }

func (s *Sequence) canonical() canonicalNode {
	return canonicalNode{Tag: "Sequence", Sort: s.sort, Children: childCanonicals(s.items)}
}
