package term

import "fmt"

// Token is a textual literal carrying a sort, e.g. the integer "5" of sort
// Int, or a string literal of sort String. The backend is the authority on
// what a token's text means; this package treats it as an opaque string.
type Token struct {
	value string
	sort  Sort
	hash  Hash
}

// NewToken constructs a Token. sort must be non-empty: unlike Variable, a
// bare literal has no other way to recover its type.
func NewToken(value string, sort Sort) (*Token, error) {
	if sort == "" {
		return nil, fmt.Errorf("term: token %q: %w", value, ErrSortMismatch)
	}
	t := &Token{value: value, sort: sort}
	t.hash = hashTerm(t)
	return t, nil
}

// Value returns the token's literal text.
func (t *Token) Value() string { return t.value }

func (t *Token) Hash() Hash { return t.hash }

func (t *Token) Sort() Sort { return t.sort }

func (t *Token) String() string { return t.value }

func (t *Token) FreeVars() map[string]Sort { return map[string]Sort{} }

func (t *Token) Equal(other Term) bool {
	o, ok := other.(*Token)
	return ok && o.value == t.value && o.sort == t.sort
}

func (t *Token) children() []Term { return nil }

func (t *Token) canonical() canonicalNode {
	return canonicalNode{Tag: "Token", Value: t.value, Sort: t.sort}
}
