package term

// AsBinding is a sub-pattern bound to a name: `pattern #as binder`. It
// appears in claims whose right-hand side needs to refer back to a
// sub-match of the left-hand side.
type AsBinding struct {
	pattern Term
	binder  *Variable
	hash    Hash
}

// NewAsBinding constructs an AsBinding.
func NewAsBinding(pattern Term, binder *Variable) *AsBinding {
	a := &AsBinding{pattern: pattern, binder: binder}
	a.hash = hashTerm(a)
	return a
}

// Pattern returns the bound sub-pattern.
func (a *AsBinding) Pattern() Term { return a.pattern }

// Binder returns the variable the pattern is bound to.
func (a *AsBinding) Binder() *Variable { return a.binder }

func (a *AsBinding) Hash() Hash { return a.hash }

func (a *AsBinding) Sort() Sort { return a.pattern.Sort() }

func (a *AsBinding) String() string { return a.pattern.String() + " #as " + a.binder.String() }

func (a *AsBinding) FreeVars() map[string]Sort {
	return mergeFreeVars([]Term{a.pattern, a.binder})
}

func (a *AsBinding) Equal(other Term) bool {
	o, ok := other.(*AsBinding)
	return ok && o.hash == a.hash
}

func (a *AsBinding) children() []Term { return []Term{a.pattern, a.binder} }

func (a *AsBinding) canonical() canonicalNode {
	return canonicalNode{
		Tag:      "AsBinding",
		Name:     a.binder.name,
		Sort:     a.binder.sort,
		Children: []canonicalNode{a.pattern.canonical()},
	}
}
