package term

import "strings"

// Application is a label applied to a tuple of child terms. The label
// carries its own name and parametric sort arguments (e.g. `Map:lookup{K,
// V}`); the application's sort is the label's declared return sort. This
// package does not read signatures from a compiled definition — callers
// (the term-to-wire translator in pkg/client) supply the return sort at
// construction time, the same way the backend reports it on execute.
type Application struct {
	label    string
	sortArgs []Sort
	retSort  Sort
	args     []Term
	hash     Hash
}

// NewApplication constructs an Application. args may be empty (a nullary
// constructor). The slice is copied so later mutation of the caller's
// slice cannot reach into the term.
func NewApplication(label string, sortArgs []Sort, retSort Sort, args []Term) *Application {
	a := &Application{
		label:    label,
		sortArgs: append([]Sort(nil), sortArgs...),
		retSort:  retSort,
		args:     append([]Term(nil), args...),
	}
	a.hash = hashTerm(a)
	return a
}

// Label returns the application's label name.
func (a *Application) Label() string { return a.label }

// SortArgs returns the label's parametric sort arguments.
func (a *Application) SortArgs() []Sort { return append([]Sort(nil), a.sortArgs...) }

// Args returns the application's child terms in order.
func (a *Application) Args() []Term { return append([]Term(nil), a.args...) }

func (a *Application) Hash() Hash { return a.hash }

func (a *Application) Sort() Sort { return a.retSort }

func (a *Application) String() string {
	var b strings.Builder
	b.WriteString(a.label)
	if len(a.sortArgs) > 0 {
		b.WriteByte('{')
		for i, s := range a.sortArgs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(string(s))
		}
		b.WriteByte('}')
	}
	b.WriteByte('(')
	for i, c := range a.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (a *Application) FreeVars() map[string]Sort { return mergeFreeVars(a.args) }

func (a *Application) Equal(other Term) bool {
	o, ok := other.(*Application)
	return ok && o.hash == a.hash
}

func (a *Application) children() []Term { return a.args }

func (a *Application) canonical() canonicalNode {
	return canonicalNode{
		Tag:      "Application",
		Name:     a.label,
		Sort:     a.retSort,
		SortArgs: append([]Sort(nil), a.sortArgs...),
		Children: childCanonicals(a.args),
	}
}

func childCanonicals(children []Term) []canonicalNode {
	if len(children) == 0 {
		return nil
	}
	out := make([]canonicalNode, len(children))
	for i, c := range children {
		out[i] = c.canonical()
	}
	return out
}
