package term

import "fmt"

// Variable is a named, optionally sorted logic variable. Variables are
// globally named: the model does not require alpha-renaming, so two
// Variable terms with the same name and sort are the same variable
// wherever they occur.
type Variable struct {
	name string
	sort Sort
	hash Hash
}

// NewVariable constructs a Variable with the given name and sort. An empty
// sort is permitted and means "unsorted" (inferred from context elsewhere).
func NewVariable(name string, sort Sort) *Variable {
	v := &Variable{name: name, sort: sort}
	v.hash = hashTerm(v)
	return v
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

func (v *Variable) Hash() Hash { return v.hash }

func (v *Variable) Sort() Sort { return v.sort }

func (v *Variable) String() string {
	if v.sort == "" {
		return v.name
	}
	return fmt.Sprintf("%s:%s", v.name, v.sort)
}

func (v *Variable) FreeVars() map[string]Sort {
	return map[string]Sort{v.name: v.sort}
}

func (v *Variable) Equal(other Term) bool {
	o, ok := other.(*Variable)
	return ok && o.name == v.name && o.sort == v.sort
}

func (v *Variable) children() []Term { return nil }

func (v *Variable) canonical() canonicalNode {
	return canonicalNode{Tag: "Variable", Name: v.name, Sort: v.sort}
}
