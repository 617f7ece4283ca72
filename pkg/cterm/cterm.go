// Package cterm implements the constrained term (CTerm): a configuration
// term paired with an ordered set of path constraints, plus the
// constrained substitution (CSubst) that witnesses a match or an
// implication between two CTerms.
package cterm

import (
	"strings"

	"github.com/gitrdm/kprove/pkg/term"
)

// BottomLabel is the application label this package recognizes as ⊥. A
// CTerm containing a constraint with this label is bottom: its
// configuration is unreachable under the accumulated path condition.
const BottomLabel = "#Bottom"

// Bottom returns the canonical ⊥ predicate term.
func Bottom() term.Term {
	return term.NewApplication(BottomLabel, nil, "Bool", nil)
}

// CTerm is a configuration term paired with an ordered, deduplicated set
// of path-constraint predicates. CTerm values are immutable; AddConstraint
// returns a new CTerm.
type CTerm struct {
	config      term.Term
	constraints []term.Term
}

// New constructs a CTerm. Constraints equal by hash are deduplicated,
// keeping the first occurrence's position, so the constraint set's order
// is stable across equivalent constructions.
func New(config term.Term, constraints ...term.Term) *CTerm {
	return &CTerm{config: config, constraints: dedupe(constraints)}
}

func dedupe(constraints []term.Term) []term.Term {
	seen := map[term.Hash]bool{}
	out := make([]term.Term, 0, len(constraints))
	for _, c := range constraints {
		if seen[c.Hash()] {
			continue
		}
		seen[c.Hash()] = true
		out = append(out, c)
	}
	return out
}

// Config returns the configuration term.
func (c *CTerm) Config() term.Term { return c.config }

// Constraints returns the ordered constraint set.
func (c *CTerm) Constraints() []term.Term {
	return append([]term.Term(nil), c.constraints...)
}

// AddConstraint returns a new CTerm with c appended to the constraint set,
// deduplicated against the existing set.
func (ct *CTerm) AddConstraint(c term.Term) *CTerm {
	return New(ct.config, append(append([]term.Term(nil), ct.constraints...), c)...)
}

// IsBottom reports whether ⊥ appears among the constraints.
func (ct *CTerm) IsBottom() bool {
	bottomHash := Bottom().Hash()
	for _, c := range ct.constraints {
		if c.Hash() == bottomHash {
			return true
		}
	}
	return false
}

// FreeVars returns the union of free variables across the configuration
// and every constraint.
func (ct *CTerm) FreeVars() map[string]term.Sort {
	out := map[string]term.Sort{}
	for name, sort := range ct.config.FreeVars() {
		out[name] = sort
	}
	for _, c := range ct.constraints {
		for name, sort := range c.FreeVars() {
			out[name] = sort
		}
	}
	return out
}

// Cell projects the named sub-configuration: the sole argument of the
// first Application in the configuration tree labeled "<name>". Returns
// ok=false if no such cell exists.
func (ct *CTerm) Cell(name string) (term.Term, bool) {
	return findCell(ct.config, "<"+name+">")
}

func findCell(t term.Term, label string) (term.Term, bool) {
	app, ok := t.(*term.Application)
	if !ok {
		return nil, false
	}
	if app.Label() == label {
		args := app.Args()
		if len(args) == 1 {
			return args[0], true
		}
		return term.NewSequence(args, app.Sort()), true
	}
	for _, child := range app.Args() {
		if found, ok := findCell(child, label); ok {
			return found, true
		}
	}
	return nil, false
}

func (ct *CTerm) String() string {
	var b strings.Builder
	b.WriteString(ct.config.String())
	for _, c := range ct.constraints {
		b.WriteString(" #And ")
		b.WriteString(c.String())
	}
	return b.String()
}

// Hash is the CTerm's content hash: the hash of its configuration and
// constraints combined, used as CFG NodeId.
func (ct *CTerm) Hash() term.Hash {
	children := make([]term.Term, 0, len(ct.constraints)+1)
	children = append(children, ct.config)
	children = append(children, ct.constraints...)
	return term.NewSequence(children, "CTerm").Hash()
}
