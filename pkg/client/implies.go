package client

import (
	"fmt"

	"github.com/gitrdm/kprove/pkg/cterm"
	"github.com/gitrdm/kprove/pkg/term"
)

// AndLabel and EqualsLabel mirror the K framework's matching-logic
// connectives (`#And`, `#Equals`), the shape the backend's implies
// response uses to report a substitution as a conjunction of equalities.
const (
	AndLabel    = "#And"
	EqualsLabel = "#Equals"
	TopLabel    = "#Top"
)

// isTop reports whether t is the trivial "true" predicate.
func isTop(t term.Term) bool {
	app, ok := t.(*term.Application)
	return ok && app.Label() == TopLabel
}

// flattenAnd unfolds a right- or left-nested #And application into its
// conjuncts, the way pyk's flatten_label('#And', ...) does.
func flattenAnd(t term.Term) []term.Term {
	app, ok := t.(*term.Application)
	if !ok || app.Label() != AndLabel {
		return []term.Term{t}
	}
	var out []term.Term
	for _, arg := range app.Args() {
		out = append(out, flattenAnd(arg)...)
	}
	return out
}

// substitutionToCSubst builds a CSubst from implies's two results: a
// conjunction of variable equalities (substitution) and a residual path
// predicate (condition). Every equality conjunct must be `#Equals(var,
// term)` with var.(*term.Variable); anything else is a protocol error,
// matching symbolic.py's "Received a non-substitution from implies
// endpoint" assertion.
func substitutionToCSubst(substitution, condition term.Term) (*cterm.CSubst, error) {
	subst := term.NewSubstitution()
	if isTop(substitution) {
		return cterm.NewCSubst(subst, flattenAnd(condition)...), nil
	}
	for _, conjunct := range flattenAnd(substitution) {
		app, ok := conjunct.(*term.Application)
		if !ok || app.Label() != EqualsLabel || len(app.Args()) != 2 {
			return nil, fmt.Errorf("client: %w: non-substitution conjunct %s", ErrProtocol, conjunct.String())
		}
		v, ok := app.Args()[0].(*term.Variable)
		if !ok {
			return nil, fmt.Errorf("client: %w: substitution equality not rooted at a variable: %s", ErrProtocol, conjunct.String())
		}
		subst = subst.Bind(v.Name(), app.Args()[1])
	}

	var constraints []term.Term
	constraints = append(constraints, flattenAnd(condition)...)
	return cterm.NewCSubst(subst, constraints...), nil
}
