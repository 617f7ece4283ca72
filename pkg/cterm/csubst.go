package cterm

import (
	"encoding/json"
	"fmt"

	"github.com/gitrdm/kprove/pkg/term"
)

// CSubst is a constrained substitution: the witness of a match or an
// implication between two CTerms. Subst carries the variable bindings;
// Constraints carries residual predicate obligations that must separately
// be discharged (by the backend's implies call, not by this package).
type CSubst struct {
	Subst       *term.Substitution
	Constraints []term.Term
}

// NewCSubst constructs a CSubst.
func NewCSubst(subst *term.Substitution, constraints ...term.Term) *CSubst {
	if subst == nil {
		subst = term.NewSubstitution()
	}
	return &CSubst{Subst: subst, Constraints: append([]term.Term(nil), constraints...)}
}

// Apply applies the substitution to a CTerm's configuration and appends
// the CSubst's residual constraints to the result.
func (cs *CSubst) Apply(ct *CTerm) *CTerm {
	config := cs.Subst.Apply(ct.config)
	next := New(config, ct.constraints...)
	for _, c := range cs.Constraints {
		next = next.AddConstraint(c)
	}
	return next
}

type wireCSubst struct {
	Bindings    map[string]json.RawMessage `json:"bindings,omitempty"`
	Constraints []json.RawMessage          `json:"constraints,omitempty"`
}

// EncodeCSubst serializes a CSubst to JSON.
func EncodeCSubst(cs *CSubst) ([]byte, error) {
	bindings := map[string]json.RawMessage{}
	for _, name := range cs.Subst.Names() {
		t, _ := cs.Subst.Lookup(name)
		tj, err := term.Encode(t)
		if err != nil {
			return nil, fmt.Errorf("cterm: encode binding %q: %w", name, err)
		}
		bindings[name] = tj
	}
	constraints := make([]json.RawMessage, len(cs.Constraints))
	for i, c := range cs.Constraints {
		cj, err := term.Encode(c)
		if err != nil {
			return nil, fmt.Errorf("cterm: encode csubst constraint %d: %w", i, err)
		}
		constraints[i] = cj
	}
	return json.Marshal(wireCSubst{Bindings: bindings, Constraints: constraints})
}

// DecodeCSubst reconstructs a CSubst from the JSON form produced by
// EncodeCSubst.
func DecodeCSubst(data []byte) (*CSubst, error) {
	var wire wireCSubst
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("cterm: decode csubst: %w", err)
	}
	subst := term.NewSubstitution()
	for name, tj := range wire.Bindings {
		t, err := term.Decode(tj)
		if err != nil {
			return nil, fmt.Errorf("cterm: decode binding %q: %w", name, err)
		}
		subst = subst.Bind(name, t)
	}
	constraints := make([]term.Term, len(wire.Constraints))
	for i, cj := range wire.Constraints {
		c, err := term.Decode(cj)
		if err != nil {
			return nil, fmt.Errorf("cterm: decode csubst constraint %d: %w", i, err)
		}
		constraints[i] = c
	}
	return NewCSubst(subst, constraints...), nil
}
