package client

import (
	"github.com/gitrdm/kprove/pkg/cterm"
)

// ExecuteResult is the tagged union of §4.4's seven execute outcomes. Every
// variant carries State; callers switch on the concrete type rather than
// reading a discriminant field.
type ExecuteResult interface {
	State() *cterm.CTerm
	executeResultKind() string
}

// DepthBound reports the backend halted at max-depth without reaching a
// stopping condition.
type DepthBound struct {
	StateTerm *cterm.CTerm
	Depth     int
}

func (r DepthBound) State() *cterm.CTerm     { return r.StateTerm }
func (DepthBound) executeResultKind() string { return "depth-bound" }

// Stuck reports no rule applies; terminal with respect to the semantics.
type Stuck struct {
	StateTerm *cterm.CTerm
	Depth     int
}

func (r Stuck) State() *cterm.CTerm     { return r.StateTerm }
func (Stuck) executeResultKind() string { return "stuck" }

// Terminal reports a designated terminal_rule fired.
type Terminal struct {
	StateTerm *cterm.CTerm
	Depth     int
	Rule      string
}

func (r Terminal) State() *cterm.CTerm     { return r.StateTerm }
func (Terminal) executeResultKind() string { return "terminal" }

// CutPoint reports a designated cut_point_rule fired; the caller must
// split into NextStates.
type CutPoint struct {
	StateTerm  *cterm.CTerm
	Depth      int
	Rule       string
	NextStates []*cterm.CTerm
}

func (r CutPoint) State() *cterm.CTerm     { return r.StateTerm }
func (CutPoint) executeResultKind() string { return "cut-point" }

// Branching reports rewriting diverged; the caller decides whether
// NextStates form a deterministic split or a nondeterministic branch.
type Branching struct {
	StateTerm  *cterm.CTerm
	Depth      int
	NextStates []*cterm.CTerm
}

func (r Branching) State() *cterm.CTerm     { return r.StateTerm }
func (Branching) executeResultKind() string { return "branching" }

// Vacuous reports the current path was proved infeasible.
type Vacuous struct {
	StateTerm *cterm.CTerm
	Depth     int
}

func (r Vacuous) State() *cterm.CTerm     { return r.StateTerm }
func (Vacuous) executeResultKind() string { return "vacuous" }

// Aborted reports the backend could not proceed. Execute surfaces this as
// an error (ErrAborted), so it does not normally reach prover code as a
// successful ExecuteResult — the variant exists for completeness and for
// the replayer to script it explicitly in tests.
type Aborted struct {
	StateTerm        *cterm.CTerm
	UnknownPredicate string
}

func (r Aborted) State() *cterm.CTerm     { return r.StateTerm }
func (Aborted) executeResultKind() string { return "aborted" }

// ImpliesResult carries the outcome of an implies call: whether the
// antecedent implies the consequent and, if so, the witnessing CSubst.
type ImpliesResult struct {
	Satisfiable bool
	CSubst      *cterm.CSubst
}

// ModelResult is get_model's three-valued outcome.
type ModelResult struct {
	Status ModelStatus
	Subst  *cterm.CSubst
}

// ModelStatus is get_model's satisfiability verdict.
type ModelStatus int

const (
	ModelUnknown ModelStatus = iota
	ModelUnsat
	ModelSat
)

func (s ModelStatus) String() string {
	switch s {
	case ModelUnsat:
		return "unsat"
	case ModelSat:
		return "sat"
	default:
		return "unknown"
	}
}
