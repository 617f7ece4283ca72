package prover

import "github.com/gitrdm/kprove/pkg/cfg"

// Status is a proof's deterministic terminal classification. The prover
// never guesses: a proof is PENDING until every leaf is either covered,
// terminal, vacuous, or (for a failure) irrecoverably stuck.
type Status int

const (
	Pending Status = iota
	Passed
	Failed
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Proof bundles a claim's CFG with its identity and the ids of other
// proofs it depends on (cited as lemmas), per spec §9's "dependency graph
// of proofs". Schedule orders a batch so every dependency is advanced
// before the proof that cites it; turning a passed dependency into a
// backend lemma (AddModule) requires pretty-printing it back to concrete
// syntax, which stays a driver-level concern, not this package's.
type Proof struct {
	ID           string
	CFG          *cfg.CFG
	Dependencies []string

	// BMCDepth, when non-nil, switches AdvanceProof into the APR-BMC
	// discipline: nodes whose loop-nest depth would exceed BMCDepth are
	// marked bounded instead of extended.
	BMCDepth *int
}

// NewProof constructs a Proof with an empty dependency list.
func NewProof(id string, g *cfg.CFG) *Proof {
	return &Proof{ID: id, CFG: g}
}

// Status reports the proof's current terminal classification by
// inspecting its CFG: FAILED if any leaf is stuck and uncoverable, PENDING
// if any node still awaits prover attention, PASSED otherwise.
func (p *Proof) Status() Status {
	if hasAnyStuck(p.CFG) {
		return Failed
	}
	if len(p.CFG.Pending()) > 0 {
		return Pending
	}
	return Passed
}

func hasAnyStuck(g *cfg.CFG) bool {
	for _, n := range g.Nodes() {
		if n.IsStuck() {
			return true
		}
	}
	return false
}
