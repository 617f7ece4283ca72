package prover

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Schedule topologically sorts proofs by their Dependencies (a proof's
// dependencies must be advanced, and proved, before the proof itself), per
// spec §9's "dependency graph of proofs". A cycle is a user error, not a
// bug: Schedule reports every proof still blocked once no further progress
// can be made, aggregated with multierr so the caller sees the whole
// tangle at once rather than one node at a time.
func Schedule(proofs []*Proof) ([]*Proof, error) {
	byID := make(map[string]*Proof, len(proofs))
	for _, p := range proofs {
		byID[p.ID] = p
	}

	indegree := make(map[string]int, len(proofs))
	dependents := make(map[string][]string, len(proofs))
	for _, p := range proofs {
		if _, ok := indegree[p.ID]; !ok {
			indegree[p.ID] = 0
		}
		for _, dep := range p.Dependencies {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("prover: proof %q depends on %q: %w", p.ID, dep, ErrUnknownDependency)
			}
			indegree[p.ID]++
			dependents[dep] = append(dependents[dep], p.ID)
		}
	}

	var ready []string
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	var order []*Proof
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, byID[id])

		var unblocked []string
		for _, dependent := range dependents[id] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				unblocked = append(unblocked, dependent)
			}
		}
		sort.Strings(unblocked)
		ready = append(ready, unblocked...)
	}

	if len(order) < len(proofs) {
		var errs error
		for id, deg := range indegree {
			if deg > 0 {
				errs = multierr.Append(errs, fmt.Errorf("prover: %q: %w", id, ErrDependencyCycle))
			}
		}
		return nil, errs
	}
	return order, nil
}
