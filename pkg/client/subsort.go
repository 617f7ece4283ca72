package client

import "github.com/gitrdm/kprove/pkg/term"

// InjectionLabel is the application label the wire form uses to mark a
// sort injection, matching the K framework's `inj{From,To}` convention:
// SortArgs carries [From, To] and Args carries the single injected term.
const InjectionLabel = "inj"

// SubsortLattice records which sorts may be injected into which others, as
// read from the backend's compiled definition. It is a DAG: subsorts[s]
// lists every sort s injects directly into.
type SubsortLattice struct {
	subsorts map[term.Sort][]term.Sort
}

// NewSubsortLattice builds a lattice from a direct-edge adjacency map.
func NewSubsortLattice(edges map[term.Sort][]term.Sort) *SubsortLattice {
	copied := make(map[term.Sort][]term.Sort, len(edges))
	for k, v := range edges {
		copied[k] = append([]term.Sort(nil), v...)
	}
	return &SubsortLattice{subsorts: copied}
}

// IsSubsort reports whether from can be injected into to, directly or
// transitively (from == to is trivially true).
func (l *SubsortLattice) IsSubsort(from, to term.Sort) bool {
	if from == to {
		return true
	}
	visited := map[term.Sort]bool{}
	var dfs func(term.Sort) bool
	dfs = func(s term.Sort) bool {
		if s == to {
			return true
		}
		if visited[s] {
			return false
		}
		visited[s] = true
		for _, next := range l.subsorts[s] {
			if dfs(next) {
				return true
			}
		}
		return false
	}
	return dfs(from)
}
