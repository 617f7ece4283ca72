package prover

import "errors"

var (
	// ErrNoInit / ErrNoTarget surface the CFG's own #init/#target errors
	// when a proof is advanced without either set.
	ErrNoInit   = errors.New("prover: proof has no init node")
	ErrNoTarget = errors.New("prover: proof has no target node")

	// ErrDependencyCycle is returned by Schedule when the claim dependency
	// graph contains a cycle — a user error per spec §9, not a bug.
	ErrDependencyCycle = errors.New("prover: dependency cycle among proofs")

	// ErrUnknownDependency is returned by Schedule when a proof names a
	// dependency id not present in the batch being scheduled.
	ErrUnknownDependency = errors.New("prover: unknown proof dependency")
)
