package term

import "errors"

// Sentinel errors for the three failure kinds named by the term model's
// contract. Wrap with fmt.Errorf("term: ...: %w", ErrX) at the call site so
// errors.Is keeps working through context.
var (
	// ErrSortMismatch is returned when a term is constructed without a
	// sort it requires: NewToken returns it for an empty sort.
	ErrSortMismatch = errors.New("term: sort mismatch")

	// ErrFreeVariable is returned when an operation requires a closed term
	// (e.g. a ground substitution image) but a free variable remains.
	ErrFreeVariable = errors.New("term: free variable")

	// ErrMalformedTerm is returned by Decode on an unknown node tag or a
	// structurally invalid canonical encoding.
	ErrMalformedTerm = errors.New("term: malformed term")
)
