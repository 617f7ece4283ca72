package cfg

import "errors"

var (
	// ErrNodeNotFound is returned when a node reference does not resolve.
	ErrNodeNotFound = errors.New("cfg: node not found")

	// ErrAmbiguousReference is returned when a hash prefix resolves to
	// more than one node.
	ErrAmbiguousReference = errors.New("cfg: ambiguous node reference")

	// ErrSourceHasSuccessor is returned by create_edge/create_cover/
	// create_split/create_ndbranch when the source node already has an
	// outgoing successor.
	ErrSourceHasSuccessor = errors.New("cfg: source has successors")

	// ErrTooFewTargets is returned by create_split and create_ndbranch
	// when fewer than two targets are given.
	ErrTooFewTargets = errors.New("cfg: fewer than two targets")

	// ErrInvalidDepth is returned by create_edge when depth < 1.
	ErrInvalidDepth = errors.New("cfg: edge depth must be >= 1")

	// ErrInvalidAliasName is returned by add_alias when name contains '@'.
	ErrInvalidAliasName = errors.New("cfg: alias name must not contain '@'")

	// ErrAliasExists is returned by add_alias on a name collision.
	ErrAliasExists = errors.New("cfg: alias already exists")

	// ErrNoInitNode / ErrNoTargetNode are returned when #init or #target
	// is referenced but not set.
	ErrNoInitNode   = errors.New("cfg: no unique init node")
	ErrNoTargetNode = errors.New("cfg: no unique target node")

	// ErrNoFrontier is returned when #frontier is referenced but the
	// pending set is empty.
	ErrNoFrontier = errors.New("cfg: no pending frontier node")
)
