// Package cfg implements the control-flow graph: a content-addressed
// multigraph of nodes (CTerms) connected by five kinds of successor, with
// a CRUD/query API, structural rewrites, and JSON persistence.
package cfg

import (
	"github.com/gitrdm/kprove/pkg/cterm"
	"github.com/gitrdm/kprove/pkg/term"
)

// NodeId is the content hash of a node's CTerm. The CFG stores at most one
// node per id.
type NodeId = term.Hash

// Node is a CTerm plus the id it hashes to, and the flags the prover and
// the CLI attach to it over the node's lifetime.
type Node struct {
	id     NodeId
	cterm  *cterm.CTerm
	flags  nodeFlags
}

type nodeFlags struct {
	root     bool
	target   bool
	terminal bool
	stuck    bool
	vacuous  bool
	admitted bool
	bounded  bool
	expanded bool
}

func newNode(ct *cterm.CTerm) *Node {
	return &Node{id: ct.Hash(), cterm: ct}
}

// ID returns the node's content-hash identity.
func (n *Node) ID() NodeId { return n.id }

// CTerm returns the node's constrained term.
func (n *Node) CTerm() *cterm.CTerm { return n.cterm }

// IsRoot reports whether this node is the CFG's init node.
func (n *Node) IsRoot() bool { return n.flags.root }

// IsTarget reports whether this node is the CFG's target node.
func (n *Node) IsTarget() bool { return n.flags.target }

// IsTerminal reports whether this node was marked a semantic normal form.
func (n *Node) IsTerminal() bool { return n.flags.terminal }

// IsStuck reports whether this node has no applicable rewrite and was not
// reached via a designated terminal rule.
func (n *Node) IsStuck() bool { return n.flags.stuck }

// IsVacuous reports whether this node's constraints were found
// unsatisfiable.
func (n *Node) IsVacuous() bool { return n.flags.vacuous }

// IsAdmitted reports whether this node was trusted without further proof.
func (n *Node) IsAdmitted() bool { return n.flags.admitted }

// IsBounded reports whether this node was cut off by APR-BMC's loop-depth
// bound rather than extended further.
func (n *Node) IsBounded() bool { return n.flags.bounded }

// IsExpanded reports whether a backend execute call has been claimed for
// this node, whether or not its successor has committed yet. The prover
// sets this before dispatching work, so a node is never queued twice.
func (n *Node) IsExpanded() bool { return n.flags.expanded }

// clone returns a shallow copy of n with independent flags, so CFG methods
// can hand out *Node values without letting callers mutate internal state
// through them.
func (n *Node) clone() *Node {
	cp := *n
	return &cp
}
