package client

import (
	"context"

	"github.com/gitrdm/kprove/pkg/cterm"
)

// Backend is the symbolic execution client's contract, per §4.4. Client
// implements it against a live JSON-RPC connection; Replayer implements it
// against scripted responses, so the prover (and its tests) depend on this
// interface rather than either concrete type — "backend as a replaceable
// port".
type Backend interface {
	Execute(ctx context.Context, ct *cterm.CTerm, opts ExecuteOptions) (ExecuteResult, error)
	Simplify(ctx context.Context, ct *cterm.CTerm) (*cterm.CTerm, error)
	Implies(ctx context.Context, antecedent, consequent *cterm.CTerm) (ImpliesResult, error)
	GetModel(ctx context.Context, ct *cterm.CTerm, moduleName string) (ModelResult, error)
	AddModule(ctx context.Context, module string) error
}

// ExecuteOptions carries execute's optional parameters.
type ExecuteOptions struct {
	MaxDepth      *int
	CutPointRules []string
	TerminalRules []string
	ModuleName    string
}
