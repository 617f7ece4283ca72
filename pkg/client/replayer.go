package client

import (
	"context"
	"fmt"

	"github.com/gitrdm/kprove/pkg/cterm"
)

// Replayer is a scripted Backend test double: each method call consumes
// one value queued via its matching On* method, in FIFO order, so tests
// can drive the prover against a backend whose responses are exactly
// known, without a real JSON-RPC server. This is the "replaceable port"
// §9 asks for: prover code built against Backend works unmodified here.
type Replayer struct {
	executeQueue  []replayerExecuteCall
	simplifyQueue []replayerSimplifyCall
	impliesQueue  []replayerImpliesCall
	modelQueue    []replayerModelCall
	addModuleErr  error
	Calls         []string
}

type replayerExecuteCall struct {
	result ExecuteResult
	err    error
}

type replayerSimplifyCall struct {
	result *cterm.CTerm
	err    error
}

type replayerImpliesCall struct {
	result ImpliesResult
	err    error
}

type replayerModelCall struct {
	result ModelResult
	err    error
}

// NewReplayer returns an empty Replayer; by default Simplify is the
// identity function unless a response has been queued, matching the real
// backend's behavior on an already-simplified term.
func NewReplayer() *Replayer { return &Replayer{} }

// OnExecute queues a response for the next Execute call.
func (r *Replayer) OnExecute(result ExecuteResult, err error) {
	r.executeQueue = append(r.executeQueue, replayerExecuteCall{result: result, err: err})
}

// OnSimplify queues a response for the next Simplify call.
func (r *Replayer) OnSimplify(result *cterm.CTerm, err error) {
	r.simplifyQueue = append(r.simplifyQueue, replayerSimplifyCall{result: result, err: err})
}

// OnImplies queues a response for the next Implies call.
func (r *Replayer) OnImplies(result ImpliesResult, err error) {
	r.impliesQueue = append(r.impliesQueue, replayerImpliesCall{result: result, err: err})
}

// OnGetModel queues a response for the next GetModel call.
func (r *Replayer) OnGetModel(result ModelResult, err error) {
	r.modelQueue = append(r.modelQueue, replayerModelCall{result: result, err: err})
}

// OnAddModule sets the error AddModule returns (nil by default).
func (r *Replayer) OnAddModule(err error) { r.addModuleErr = err }

func (r *Replayer) Execute(_ context.Context, ct *cterm.CTerm, _ ExecuteOptions) (ExecuteResult, error) {
	r.Calls = append(r.Calls, "execute")
	if len(r.executeQueue) == 0 {
		return nil, fmt.Errorf("client: replayer: no queued Execute response")
	}
	call := r.executeQueue[0]
	r.executeQueue = r.executeQueue[1:]
	return call.result, call.err
}

func (r *Replayer) Simplify(_ context.Context, ct *cterm.CTerm) (*cterm.CTerm, error) {
	r.Calls = append(r.Calls, "simplify")
	if len(r.simplifyQueue) == 0 {
		return ct, nil
	}
	call := r.simplifyQueue[0]
	r.simplifyQueue = r.simplifyQueue[1:]
	if call.err != nil {
		return nil, call.err
	}
	return call.result, nil
}

func (r *Replayer) Implies(_ context.Context, _, _ *cterm.CTerm) (ImpliesResult, error) {
	r.Calls = append(r.Calls, "implies")
	if len(r.impliesQueue) == 0 {
		return ImpliesResult{}, fmt.Errorf("client: replayer: no queued Implies response")
	}
	call := r.impliesQueue[0]
	r.impliesQueue = r.impliesQueue[1:]
	return call.result, call.err
}

func (r *Replayer) GetModel(_ context.Context, _ *cterm.CTerm, _ string) (ModelResult, error) {
	r.Calls = append(r.Calls, "get-model")
	if len(r.modelQueue) == 0 {
		return ModelResult{}, fmt.Errorf("client: replayer: no queued GetModel response")
	}
	call := r.modelQueue[0]
	r.modelQueue = r.modelQueue[1:]
	return call.result, call.err
}

func (r *Replayer) AddModule(_ context.Context, _ string) error {
	r.Calls = append(r.Calls, "add-module")
	return r.addModuleErr
}

var _ Backend = (*Replayer)(nil)
