package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gitrdm/kprove/internal/log"
	"github.com/gitrdm/kprove/internal/metrics"
	"github.com/gitrdm/kprove/pkg/cterm"
)

// Client is a thin, stateless wrapper over a JSON-RPC connection to a
// backend symbolic execution server (§4.4). It holds no proof state of its
// own: every call translates its arguments, sends its request (Execute
// also sends a simplify request before and after), retries transport
// failures, and translates the reply back.
type Client struct {
	transport Transport
	translate *Translator
	retry     RetryPolicy
	logger    *log.Logger
	metrics   *metrics.Registry
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option { return func(c *Client) { c.retry = p } }

// WithLogger attaches a logger; the zero Client uses a no-op logger.
func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

// WithMetrics attaches a metrics registry; the zero Client records nothing.
func WithMetrics(m *metrics.Registry) Option { return func(c *Client) { c.metrics = m } }

// New builds a Client over transport, translating terms through translate.
func New(transport Transport, translate *Translator, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		translate: translate,
		retry:     DefaultRetryPolicy(),
		logger:    log.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) recordCall(method string) {
	if c.metrics != nil {
		c.metrics.BackendCalls.WithLabelValues(method).Inc()
	}
}

func (c *Client) recordError(method, kind string) {
	if c.metrics != nil {
		c.metrics.BackendErrors.WithLabelValues(method, kind).Inc()
	}
}

// Execute calls the backend's execute method, pre- and post-processing the
// state through Simplify the way pyk's KCFGExplore.simplify does, and
// translates the reply into the matching ExecuteResult variant.
func (c *Client) Execute(ctx context.Context, ct *cterm.CTerm, opts ExecuteOptions) (ExecuteResult, error) {
	c.recordCall("execute")
	simplified, err := c.Simplify(ctx, ct)
	if err != nil {
		return nil, fmt.Errorf("client: pre-simplify: %w", err)
	}

	stateJSON, err := c.translate.encodeCTerm(simplified)
	if err != nil {
		return nil, err
	}
	params := executeParams{
		State:         stateJSON,
		MaxDepth:      opts.MaxDepth,
		CutPointRules: opts.CutPointRules,
		TerminalRules: opts.TerminalRules,
		ModuleName:    opts.ModuleName,
		LogSuccessful: true,
	}

	result, err := withRetry(ctx, c.retry, func() (executeResult, error) {
		var res executeResult
		if err := c.transport.Call(ctx, "execute", params, &res); err != nil {
			return executeResult{}, classifyCallError(err)
		}
		return res, nil
	})
	if err != nil {
		c.recordError("execute", errKind(err))
		return nil, err
	}

	state, err := c.translate.decodeCTerm(result.State)
	if err != nil {
		return nil, err
	}
	nextStates := make([]*cterm.CTerm, len(result.NextStates))
	for i, nj := range result.NextStates {
		ns, err := c.translate.decodeCTerm(nj)
		if err != nil {
			return nil, err
		}
		nextStates[i] = ns
	}

	post, err := c.Simplify(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("client: post-simplify: %w", err)
	}
	state = post

	switch result.Reason {
	case "depth-bound":
		return DepthBound{StateTerm: state, Depth: result.Depth}, nil
	case "stuck":
		return Stuck{StateTerm: state, Depth: result.Depth}, nil
	case "terminal":
		return Terminal{StateTerm: state, Depth: result.Depth, Rule: result.Rule}, nil
	case "cut-point":
		return CutPoint{StateTerm: state, Depth: result.Depth, Rule: result.Rule, NextStates: nextStates}, nil
	case "branching":
		return Branching{StateTerm: state, Depth: result.Depth, NextStates: nextStates}, nil
	case "vacuous":
		return Vacuous{StateTerm: state, Depth: result.Depth}, nil
	case "aborted":
		c.logger.Errorw("backend aborted execution", "predicate", result.UnknownPredicate)
		return nil, fmt.Errorf("%w: %s", ErrAborted, result.UnknownPredicate)
	default:
		return nil, fmt.Errorf("client: %w: unknown execute reason %q", ErrProtocol, result.Reason)
	}
}

// Simplify calls the backend's simplify method.
func (c *Client) Simplify(ctx context.Context, ct *cterm.CTerm) (*cterm.CTerm, error) {
	c.recordCall("simplify")
	stateJSON, err := c.translate.encodeCTerm(ct)
	if err != nil {
		return nil, err
	}
	result, err := withRetry(ctx, c.retry, func() (simplifyResult, error) {
		var res simplifyResult
		if err := c.transport.Call(ctx, "simplify", simplifyParams{State: stateJSON}, &res); err != nil {
			return simplifyResult{}, classifyCallError(err)
		}
		return res, nil
	})
	if err != nil {
		c.recordError("simplify", errKind(err))
		return nil, err
	}
	return c.translate.decodeCTerm(result.State)
}

// Implies calls the backend's implies method.
func (c *Client) Implies(ctx context.Context, antecedent, consequent *cterm.CTerm) (ImpliesResult, error) {
	c.recordCall("implies")
	anteJSON, err := c.translate.encodeCTerm(antecedent)
	if err != nil {
		return ImpliesResult{}, err
	}
	consJSON, err := c.translate.encodeCTerm(consequent)
	if err != nil {
		return ImpliesResult{}, err
	}

	result, err := withRetry(ctx, c.retry, func() (impliesResult, error) {
		var res impliesResult
		if err := c.transport.Call(ctx, "implies", impliesParams{Antecedent: anteJSON, Consequent: consJSON}, &res); err != nil {
			return impliesResult{}, classifyCallError(err)
		}
		return res, nil
	})
	if err != nil {
		c.recordError("implies", errKind(err))
		if errors.Is(err, ErrImplicationUndecided) {
			return ImpliesResult{Satisfiable: false}, nil
		}
		return ImpliesResult{}, err
	}
	if !result.Satisfiable {
		return ImpliesResult{Satisfiable: false}, nil
	}

	substitutionTerm, err := c.translate.FromWire(result.Substitution)
	if err != nil {
		return ImpliesResult{}, fmt.Errorf("client: decode implies substitution: %w", err)
	}
	conditionTerm, err := c.translate.FromWire(result.Condition)
	if err != nil {
		return ImpliesResult{}, fmt.Errorf("client: decode implies condition: %w", err)
	}
	cs, err := substitutionToCSubst(substitutionTerm, conditionTerm)
	if err != nil {
		return ImpliesResult{}, err
	}
	return ImpliesResult{Satisfiable: true, CSubst: cs}, nil
}

// GetModel calls the backend's get-model method.
func (c *Client) GetModel(ctx context.Context, ct *cterm.CTerm, moduleName string) (ModelResult, error) {
	c.recordCall("get-model")
	stateJSON, err := c.translate.encodeCTerm(ct)
	if err != nil {
		return ModelResult{}, err
	}
	result, err := withRetry(ctx, c.retry, func() (getModelResult, error) {
		var res getModelResult
		if err := c.transport.Call(ctx, "get-model", getModelParams{State: stateJSON, ModuleName: moduleName}, &res); err != nil {
			return getModelResult{}, classifyCallError(err)
		}
		return res, nil
	})
	if err != nil {
		c.recordError("get-model", errKind(err))
		return ModelResult{}, err
	}

	switch result.Satisfiable {
	case "Sat":
		if len(result.Substitution) == 0 {
			return ModelResult{Status: ModelSat, Subst: cterm.NewCSubst(nil)}, nil
		}
		modelCT, err := c.translate.decodeCTerm(result.Substitution)
		if err != nil {
			return ModelResult{}, fmt.Errorf("client: decode model substitution: %w", err)
		}
		return ModelResult{Status: ModelSat, Subst: cterm.NewCSubst(nil, modelCT.Constraints()...)}, nil
	case "Unsat":
		return ModelResult{Status: ModelUnsat}, nil
	default:
		return ModelResult{Status: ModelUnknown}, nil
	}
}

// AddModule calls the backend's add-module method, installing an ephemeral
// module with extra axioms.
func (c *Client) AddModule(ctx context.Context, module string) error {
	c.recordCall("add-module")
	_, err := withRetry(ctx, c.retry, func() (struct{}, error) {
		var res []any
		if err := c.transport.Call(ctx, "add-module", addModuleParams{Module: module}, &res); err != nil {
			return struct{}{}, classifyCallError(err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		c.recordError("add-module", errKind(err))
	}
	return err
}

func classifyCallError(err error) error {
	// Transport implementations already wrap ErrTransport/ErrProtocol/
	// ErrImplicationUndecided; anything else is treated as a transport
	// failure, since the most common unwrapped cause is a context deadline
	// or connection error.
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrProtocol) || errors.Is(err, ErrImplicationUndecided) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func errKind(err error) string {
	switch {
	case errors.Is(err, ErrBackendTimeout):
		return "timeout"
	case errors.Is(err, ErrImplicationUndecided):
		return "undecided"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	case errors.Is(err, ErrAborted):
		return "aborted"
	default:
		return "transport"
	}
}

var _ Backend = (*Client)(nil)
