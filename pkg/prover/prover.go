package prover

import (
	"context"
	"fmt"

	"github.com/gitrdm/kprove/internal/log"
	"github.com/gitrdm/kprove/internal/metrics"
	"github.com/gitrdm/kprove/internal/parallel"
	"github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/client"
	"github.com/gitrdm/kprove/pkg/cterm"
)

// Config configures an AGProver. Backend is the only required field;
// everything else has a usable zero value (no terminal predicate, no
// branch extraction, unbounded iterations).
type Config struct {
	Backend client.Backend

	ExecuteOptions  client.ExecuteOptions
	IsTerminal      func(ct *cterm.CTerm) bool
	ExtractBranches ExtractBranches
	SameLoop        SameLoop

	MaxIterations        int
	SubsumptionCacheSize int

	// Workers, when greater than 1, switches AdvanceProofParallel's round
	// loop to dispatch that many extend() calls to the backend
	// concurrently per round instead of one at a time. AdvanceProof is
	// unaffected; it always advances one node per iteration.
	Workers int

	Logger  *log.Logger
	Metrics *metrics.Registry
}

// AGProver advances one all-path-reachability proof's CFG, per spec §4.5's
// loop: check terminal, check vacuous, check subsumption into the target,
// else extend. It holds no per-proof state of its own (the CFG is the
// state); one AGProver instance may advance many Proofs in sequence.
type AGProver struct {
	backend         client.Backend
	opts            client.ExecuteOptions
	isTerminal      func(ct *cterm.CTerm) bool
	extractBranches ExtractBranches
	sameLoop        SameLoop
	maxIterations   int
	subsumption     *subsumptionCache
	logger          *log.Logger
	metrics         *metrics.Registry

	dispatcher *parallel.Dispatcher[ProofStep, client.ExecuteResult]
}

// New builds an AGProver from cfg. Backend must be non-nil.
func New(c Config) (*AGProver, error) {
	if c.Backend == nil {
		return nil, fmt.Errorf("prover: Config.Backend must not be nil")
	}
	sc, err := newSubsumptionCache(c.SubsumptionCacheSize, c.Metrics)
	if err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = log.Noop()
	}
	p := &AGProver{
		backend:         c.Backend,
		opts:            c.ExecuteOptions,
		isTerminal:      c.IsTerminal,
		extractBranches: c.ExtractBranches,
		sameLoop:        c.SameLoop,
		maxIterations:   c.MaxIterations,
		subsumption:     sc,
		logger:          logger,
		metrics:         c.Metrics,
	}
	if c.Workers > 1 {
		p.dispatcher = parallel.NewDispatcher[ProofStep, client.ExecuteResult](c.Workers)
		go p.watchStalls()
	}
	return p, nil
}

// watchStalls drains the dispatcher's stall alerts for the lifetime of the
// prover, logging each as a warning. It never blocks proof progress: a
// stall alert means one dispatched call is running long, not that the
// round has failed.
func (p *AGProver) watchStalls() {
	for alert := range p.dispatcher.Alerts() {
		p.logger.Warnw("backend call running long", "task", alert.TaskID, "description", alert.Description)
	}
}

// AdvanceProof runs proof's CFG through the APR loop until it is fully
// explored, the iteration bound is hit, or a non-recoverable error aborts
// the step (per spec §7, user input/protocol/invariant errors stop the
// process; transport and semantic backend errors are local to one step).
// It returns the proof's status as of whenever the loop stopped.
func (p *AGProver) AdvanceProof(ctx context.Context, proof *Proof) (Status, error) {
	target, err := proof.CFG.Resolve("#target")
	if err != nil {
		return proof.Status(), fmt.Errorf("prover: %s: %w", proof.ID, ErrNoTarget)
	}
	if _, err := proof.CFG.Resolve("#init"); err != nil {
		return proof.Status(), fmt.Errorf("prover: %s: %w", proof.ID, ErrNoInit)
	}

	iterations := 0
	for {
		pending := proof.CFG.Pending()
		if len(pending) == 0 {
			break
		}
		if p.maxIterations > 0 && iterations >= p.maxIterations {
			p.logger.Warnw("reached iteration bound", "proof", proof.ID, "max", p.maxIterations)
			break
		}
		iterations++

		id := pending[0]
		n, ok := proof.CFG.GetNode(id)
		if !ok {
			continue
		}

		if p.isTerminal != nil && p.isTerminal(n.CTerm()) {
			p.logger.Infow("terminal node", "proof", proof.ID, "node", cfg.ShortID(n.ID()))
			proof.CFG.MarkTerminal(n.ID())
			continue
		}

		if n.CTerm().IsBottom() {
			proof.CFG.MarkVacuous(n.ID())
			continue
		}

		if proof.BMCDepth != nil && checkBounded(proof.CFG, n, p.sameLoop, *proof.BMCDepth) {
			p.logger.Infow("bounded node", "proof", proof.ID, "node", cfg.ShortID(n.ID()))
			continue
		}

		csubst, subsumed, err := p.subsumption.check(ctx, p.backend, n.CTerm(), target.CTerm())
		if err != nil {
			return proof.Status(), fmt.Errorf("prover: %s: subsumption check: %w", proof.ID, err)
		}
		if subsumed {
			p.logger.Infow("subsumed into target", "proof", proof.ID, "node", cfg.ShortID(n.ID()))
			if _, err := proof.CFG.CreateCover(n.ID(), target.ID(), csubst); err != nil {
				return proof.Status(), fmt.Errorf("prover: %s: create cover: %w", proof.ID, err)
			}
			continue
		}

		if !proof.CFG.ClaimForExpansion(n.ID()) {
			continue
		}
		p.logger.Infow("advancing proof", "proof", proof.ID, "node", cfg.ShortID(n.ID()))
		if err := extend(ctx, proof.CFG, p.backend, n, p.opts, p.extractBranches); err != nil {
			return proof.Status(), fmt.Errorf("prover: %s: %w", proof.ID, err)
		}
		if p.metrics != nil {
			p.metrics.NodesCreated.Inc()
			p.metrics.PendingNodes.Set(float64(len(proof.CFG.Pending())))
		}
	}

	return proof.Status(), nil
}

// AdvanceProofParallel is AdvanceProof's round-based counterpart: each
// round it classifies every currently pending node sequentially (terminal,
// vacuous, BMC bound, subsumption — the same checks AdvanceProof makes one
// node at a time), then dispatches whatever is left needing a plain
// extend() to the backend concurrently via steps()/RunSteps, committing
// each Update as it streams back. It requires Config.Workers > 1; New
// wires the dispatcher that makes this possible.
func (p *AGProver) AdvanceProofParallel(ctx context.Context, proof *Proof) (Status, error) {
	if p.dispatcher == nil {
		return proof.Status(), fmt.Errorf("prover: %s: AdvanceProofParallel requires Config.Workers > 1", proof.ID)
	}

	target, err := proof.CFG.Resolve("#target")
	if err != nil {
		return proof.Status(), fmt.Errorf("prover: %s: %w", proof.ID, ErrNoTarget)
	}
	if _, err := proof.CFG.Resolve("#init"); err != nil {
		return proof.Status(), fmt.Errorf("prover: %s: %w", proof.ID, ErrNoInit)
	}

	rounds := 0
	for {
		pending := proof.CFG.Pending()
		if len(pending) == 0 {
			break
		}
		if p.maxIterations > 0 && rounds >= p.maxIterations {
			p.logger.Warnw("reached iteration bound", "proof", proof.ID, "max", p.maxIterations)
			break
		}
		rounds++

		progressed := false
		for _, id := range pending {
			n, ok := proof.CFG.GetNode(id)
			if !ok {
				continue
			}

			if p.isTerminal != nil && p.isTerminal(n.CTerm()) {
				p.logger.Infow("terminal node", "proof", proof.ID, "node", cfg.ShortID(n.ID()))
				proof.CFG.MarkTerminal(n.ID())
				progressed = true
				continue
			}

			if n.CTerm().IsBottom() {
				proof.CFG.MarkVacuous(n.ID())
				progressed = true
				continue
			}

			if proof.BMCDepth != nil && checkBounded(proof.CFG, n, p.sameLoop, *proof.BMCDepth) {
				p.logger.Infow("bounded node", "proof", proof.ID, "node", cfg.ShortID(n.ID()))
				progressed = true
				continue
			}

			csubst, subsumed, err := p.subsumption.check(ctx, p.backend, n.CTerm(), target.CTerm())
			if err != nil {
				return proof.Status(), fmt.Errorf("prover: %s: subsumption check: %w", proof.ID, err)
			}
			if subsumed {
				p.logger.Infow("subsumed into target", "proof", proof.ID, "node", cfg.ShortID(n.ID()))
				if _, err := proof.CFG.CreateCover(n.ID(), target.ID(), csubst); err != nil {
					return proof.Status(), fmt.Errorf("prover: %s: create cover: %w", proof.ID, err)
				}
				progressed = true
			}
		}

		steps := Steps(proof.CFG)
		if len(steps) == 0 {
			if !progressed {
				break
			}
			continue
		}

		updates := RunSteps(ctx, proof.CFG, p.backend, p.opts, p.dispatcher)
		for u := range updates {
			if err := Commit(proof.CFG, u, p.extractBranches); err != nil {
				return proof.Status(), fmt.Errorf("prover: %s: %w", proof.ID, err)
			}
			if p.metrics != nil {
				p.metrics.NodesCreated.Inc()
			}
		}
		if p.metrics != nil {
			p.metrics.PendingNodes.Set(float64(len(proof.CFG.Pending())))
		}
	}

	return proof.Status(), nil
}
