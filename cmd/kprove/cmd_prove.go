package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitrdm/kprove/internal/metrics"
	kcfg "github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/client"
	"github.com/gitrdm/kprove/pkg/cterm"
	"github.com/gitrdm/kprove/pkg/prover"
	"github.com/gitrdm/kprove/pkg/term"
)

var (
	flagMaxIterations int
	flagExecuteDepth  int
	flagCutPoint      []string
	flagTerminal      []string
	flagBMCDepth      int
	flagWorkers       int
	flagSaveDirectory string
)

var proveCmd = &cobra.Command{
	Use:   "prove proof-id [proof-id...]",
	Short: "Advance one or more saved proofs against the backend",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProve,
}

func init() {
	proveCmd.Flags().IntVar(&flagMaxIterations, "max-iterations", 0, "override config max-iterations (0 = use config)")
	proveCmd.Flags().IntVar(&flagExecuteDepth, "execute-depth", 0, "override config execute-depth (0 = use config)")
	proveCmd.Flags().StringArrayVar(&flagCutPoint, "cut-point", nil, "rule label to treat as a cut point")
	proveCmd.Flags().StringArrayVar(&flagTerminal, "terminal", nil, "rule label to treat as a terminal rule")
	proveCmd.Flags().IntVar(&flagBMCDepth, "bmc-depth", 0, "loop-nest bound for APR-BMC (0 disables bounding)")
	proveCmd.Flags().IntVar(&flagWorkers, "workers", 0, "override config workers (0 = use config)")
	proveCmd.Flags().StringVar(&flagSaveDirectory, "save-directory", "", "override config save-directory")
}

func runProve(cmd *cobra.Command, args []string) error {
	saveDir := cfg.SaveDirectory
	if flagSaveDirectory != "" {
		saveDir = flagSaveDirectory
	}
	maxIterations := cfg.MaxIterations
	if flagMaxIterations > 0 {
		maxIterations = flagMaxIterations
	}
	executeDepth := cfg.ExecuteDepth
	if flagExecuteDepth > 0 {
		executeDepth = flagExecuteDepth
	}
	bmcDepth := cfg.BMCDepth
	if flagBMCDepth > 0 {
		bmcDepth = flagBMCDepth
	}
	workers := cfg.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}

	proofs := make([]*prover.Proof, 0, len(args))
	for _, id := range args {
		path := proofPath(saveDir, id)
		g, err := kcfg.Load(path)
		if err != nil {
			return usageError(fmt.Errorf("kprove: load proof %q: %w", id, err))
		}
		p := prover.NewProof(id, g)
		if flagBMCDepth > 0 {
			d := bmcDepth
			p.BMCDepth = &d
		}
		proofs = append(proofs, p)
	}

	ordered, err := prover.Schedule(proofs)
	if err != nil {
		return usageError(fmt.Errorf("kprove: schedule proofs: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout*time.Duration(maxIterations+1))
	defer cancel()

	transport, err := client.DialTCP(ctx, cfg.Backend.Address)
	if err != nil {
		return fmt.Errorf("kprove: dial backend %s: %w", cfg.Backend.Address, err)
	}
	defer transport.Close()

	translator, err := client.NewTranslator(client.NewSubsortLattice(nil), 1024)
	if err != nil {
		return fmt.Errorf("kprove: build translator: %w", err)
	}

	reg := metrics.New()
	backend := client.New(transport, translator,
		client.WithLogger(logger),
		client.WithMetrics(reg),
		client.WithRetryPolicy(client.RetryPolicy{
			MaxTries:        cfg.Backend.MaxRetries,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		}),
	)

	var maxDepthPtr *int
	if executeDepth > 0 {
		maxDepthPtr = &executeDepth
	}

	p, err := prover.New(prover.Config{
		Backend: backend,
		ExecuteOptions: client.ExecuteOptions{
			MaxDepth:      maxDepthPtr,
			CutPointRules: flagCutPoint,
			TerminalRules: flagTerminal,
		},
		SameLoop:             defaultSameLoop,
		MaxIterations:        maxIterations,
		SubsumptionCacheSize: 1024,
		Workers:              workers,
		Logger:               logger,
		Metrics:              reg,
	})
	if err != nil {
		return fmt.Errorf("kprove: build prover: %w", err)
	}

	anyFailed := false
	anyPending := false
	for _, proof := range ordered {
		var (
			status prover.Status
			err    error
		)
		if workers > 1 {
			status, err = p.AdvanceProofParallel(ctx, proof)
		} else {
			status, err = p.AdvanceProof(ctx, proof)
		}
		if err != nil {
			return fmt.Errorf("kprove: advance proof %q: %w", proof.ID, err)
		}
		if err := proof.CFG.Save(proofPath(saveDir, proof.ID)); err != nil {
			return fmt.Errorf("kprove: save proof %q: %w", proof.ID, err)
		}
		if err := recordManifest(saveDir, proof.ID); err != nil {
			return fmt.Errorf("kprove: update manifest for %q: %w", proof.ID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", proof.ID, status)
		switch status {
		case prover.Failed:
			anyFailed = true
		case prover.Pending:
			anyPending = true
		}
	}

	switch {
	case anyFailed:
		return &exitError{code: 1}
	case anyPending:
		return &exitError{code: 2}
	default:
		return nil
	}
}

// defaultSameLoop is a generic loop-head heuristic for APR-BMC when no
// semantics-specific predicate is wired in: two configurations are
// considered the same loop head when their outermost application carries
// the same label, matching how a reapplied loop rule tends to leave the
// control cell's top symbol unchanged across iterations.
func defaultSameLoop(a, b *cterm.CTerm) bool {
	aApp, ok := a.Config().(*term.Application)
	if !ok {
		return false
	}
	bApp, ok := b.Config().(*term.Application)
	if !ok {
		return false
	}
	return aApp.Label() == bApp.Label()
}
