package prover

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gitrdm/kprove/internal/metrics"
	"github.com/gitrdm/kprove/pkg/client"
	"github.com/gitrdm/kprove/pkg/cterm"
)

// subsumptionKey composes a node's and a target's CTerm hashes into one
// cache key, per spec §4.5: "cacheable by (hash(n), hash(target))".
type subsumptionKey struct {
	node   string
	target string
}

// subsumptionCache memoizes implies(n.cterm, target.cterm) results across
// prover iterations: a node whose subsumption check already failed need
// not re-ask the backend unless its cterm changes (a new node id, since
// CTerms are immutable and node ids are content hashes).
type subsumptionCache struct {
	cache   *lru.Cache[subsumptionKey, *subsumptionEntry]
	metrics *metrics.Registry
}

type subsumptionEntry struct {
	ok     bool
	csubst *cterm.CSubst
}

func newSubsumptionCache(size int, m *metrics.Registry) (*subsumptionCache, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[subsumptionKey, *subsumptionEntry](size)
	if err != nil {
		return nil, fmt.Errorf("prover: new subsumption cache: %w", err)
	}
	return &subsumptionCache{cache: c, metrics: m}, nil
}

// check calls backend.Implies(nodeCT, targetCT), honoring the cache keyed
// by the two CTerms' hashes (configuration and constraints). It reports (csubst, true, nil) when
// the antecedent implies the consequent, (nil, false, nil) when it
// provably does not, and a non-nil error only on a genuine backend
// failure (not on "implication undecided", which callers treat as false
// and leave the node pending per §7's disposition table).
func (c *subsumptionCache) check(ctx context.Context, backend client.Backend, nodeCT, targetCT *cterm.CTerm) (*cterm.CSubst, bool, error) {
	key := subsumptionKey{node: string(nodeCT.Hash()), target: string(targetCT.Hash())}
	if entry, ok := c.cache.Get(key); ok {
		if c.metrics != nil {
			c.metrics.CacheHits.WithLabelValues("subsumption").Inc()
		}
		return entry.csubst, entry.ok, nil
	}
	if c.metrics != nil {
		c.metrics.CacheMisses.WithLabelValues("subsumption").Inc()
	}

	result, err := backend.Implies(ctx, nodeCT, targetCT)
	if err != nil {
		if errors.Is(err, client.ErrImplicationUndecided) {
			entry := &subsumptionEntry{ok: false}
			c.cache.Add(key, entry)
			return nil, false, nil
		}
		return nil, false, err
	}
	entry := &subsumptionEntry{ok: result.Satisfiable, csubst: result.CSubst}
	c.cache.Add(key, entry)
	return entry.csubst, entry.ok, nil
}
