package client

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gitrdm/kprove/pkg/term"
)

// Translator converts between the internal term AST and the wire form sent
// to and received from the backend, inserting and removing sort injections
// per the subsort lattice. A cache keyed by the internal term's hash avoids
// re-translating identical terms on the outbound path, per §4.4.
type Translator struct {
	lattice *SubsortLattice
	cache   *lru.Cache[term.Hash, []byte]
}

// NewTranslator builds a Translator over lattice, caching up to cacheSize
// outbound translations.
func NewTranslator(lattice *SubsortLattice, cacheSize int) (*Translator, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[term.Hash, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("client: new translation cache: %w", err)
	}
	return &Translator{lattice: lattice, cache: cache}, nil
}

// ToWire canonicalizes t into the wire form, inserting an injection
// wrapper when t's sort differs from targetSort and the lattice allows it.
// Results are cached by t's hash plus targetSort, since the same term may
// legitimately be injected to different target sorts in different calls.
func (tr *Translator) ToWire(t term.Term, targetSort term.Sort) ([]byte, error) {
	cacheKey := t.Hash()
	if targetSort != "" && targetSort != t.Sort() {
		// Fold the target sort into the cache key by hashing a tiny marker
		// term alongside it, keeping the cache type (term.Hash) uniform.
		cacheKey = term.NewSequence([]term.Term{t, mustSortToken(targetSort)}, "#WireCacheKey").Hash()
	}
	if cached, ok := tr.cache.Get(cacheKey); ok {
		return cached, nil
	}

	wireTerm := t
	if targetSort != "" && targetSort != t.Sort() {
		if !tr.lattice.IsSubsort(t.Sort(), targetSort) {
			return nil, fmt.Errorf("client: inject %s into %s: %w", t.Sort(), targetSort, ErrUnknownSort)
		}
		wireTerm = term.NewApplication(InjectionLabel, []term.Sort{t.Sort(), targetSort}, targetSort, []term.Term{t})
	}

	data, err := term.Encode(wireTerm)
	if err != nil {
		return nil, fmt.Errorf("client: encode term: %w", err)
	}
	tr.cache.Add(cacheKey, data)
	return data, nil
}

// FromWire parses a backend response term and strips any injection
// wrappers, recovering the plain internal AST. The inbound path is not
// cached: responses are rarely repeated verbatim, unlike outbound queries.
func (tr *Translator) FromWire(data []byte) (term.Term, error) {
	t, err := term.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("client: decode term: %w", err)
	}
	return stripInjections(t), nil
}

func stripInjections(t term.Term) term.Term {
	app, ok := t.(*term.Application)
	if !ok {
		return t
	}
	args := app.Args()
	if app.Label() == InjectionLabel && len(args) == 1 {
		return stripInjections(args[0])
	}
	if len(args) == 0 {
		return t
	}
	changed := false
	newArgs := make([]term.Term, len(args))
	for i, a := range args {
		newArgs[i] = stripInjections(a)
		if newArgs[i] != a {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return term.NewApplication(app.Label(), app.SortArgs(), app.Sort(), newArgs)
}

func mustSortToken(s term.Sort) term.Term {
	tok, err := term.NewToken(string(s), "#Sort")
	if err != nil {
		// #Sort is always a non-empty literal string; NewToken only
		// rejects an empty sort argument, which cannot happen here.
		panic(err)
	}
	return tok
}
