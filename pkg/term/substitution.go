package term

// Substitution is a finite, immutable mapping from variable names to
// terms. Bind returns a new Substitution; the receiver is never mutated,
// mirroring the hash-consed immutability of Term itself.
type Substitution struct {
	bindings map[string]Term
}

// NewSubstitution returns the empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[string]Term{}}
}

// Bind returns a new Substitution extending s with name ↦ t. An existing
// binding for name is overwritten.
func (s *Substitution) Bind(name string, t Term) *Substitution {
	next := make(map[string]Term, len(s.bindings)+1)
	for k, v := range s.bindings {
		next[k] = v
	}
	next[name] = t
	return &Substitution{bindings: next}
}

// Lookup returns the term bound to name, if any.
func (s *Substitution) Lookup(name string) (Term, bool) {
	t, ok := s.bindings[name]
	return t, ok
}

// Len reports the number of bindings.
func (s *Substitution) Len() int { return len(s.bindings) }

// Names returns the bound variable names, in no particular order.
func (s *Substitution) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for n := range s.bindings {
		names = append(names, n)
	}
	return names
}

// Ground reports whether every image in the substitution is itself a
// closed term (no free variables).
func (s *Substitution) Ground() bool {
	for _, t := range s.bindings {
		if len(t.FreeVars()) > 0 {
			return false
		}
	}
	return true
}

// Walk returns the term bound to a Variable, recursing through chains of
// variable-to-variable bindings, or the variable itself if unbound.
func (s *Substitution) Walk(t Term) Term {
	for {
		v, ok := t.(*Variable)
		if !ok {
			return t
		}
		bound, ok := s.bindings[v.name]
		if !ok {
			return t
		}
		t = bound
	}
}

// Apply replaces every free occurrence of a bound variable in t with its
// image, applied structurally (no alpha-renaming: variables are globally
// named). Unbound variables pass through unchanged.
//
// It walks via Fold's explicit stack rather than recursing through
// Application/Sequence children directly: terms built up through repeated
// rule application can nest arbitrarily deep, and Apply avoids Go call
// recursion over term structure for that reason (see traverse.go). Hashing,
// encoding, decoding and FreeVars in this package do recurse.
func (s *Substitution) Apply(t Term) Term {
	result, _, err := Fold(t, s.applyNode)
	if err != nil {
		// applyNode never returns an error; a non-nil err here would mean
		// Fold's traversal contract itself broke.
		panic("term: substitution: " + err.Error())
	}
	return result
}

// applyNode is Apply's Transform: by the time it runs on a node, that
// node's children have already been substituted, so it only has to
// rebuild this one level.
func (s *Substitution) applyNode(node Term, children []Term, _ []Summary) (Term, Summary, error) {
	switch n := node.(type) {
	case *Variable:
		if bound, ok := s.bindings[n.name]; ok {
			return bound, nil, nil
		}
		return n, nil, nil

	case *Token:
		return n, nil, nil

	case *Application:
		return NewApplication(n.label, n.sortArgs, n.retSort, children), nil, nil

	case *Sequence:
		return NewSequence(children, n.sort), nil, nil

	case *Rewrite:
		return NewRewrite(children[0], children[1]), nil, nil

	case *AsBinding:
		// children is [substituted pattern, substituted binder]. Substituting
		// the binder with a non-variable collapses the binding: the
		// pattern's own substitution result stands in.
		v, ok := children[1].(*Variable)
		if !ok {
			return children[0], nil, nil
		}
		return NewAsBinding(children[0], v), nil, nil

	default:
		return node, nil, nil
	}
}

// Compose returns a substitution equivalent to applying s, then other: for
// every term t, s.Compose(other).Apply(t) == other.Apply(s.Apply(t)).
// Bindings private to other are carried over unapplied.
func (s *Substitution) Compose(other *Substitution) *Substitution {
	next := make(map[string]Term, len(s.bindings)+len(other.bindings))
	for k, v := range s.bindings {
		next[k] = other.Apply(v)
	}
	for k, v := range other.bindings {
		if _, ok := next[k]; !ok {
			next[k] = v
		}
	}
	return &Substitution{bindings: next}
}
