package cterm

import "github.com/gitrdm/kprove/pkg/term"

// MatchWithConstraint syntactically matches pattern.config against
// subject.config: pattern (the consequent, typically the target or a
// covering node) may contain variables, each of which binds to the
// corresponding sub-term of subject (the antecedent). It returns a CSubst
// σ such that σ(pattern.config) is syntactically equal to subject.config,
// with pattern's own constraints carried over as residual predicate
// obligations (to be discharged separately via an implies call).
//
// A nil, nil return means no such σ exists — the expected outcome during
// proof search, not an error. A non-nil error means the pattern used a
// term shape this matcher cannot walk.
func MatchWithConstraint(subject, pattern *CTerm) (*CSubst, error) {
	matched, ok, err := match(pattern.config, subject.config, NewCSubst(term.NewSubstitution()))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	residual := make([]term.Term, len(pattern.constraints))
	for i, c := range pattern.constraints {
		residual[i] = matched.Subst.Apply(c)
	}
	return &CSubst{Subst: matched.Subst, Constraints: residual}, nil
}

// match walks pattern against subject, extending acc. The boolean result
// is false (not an error) whenever the shapes simply fail to line up.
func match(pattern, subject term.Term, acc *CSubst) (*CSubst, bool, error) {
	switch p := pattern.(type) {
	case *term.Variable:
		return bindOrCheck(p.Name(), subject, acc)

	case *term.Token:
		s, ok := subject.(*term.Token)
		if !ok || s.Value() != p.Value() || s.Sort() != p.Sort() {
			return acc, false, nil
		}
		return acc, true, nil

	case *term.Application:
		s, ok := subject.(*term.Application)
		if !ok || s.Label() != p.Label() {
			return acc, false, nil
		}
		pargs, sargs := p.Args(), s.Args()
		if len(pargs) != len(sargs) {
			return acc, false, nil
		}
		cur := acc
		for i := range pargs {
			next, ok, err := match(pargs[i], sargs[i], cur)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return acc, false, nil
			}
			cur = next
		}
		return cur, true, nil

	case *term.Sequence:
		s, ok := subject.(*term.Sequence)
		if !ok {
			return acc, false, nil
		}
		return matchSequence(p.Items(), s.Items(), acc)

	case *term.Rewrite:
		s, ok := subject.(*term.Rewrite)
		if !ok {
			return acc, false, nil
		}
		cur, ok, err := match(p.LHS(), s.LHS(), acc)
		if err != nil || !ok {
			return acc, ok, err
		}
		return match(p.RHS(), s.RHS(), cur)

	case *term.AsBinding:
		cur, ok, err := match(p.Pattern(), subject, acc)
		if err != nil || !ok {
			return acc, ok, err
		}
		return bindOrCheck(p.Binder().Name(), subject, cur)

	default:
		return acc, false, ErrUnsupportedPattern
	}
}

// matchSequence matches pattern items against subject items head-by-head,
// allowing the single trailing pattern item — if it is a bare Variable —
// to soak up any remaining subject items as a suffix.
func matchSequence(pitems, sitems []term.Term, acc *CSubst) (*CSubst, bool, error) {
	cur := acc
	for i, p := range pitems {
		if i == len(pitems)-1 {
			if v, ok := p.(*term.Variable); ok {
				return bindSuffix(v, sitems[min(i, len(sitems)):], cur)
			}
		}
		if i >= len(sitems) {
			return acc, false, nil
		}
		next, ok, err := match(p, sitems[i], cur)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return acc, false, nil
		}
		cur = next
	}
	if len(sitems) != len(pitems) {
		return acc, false, nil
	}
	return cur, true, nil
}

func bindSuffix(v *term.Variable, rest []term.Term, acc *CSubst) (*CSubst, bool, error) {
	var restTerm term.Term
	switch len(rest) {
	case 1:
		restTerm = rest[0]
	default:
		restTerm = term.NewSequence(rest, v.Sort())
	}
	return bindOrCheck(v.Name(), restTerm, acc)
}

func bindOrCheck(name string, subject term.Term, acc *CSubst) (*CSubst, bool, error) {
	if existing, ok := acc.Subst.Lookup(name); ok {
		if existing.Hash() != subject.Hash() {
			return acc, false, nil
		}
		return acc, true, nil
	}
	return &CSubst{Subst: acc.Subst.Bind(name, subject), Constraints: acc.Constraints}, true, nil
}
