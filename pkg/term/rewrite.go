package term

// Rewrite is an ordered pair lhs ⇒ rhs of terms: the term form of a
// rewrite rule or claim, before it is split into a CTerm pair by pkg/cterm.
type Rewrite struct {
	lhs, rhs Term
	hash     Hash
}

// NewRewrite constructs a Rewrite. lhs and rhs need not share a sort; the
// pair's own sort is the lhs's sort, matching how the backend reports it.
func NewRewrite(lhs, rhs Term) *Rewrite {
	r := &Rewrite{lhs: lhs, rhs: rhs}
	r.hash = hashTerm(r)
	return r
}

// LHS returns the left-hand side.
func (r *Rewrite) LHS() Term { return r.lhs }

// RHS returns the right-hand side.
func (r *Rewrite) RHS() Term { return r.rhs }

func (r *Rewrite) Hash() Hash { return r.hash }

func (r *Rewrite) Sort() Sort { return r.lhs.Sort() }

func (r *Rewrite) String() string { return r.lhs.String() + " => " + r.rhs.String() }

func (r *Rewrite) FreeVars() map[string]Sort { return mergeFreeVars([]Term{r.lhs, r.rhs}) }

func (r *Rewrite) Equal(other Term) bool {
	o, ok := other.(*Rewrite)
	return ok && o.hash == r.hash
}

func (r *Rewrite) children() []Term { return []Term{r.lhs, r.rhs} }

func (r *Rewrite) canonical() canonicalNode {
	return canonicalNode{Tag: "Rewrite", Children: []canonicalNode{r.lhs.canonical(), r.rhs.canonical()}}
}
