package term

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a term to its canonical JSON form. Encode is
// deterministic: equal terms always produce byte-identical output, which
// is what makes Hash a valid content hash.
func Encode(t Term) ([]byte, error) {
	return json.Marshal(t.canonical())
}

// Decode reconstructs a term from the JSON form produced by Encode.
// Decode(Encode(t)) reproduces a term equal to t (same Hash), satisfying
// the model's round-trip invariant.
func Decode(data []byte) (Term, error) {
	var node canonicalNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("term: decode: %w: %v", ErrMalformedTerm, err)
	}
	return build(node)
}

func build(n canonicalNode) (Term, error) {
	switch n.Tag {
	case "Variable":
		return NewVariable(n.Name, n.Sort), nil

	case "Token":
		return NewToken(n.Value, n.Sort)

	case "Application":
		children, err := buildChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return NewApplication(n.Name, n.SortArgs, n.Sort, children), nil

	case "Sequence":
		children, err := buildChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return NewSequence(children, n.Sort), nil

	case "Rewrite":
		if len(n.Children) != 2 {
			return nil, fmt.Errorf("term: rewrite needs 2 children, got %d: %w", len(n.Children), ErrMalformedTerm)
		}
		children, err := buildChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return NewRewrite(children[0], children[1]), nil

	case "AsBinding":
		if len(n.Children) != 1 {
			return nil, fmt.Errorf("term: as-binding needs 1 child, got %d: %w", len(n.Children), ErrMalformedTerm)
		}
		children, err := buildChildren(n.Children)
		if err != nil {
			return nil, err
		}
		binder := NewVariable(n.Name, n.Sort)
		return NewAsBinding(children[0], binder), nil

	default:
		return nil, fmt.Errorf("term: unknown tag %q: %w", n.Tag, ErrMalformedTerm)
	}
}

func buildChildren(nodes []canonicalNode) ([]Term, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]Term, len(nodes))
	for i, n := range nodes {
		t, err := build(n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
