package term

import (
	"errors"
	"testing"
)

var errUnsupported = errors.New("unsupported node")

func TestCountNodes(t *testing.T) {
	x := NewVariable("X", "Int")
	five := mustToken(t, "5", "Int")
	expr := NewApplication("_+_", nil, "Int", []Term{x, five})

	// expr, x, five => 3 nodes.
	if got := CountNodes(expr); got != 3 {
		t.Fatalf("expected 3 nodes, got %d", got)
	}

	seq := NewSequence([]Term{expr, NewVariable("Rest", "K")}, "K")
	// seq, expr, x, five, Rest => 5 nodes.
	if got := CountNodes(seq); got != 5 {
		t.Fatalf("expected 5 nodes, got %d", got)
	}
}

func TestFoldRebuildsIdenticalTerm(t *testing.T) {
	orig := sampleConfig()

	rebuilt, _, err := Fold(orig, func(node Term, children []Term, _ []Summary) (Term, Summary, error) {
		switch n := node.(type) {
		case *Variable:
			return n, nil, nil
		case *Token:
			return n, nil, nil
		case *Application:
			return NewApplication(n.label, n.sortArgs, n.retSort, children), nil, nil
		case *Sequence:
			return NewSequence(children, n.sort), nil, nil
		default:
			return node, nil, nil
		}
	})
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if rebuilt.Hash() != orig.Hash() {
		t.Fatalf("expected Fold identity-transform to preserve hash, got %s vs %s", rebuilt, orig)
	}
}

func TestFoldMemoSharesResultsAcrossEqualSubterms(t *testing.T) {
	shared := mustToken(t, "42", "Int")
	seq := NewSequence([]Term{shared, mustToken(t, "42", "Int")}, "K")

	visits := 0
	_, _, err := FoldMemo(seq, func(node Term, children []Term, _ []Summary) (Term, Summary, error) {
		if _, ok := node.(*Token); ok {
			visits++
		}
		switch n := node.(type) {
		case *Sequence:
			return NewSequence(children, n.sort), nil, nil
		default:
			return node, nil, nil
		}
	})
	if err != nil {
		t.Fatalf("FoldMemo: %v", err)
	}
	if visits != 1 {
		t.Fatalf("expected the two equal-hash tokens to be folded once, got %d visits", visits)
	}
}

func TestFoldPropagatesError(t *testing.T) {
	orig := sampleConfig()
	boom := errUnsupported

	_, _, err := Fold(orig, func(node Term, _ []Term, _ []Summary) (Term, Summary, error) {
		if _, ok := node.(*Variable); ok {
			return nil, nil, boom
		}
		return node, nil, nil
	})
	if err != boom {
		t.Fatalf("expected error to propagate out of Fold, got %v", err)
	}
}
