package cfg

import (
	"testing"

	"github.com/gitrdm/kprove/pkg/cterm"
	"github.com/gitrdm/kprove/pkg/term"
)

func mustToken(t *testing.T, value, sort string) term.Term {
	t.Helper()
	tok, err := term.NewToken(value, term.Sort(sort))
	if err != nil {
		t.Fatalf("NewToken(%q, %q): %v", value, sort, err)
	}
	return tok
}

func configOf(t *testing.T, label string) *cterm.CTerm {
	t.Helper()
	return cterm.New(term.NewApplication(label, nil, "State", nil))
}
