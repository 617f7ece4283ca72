package client

import (
	"encoding/json"
	"fmt"

	"github.com/gitrdm/kprove/pkg/cterm"
	"github.com/gitrdm/kprove/pkg/term"
)

// TopSort is the sort every configuration is injected into on the wire,
// matching the K framework's GENERATED_TOP_CELL convention.
const TopSort term.Sort = "GeneratedTopCell"

// BoolSort is the sort every path-constraint predicate is injected into.
const BoolSort term.Sort = "Bool"

type wireState struct {
	Config      json.RawMessage   `json:"config"`
	Constraints []json.RawMessage `json:"constraints,omitempty"`
}

func (tr *Translator) encodeCTerm(ct *cterm.CTerm) (json.RawMessage, error) {
	configJSON, err := tr.ToWire(ct.Config(), TopSort)
	if err != nil {
		return nil, fmt.Errorf("client: encode config: %w", err)
	}
	constraints := ct.Constraints()
	constraintsJSON := make([]json.RawMessage, len(constraints))
	for i, c := range constraints {
		cj, err := tr.ToWire(c, BoolSort)
		if err != nil {
			return nil, fmt.Errorf("client: encode constraint %d: %w", i, err)
		}
		constraintsJSON[i] = cj
	}
	return json.Marshal(wireState{Config: configJSON, Constraints: constraintsJSON})
}

func (tr *Translator) decodeCTerm(data json.RawMessage) (*cterm.CTerm, error) {
	var wire wireState
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("client: decode state: %w", err)
	}
	config, err := tr.FromWire(wire.Config)
	if err != nil {
		return nil, fmt.Errorf("client: decode config: %w", err)
	}
	constraints := make([]term.Term, len(wire.Constraints))
	for i, cj := range wire.Constraints {
		c, err := tr.FromWire(cj)
		if err != nil {
			return nil, fmt.Errorf("client: decode constraint %d: %w", i, err)
		}
		constraints[i] = c
	}
	return cterm.New(config, constraints...), nil
}
