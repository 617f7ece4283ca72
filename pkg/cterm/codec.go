package cterm

import (
	"encoding/json"
	"fmt"

	"github.com/gitrdm/kprove/pkg/term"
)

// wireCTerm is the JSON shape of a CTerm: the configuration and its
// constraints, each in term.Encode's canonical form.
type wireCTerm struct {
	Config      json.RawMessage   `json:"config"`
	Constraints []json.RawMessage `json:"constraints,omitempty"`
}

// Encode serializes a CTerm to JSON.
func Encode(ct *CTerm) ([]byte, error) {
	configJSON, err := term.Encode(ct.config)
	if err != nil {
		return nil, fmt.Errorf("cterm: encode config: %w", err)
	}
	constraints := make([]json.RawMessage, len(ct.constraints))
	for i, c := range ct.constraints {
		cj, err := term.Encode(c)
		if err != nil {
			return nil, fmt.Errorf("cterm: encode constraint %d: %w", i, err)
		}
		constraints[i] = cj
	}
	return json.Marshal(wireCTerm{Config: configJSON, Constraints: constraints})
}

// Decode reconstructs a CTerm from the JSON form produced by Encode.
func Decode(data []byte) (*CTerm, error) {
	var wire wireCTerm
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("cterm: decode: %w", err)
	}
	config, err := term.Decode(wire.Config)
	if err != nil {
		return nil, fmt.Errorf("cterm: decode config: %w", err)
	}
	constraints := make([]term.Term, len(wire.Constraints))
	for i, cj := range wire.Constraints {
		c, err := term.Decode(cj)
		if err != nil {
			return nil, fmt.Errorf("cterm: decode constraint %d: %w", i, err)
		}
		constraints[i] = c
	}
	return New(config, constraints...), nil
}
