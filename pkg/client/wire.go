package client

import "encoding/json"

// executeParams is the outbound params object for the "execute" method.
type executeParams struct {
	State           json.RawMessage `json:"state"`
	MaxDepth        *int            `json:"max-depth,omitempty"`
	CutPointRules   []string        `json:"cut-point-rules,omitempty"`
	TerminalRules   []string        `json:"terminal-rules,omitempty"`
	ModuleName      string          `json:"module-name,omitempty"`
	LogSuccessful   bool            `json:"log-successful-rewrites,omitempty"`
	LogFailed       bool            `json:"log-failed-rewrites,omitempty"`
	LogSimplifyOK   bool            `json:"log-successful-simplifications,omitempty"`
	LogSimplifyFail bool            `json:"log-failed-simplifications,omitempty"`
}

// executeResult is the inbound result object for "execute".
type executeResult struct {
	Reason           string            `json:"reason"`
	State            json.RawMessage   `json:"state"`
	Depth            int               `json:"depth"`
	NextStates       []json.RawMessage `json:"next-states,omitempty"`
	Rule             string            `json:"rule,omitempty"`
	UnknownPredicate string            `json:"unknown-predicate,omitempty"`
	Logs             []string          `json:"logs,omitempty"`
}

// simplifyParams/simplifyResult back the "simplify" method.
type simplifyParams struct {
	State      json.RawMessage `json:"state"`
	ModuleName string          `json:"module,omitempty"`
}

type simplifyResult struct {
	State json.RawMessage `json:"state"`
	Logs  []string        `json:"logs,omitempty"`
}

// impliesParams/impliesResult back the "implies" method.
type impliesParams struct {
	Antecedent json.RawMessage `json:"antecedent"`
	Consequent json.RawMessage `json:"consequent"`
	ModuleName string          `json:"module,omitempty"`
}

type impliesResult struct {
	Satisfiable  bool            `json:"satisfiable"`
	Implication  json.RawMessage `json:"implication,omitempty"`
	Condition    json.RawMessage `json:"condition,omitempty"`
	Substitution json.RawMessage `json:"substitution,omitempty"`
	Logs         []string        `json:"logs,omitempty"`
}

// getModelParams/getModelResult back the "get-model" method.
type getModelParams struct {
	State      json.RawMessage `json:"state"`
	ModuleName string          `json:"module,omitempty"`
}

type getModelResult struct {
	Satisfiable  string          `json:"satisfiable"` // "Sat" | "Unsat" | "Unknown"
	Substitution json.RawMessage `json:"substitution,omitempty"`
}

// addModuleParams backs the "add-module" method; its result is always [].
type addModuleParams struct {
	Module string `json:"module"`
}
