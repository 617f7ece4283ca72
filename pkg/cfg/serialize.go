package cfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gitrdm/kprove/pkg/cterm"
)

type wireNode struct {
	ID       string          `json:"id"`
	CTerm    json.RawMessage `json:"cterm"`
	Admitted bool            `json:"admitted,omitempty"`
	Bounded  bool            `json:"bounded,omitempty"`
}

type wireEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Depth  int      `json:"depth"`
	Rules  []string `json:"rules,omitempty"`
}

type wireCover struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	CSubst json.RawMessage `json:"csubst"`
}

type wireSplitBranch struct {
	Target string          `json:"target"`
	CSubst json.RawMessage `json:"csubst"`
}

type wireSplit struct {
	Source   string            `json:"source"`
	Branches []wireSplitBranch `json:"branches"`
}

type wireNDBranch struct {
	Source  string   `json:"source"`
	Targets []string `json:"targets"`
	Rules   []string `json:"rules,omitempty"`
}

type wireCFG struct {
	Nodes      []wireNode        `json:"nodes"`
	Edges      []wireEdge        `json:"edges,omitempty"`
	Covers     []wireCover       `json:"covers,omitempty"`
	Splits     []wireSplit       `json:"splits,omitempty"`
	NDBranches []wireNDBranch    `json:"ndbranches,omitempty"`
	Init       string            `json:"init,omitempty"`
	Target     string            `json:"target,omitempty"`
	Expanded   []string          `json:"expanded,omitempty"`
	Aliases    map[string]string `json:"aliases,omitempty"`
	Vacuous    []string          `json:"vacuous,omitempty"`
	Stuck      []string          `json:"stuck,omitempty"`
	Terminal   []string          `json:"terminal,omitempty"`
	Next       int               `json:"next"`
}

// ToJSON serializes the CFG to the canonical dict shape: nodes, edges,
// covers, splits, ndbranches, init, target, expanded, aliases, vacuous,
// stuck, terminal, next.
func (g *CFG) ToJSON() ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	wire := wireCFG{Aliases: map[string]string{}, Next: g.nextOrder}
	ids := make([]NodeId, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return g.creationOrder[ids[i]] < g.creationOrder[ids[j]] })
	for _, id := range ids {
		n := g.nodes[id]
		ctj, err := cterm.Encode(n.cterm)
		if err != nil {
			return nil, fmt.Errorf("cfg: encode node %s: %w", id, err)
		}
		wire.Nodes = append(wire.Nodes, wireNode{ID: string(id), CTerm: ctj, Admitted: n.flags.admitted, Bounded: n.flags.bounded})
		if n.flags.expanded {
			wire.Expanded = append(wire.Expanded, string(id))
		}
		if n.flags.vacuous {
			wire.Vacuous = append(wire.Vacuous, string(id))
		}
		if n.flags.stuck {
			wire.Stuck = append(wire.Stuck, string(id))
		}
		if n.flags.terminal {
			wire.Terminal = append(wire.Terminal, string(id))
		}
	}
	if g.hasInit {
		wire.Init = string(g.init)
	}
	if g.hasTarget {
		wire.Target = string(g.target)
	}
	for name, id := range g.aliases {
		wire.Aliases[name] = string(id)
	}
	sources := make([]NodeId, 0, len(g.successors))
	for src := range g.successors {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	for _, src := range sources {
		switch v := g.successors[src].(type) {
		case *Edge:
			wire.Edges = append(wire.Edges, wireEdge{Source: string(v.SourceID), Target: string(v.TargetID), Depth: v.Depth, Rules: v.Rules})
		case *Cover:
			cj, err := cterm.EncodeCSubst(v.CSubst)
			if err != nil {
				return nil, fmt.Errorf("cfg: encode cover csubst: %w", err)
			}
			wire.Covers = append(wire.Covers, wireCover{Source: string(v.SourceID), Target: string(v.TargetID), CSubst: cj})
		case *Split:
			branches := make([]wireSplitBranch, len(v.Branches))
			for i, b := range v.Branches {
				cj, err := cterm.EncodeCSubst(b.CSubst)
				if err != nil {
					return nil, fmt.Errorf("cfg: encode split branch csubst: %w", err)
				}
				branches[i] = wireSplitBranch{Target: string(b.Target), CSubst: cj}
			}
			wire.Splits = append(wire.Splits, wireSplit{Source: string(v.SourceID), Branches: branches})
		case *NDBranch:
			targets := make([]string, len(v.TargetIDs))
			for i, t := range v.TargetIDs {
				targets[i] = string(t)
			}
			wire.NDBranches = append(wire.NDBranches, wireNDBranch{Source: string(v.SourceID), Targets: targets, Rules: v.Rules})
		case *Vacuous:
			// Already captured via the node's vacuous flag above.
		}
	}
	return json.MarshalIndent(wire, "", "  ")
}

// FromJSON reconstructs a CFG from the form produced by ToJSON.
func FromJSON(data []byte) (*CFG, error) {
	var wire wireCFG
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("cfg: decode: %w", err)
	}

	g := New()
	g.nextOrder = wire.Next

	flagged := map[string]string{}
	for _, id := range wire.Vacuous {
		flagged[id] = "vacuous"
	}
	for _, id := range wire.Stuck {
		flagged[id] = "stuck"
	}
	for _, id := range wire.Terminal {
		flagged[id] = "terminal"
	}
	expanded := map[string]bool{}
	for _, id := range wire.Expanded {
		expanded[id] = true
	}

	for i, wn := range wire.Nodes {
		ct, err := cterm.Decode(wn.CTerm)
		if err != nil {
			return nil, fmt.Errorf("cfg: decode node %s: %w", wn.ID, err)
		}
		n := newNode(ct)
		n.flags.admitted = wn.Admitted
		n.flags.bounded = wn.Bounded
		n.flags.expanded = expanded[wn.ID]
		switch flagged[wn.ID] {
		case "vacuous":
			n.flags.vacuous = true
		case "stuck":
			n.flags.stuck = true
		case "terminal":
			n.flags.terminal = true
		}
		g.nodes[NodeId(wn.ID)] = n
		g.predecessors[NodeId(wn.ID)] = map[NodeId]bool{}
		g.creationOrder[NodeId(wn.ID)] = i
	}

	for name, id := range wire.Aliases {
		g.aliases[name] = NodeId(id)
	}
	if wire.Init != "" {
		g.SetInit(NodeId(wire.Init))
	}
	if wire.Target != "" {
		g.SetTarget(NodeId(wire.Target))
	}

	for _, we := range wire.Edges {
		g.linkLocked(&Edge{SourceID: NodeId(we.Source), TargetID: NodeId(we.Target), Depth: we.Depth, Rules: we.Rules})
	}
	for _, wc := range wire.Covers {
		cs, err := cterm.DecodeCSubst(wc.CSubst)
		if err != nil {
			return nil, fmt.Errorf("cfg: decode cover csubst: %w", err)
		}
		g.linkLocked(&Cover{SourceID: NodeId(wc.Source), TargetID: NodeId(wc.Target), CSubst: cs})
	}
	for _, ws := range wire.Splits {
		branches := make([]SplitBranch, len(ws.Branches))
		for i, wb := range ws.Branches {
			cs, err := cterm.DecodeCSubst(wb.CSubst)
			if err != nil {
				return nil, fmt.Errorf("cfg: decode split branch csubst: %w", err)
			}
			branches[i] = SplitBranch{Target: NodeId(wb.Target), CSubst: cs}
		}
		g.linkLocked(&Split{SourceID: NodeId(ws.Source), Branches: branches})
	}
	for _, wb := range wire.NDBranches {
		targets := make([]NodeId, len(wb.Targets))
		for i, t := range wb.Targets {
			targets[i] = NodeId(t)
		}
		g.linkLocked(&NDBranch{SourceID: NodeId(wb.Source), TargetIDs: targets, Rules: wb.Rules})
	}

	return g, nil
}

// Save atomically writes the CFG's JSON form to path: write to a
// temporary file in the same directory, then rename over the destination,
// so a reader never observes a partially written file.
func (g *CFG) Save(path string) error {
	data, err := g.ToJSON()
	if err != nil {
		return fmt.Errorf("cfg: save: %w", err)
	}
	return atomicWrite(path, data)
}

// Load reads a CFG previously written by Save.
func Load(path string) (*CFG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cfg: load: %w", err)
	}
	return FromJSON(data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cfg-*.tmp")
	if err != nil {
		return fmt.Errorf("cfg: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cfg: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cfg: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("cfg: rename temp file into place: %w", err)
	}
	return nil
}

// SaveNodeFiles writes one JSON file per node under dir/nodes/<id>.json,
// each via the same atomic write-then-rename discipline. Every call
// rewrites every node's file; it does not track which nodes changed since
// the last call.
func (g *CFG) SaveNodeFiles(dir string) error {
	nodesDir := filepath.Join(dir, "nodes")
	if err := os.MkdirAll(nodesDir, 0o755); err != nil {
		return fmt.Errorf("cfg: create nodes directory: %w", err)
	}
	for _, n := range g.Nodes() {
		ctj, err := cterm.Encode(n.cterm)
		if err != nil {
			return fmt.Errorf("cfg: encode node %s: %w", n.id, err)
		}
		path := filepath.Join(nodesDir, string(n.id)+".json")
		if err := atomicWrite(path, ctj); err != nil {
			return err
		}
	}
	return nil
}
