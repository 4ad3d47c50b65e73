package circuit

import (
	"encoding/json"
	"fmt"
	"io"
)

// A Scheme is the serialized form of a circuit, as sent by the circuit editor.
type Scheme struct {
	Nodes []SchemeNode `json:"nodes" yaml:"nodes"`
	Wires []SchemeWire `json:"wires" yaml:"wires"`
}

// A SchemeNode is a serialized node.
type SchemeNode struct {
	ID       string `json:"id" yaml:"id"`
	Kind     string `json:"kind" yaml:"kind"`
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
	Inputs   *int   `json:"inputs,omitempty" yaml:"inputs,omitempty"`
}

// A SchemeWire is a serialized wire.
type SchemeWire struct {
	SourceNodeID string `json:"sourceNodeId" yaml:"sourceNodeId"`
	SourceSlot   int    `json:"sourceSlot" yaml:"sourceSlot"`
	TargetNodeID string `json:"targetNodeId" yaml:"targetNodeId"`
	TargetSlot   int    `json:"targetSlot" yaml:"targetSlot"`
}

// DecodeScheme reads a JSON scheme from r.
func DecodeScheme(r io.Reader) (*Scheme, error) {
	var s Scheme
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode scheme: %w", err)
	}
	return &s, nil
}

// Graph validates the scheme and returns the corresponding graph.
// An unknown node kind yields a *SchemeError. See New for the other checks.
func (s *Scheme) Graph(variables []string) (*Graph, error) {
	nodes := make([]Node, len(s.Nodes))
	for i, sn := range s.Nodes {
		kind, ok := ParseKind(sn.Kind)
		if !ok {
			return nil, &SchemeError{NodeID: sn.ID, Msg: fmt.Sprintf("unknown kind %q", sn.Kind)}
		}
		nodes[i] = Node{ID: sn.ID, Kind: kind, Variable: sn.Variable, Inputs: sn.Inputs}
	}
	wires := make([]Wire, len(s.Wires))
	for i, sw := range s.Wires {
		wires[i] = Wire{
			Source:     sw.SourceNodeID,
			SourceSlot: sw.SourceSlot,
			Target:     sw.TargetNodeID,
			TargetSlot: sw.TargetSlot,
		}
	}
	return New(nodes, wires, variables)
}

// Scheme returns the serialized form of g.
func (g *Graph) Scheme() *Scheme {
	s := &Scheme{Nodes: make([]SchemeNode, len(g.nodes))}
	for i, n := range g.nodes {
		s.Nodes[i] = SchemeNode{ID: n.ID, Kind: n.Kind.String(), Variable: n.Variable, Inputs: n.Inputs}
	}
	for _, ws := range g.inputs {
		for _, w := range ws {
			if w != nil {
				s.Wires = append(s.Wires, SchemeWire{
					SourceNodeID: w.Source,
					SourceSlot:   w.SourceSlot,
					TargetNodeID: w.Target,
					TargetSlot:   w.TargetSlot,
				})
			}
		}
	}
	return s
}
