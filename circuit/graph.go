package circuit

import (
	"fmt"

	"github.com/crillab/booltrainer/bf"
)

// A Node is a gate, a variable reader or an output of a circuit.
type Node struct {
	ID       string
	Kind     Kind
	Variable string // Variable read by a VARIABLE or INPUT node
	Inputs   *int   // Declared number of input slots, nil to use the arity of Kind
}

// name returns the variable read by the node, if any.
func (n Node) name() string {
	if n.Kind == InputNode && n.Variable == "" {
		return n.ID
	}
	return n.Variable
}

// A Wire links the output slot of a node to an input slot of another one.
type Wire struct {
	Source     string
	SourceSlot int
	Target     string
	TargetSlot int
}

func (w Wire) String() string {
	return fmt.Sprintf("%s:%d->%s:%d", w.Source, w.SourceSlot, w.Target, w.TargetSlot)
}

// An Input describes an input slot of a node.
type Input struct {
	Slot  int
	Wired bool
	Wire  Wire // Feeding wire, meaningful only when Wired is true
}

// A Graph is a validated, acyclic circuit.
// It is immutable once built, and safe for concurrent use.
type Graph struct {
	nodes     []Node
	index     map[string]int // Position of each node in nodes
	inputs    [][]*Wire      // For each node, the wire of each input slot, nil when unwired
	outputs   [][]Wire       // For each node, the wires leaving it
	variables []string       // Declared variables
	order     []int          // Topological order
	outputIDs []string       // Ids of the OUTPUT nodes, in declaration order
	rank      []int          // Position of each OUTPUT node in outputIDs
}

// New validates the circuit made of nodes and wires, whose VARIABLE and INPUT nodes read variables.
// The checks happen in this order, and the first failing one is reported:
// structure (*SchemeError), slot counts (*ArityError), variables (*UnboundVariableError),
// self loops (*SelfLoopError), repeated wires (*DuplicateWireError) and cycles (*CycleError).
// Unwired input slots are not an error here: they are only detected when a value is read from them.
func New(nodes []Node, wires []Wire, variables []string) (*Graph, error) {
	if err := bf.CheckVariables(variables); err != nil {
		return nil, err
	}
	g := &Graph{
		nodes:     append([]Node(nil), nodes...),
		index:     make(map[string]int, len(nodes)),
		variables: append([]string(nil), variables...),
	}
	for i, n := range g.nodes {
		if n.ID == "" {
			return nil, &SchemeError{Msg: fmt.Sprintf("node #%d has no id", i)}
		}
		if _, ok := g.index[n.ID]; ok {
			return nil, &SchemeError{NodeID: n.ID, Msg: "duplicate node id"}
		}
		if !n.Kind.valid() {
			return nil, &SchemeError{NodeID: n.ID, Msg: fmt.Sprintf("unknown kind %d", n.Kind)}
		}
		g.index[n.ID] = i
	}
	for _, w := range wires {
		if _, ok := g.index[w.Source]; !ok {
			return nil, &SchemeError{NodeID: w.Source, Msg: fmt.Sprintf("wire %s starts from a missing node", w)}
		}
		if _, ok := g.index[w.Target]; !ok {
			return nil, &SchemeError{NodeID: w.Target, Msg: fmt.Sprintf("wire %s ends on a missing node", w)}
		}
	}
	if err := g.checkArity(wires); err != nil {
		return nil, err
	}
	if err := g.checkVariables(); err != nil {
		return nil, err
	}
	for _, w := range wires {
		if w.Source == w.Target {
			return nil, &SelfLoopError{NodeID: w.Source}
		}
	}
	if err := g.connect(wires); err != nil {
		return nil, err
	}
	if err := g.checkCycles(); err != nil {
		return nil, err
	}
	g.order = g.sort()
	g.rank = make([]int, len(g.nodes))
	for i, n := range g.nodes {
		g.rank[i] = -1
		if n.Kind == OutputNode {
			g.rank[i] = len(g.outputIDs)
			g.outputIDs = append(g.outputIDs, n.ID)
		}
	}
	return g, nil
}

func (g *Graph) checkArity(wires []Wire) error {
	for _, n := range g.nodes {
		if n.Inputs != nil && *n.Inputs != n.Kind.Arity() {
			return &ArityError{
				NodeID:   n.ID,
				NodeKind: n.Kind,
				Slot:     -1,
				Msg:      fmt.Sprintf("declares %d inputs, expected %d", *n.Inputs, n.Kind.Arity()),
			}
		}
	}
	for _, w := range wires {
		src := g.nodes[g.index[w.Source]]
		if !src.Kind.HasOutput() {
			return &ArityError{NodeID: src.ID, NodeKind: src.Kind, Slot: w.SourceSlot, Msg: "node has no output slot"}
		}
		if w.SourceSlot != 0 {
			return &ArityError{NodeID: src.ID, NodeKind: src.Kind, Slot: w.SourceSlot, Msg: "no such output slot"}
		}
		dst := g.nodes[g.index[w.Target]]
		if w.TargetSlot < 0 || w.TargetSlot >= dst.Kind.Arity() {
			return &ArityError{
				NodeID:   dst.ID,
				NodeKind: dst.Kind,
				Slot:     w.TargetSlot,
				Msg:      fmt.Sprintf("no such input slot, node has %d", dst.Kind.Arity()),
			}
		}
	}
	return nil
}

func (g *Graph) checkVariables() error {
	declared := make(map[string]bool, len(g.variables))
	for _, v := range g.variables {
		declared[v] = true
	}
	for _, n := range g.nodes {
		if !n.Kind.reads() {
			continue
		}
		name := n.name()
		if name == "" || !declared[name] {
			return &UnboundVariableError{NodeID: n.ID, Variable: name}
		}
	}
	return nil
}

// connect indexes the wires by their endpoints.
func (g *Graph) connect(wires []Wire) error {
	g.inputs = make([][]*Wire, len(g.nodes))
	g.outputs = make([][]Wire, len(g.nodes))
	for i, n := range g.nodes {
		g.inputs[i] = make([]*Wire, n.Kind.Arity())
	}
	for i := range wires {
		w := wires[i]
		dst := g.index[w.Target]
		if prev := g.inputs[dst][w.TargetSlot]; prev != nil {
			return &DuplicateWireError{Wire: w, Occupied: *prev != w}
		}
		g.inputs[dst][w.TargetSlot] = &w
		src := g.index[w.Source]
		g.outputs[src] = append(g.outputs[src], w)
	}
	return nil
}

// checkCycles runs a depth-first search, keeping the nodes of the current path on a stack.
func (g *Graph) checkCycles() error {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make([]int, len(g.nodes))
	var stack []int
	var visit func(i int) error
	visit = func(i int) error {
		state[i] = onStack
		stack = append(stack, i)
		for _, w := range g.outputs[i] {
			next := g.index[w.Target]
			switch state[next] {
			case onStack:
				var path []string
				for k := len(stack) - 1; k >= 0; k-- {
					if stack[k] == next {
						for _, j := range stack[k:] {
							path = append(path, g.nodes[j].ID)
						}
						break
					}
				}
				return &CycleError{Path: append(path, g.nodes[next].ID)}
			case unvisited:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		return nil
	}
	for i := range g.nodes {
		if state[i] == unvisited {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// sort returns a topological order of the nodes, following Kahn's algorithm.
// Among ready nodes, the one declared first comes first.
func (g *Graph) sort() []int {
	degree := make([]int, len(g.nodes))
	for i := range g.nodes {
		for _, w := range g.inputs[i] {
			if w != nil {
				degree[i]++
			}
		}
	}
	var queue []int
	for i, d := range degree {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	order := make([]int, 0, len(g.nodes))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		for _, w := range g.outputs[i] {
			next := g.index[w.Target]
			degree[next]--
			if degree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return order
}

// Nodes returns the nodes of g, in declaration order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Variables returns the declared variables of g.
func (g *Graph) Variables() []string {
	return append([]string(nil), g.variables...)
}

// Outputs returns the ids of the OUTPUT nodes of g, in declaration order.
func (g *Graph) Outputs() []string {
	return append([]string(nil), g.outputIDs...)
}

// InputsOf returns the input slots of the node with the given id, or nil if there is no such node.
func (g *Graph) InputsOf(id string) []Input {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	res := make([]Input, len(g.inputs[i]))
	for slot, w := range g.inputs[i] {
		res[slot] = Input{Slot: slot}
		if w != nil {
			res[slot].Wired = true
			res[slot].Wire = *w
		}
	}
	return res
}

// OutputsOf returns the wires leaving the node with the given id.
func (g *Graph) OutputsOf(id string) []Wire {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return append([]Wire(nil), g.outputs[i]...)
}

// Order returns the node ids in a topological order: every node comes after the nodes it reads from.
func (g *Graph) Order() []string {
	res := make([]string, len(g.order))
	for k, i := range g.order {
		res[k] = g.nodes[i].ID
	}
	return res
}
