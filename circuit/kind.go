package circuit

import "strings"

// Kind is the kind of a circuit node.
type Kind int

// Node kinds.
const (
	VariableNode Kind = iota // Reads a declared variable
	InputNode                // Reads the variable it is bound to, or the one named after its id
	OutputNode               // Exposes the value wired to its single input
	AndGate
	OrGate
	XorGate
	NotGate
)

var kindNames = [...]string{
	VariableNode: "VARIABLE",
	InputNode:    "INPUT",
	OutputNode:   "OUTPUT",
	AndGate:      "AND",
	OrGate:       "OR",
	XorGate:      "XOR",
	NotGate:      "NOT",
}

func (k Kind) String() string {
	if !k.valid() {
		return "UNKNOWN"
	}
	return kindNames[k]
}

func (k Kind) valid() bool {
	return k >= VariableNode && k <= NotGate
}

// ParseKind returns the kind named s, ignoring case.
func ParseKind(s string) (Kind, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == up {
			return Kind(k), true
		}
	}
	return 0, false
}

// Arity returns the number of input slots of the kind.
func (k Kind) Arity() int {
	switch k {
	case AndGate, OrGate, XorGate:
		return 2
	case NotGate, OutputNode:
		return 1
	default:
		return 0
	}
}

// HasOutput returns true iff nodes of that kind have an output slot.
func (k Kind) HasOutput() bool {
	return k != OutputNode
}

// reads returns true iff nodes of that kind read a variable.
func (k Kind) reads() bool {
	return k == VariableNode || k == InputNode
}
