package circuit

import (
	"fmt"
	"strings"
)

// A SchemeError is returned for a structurally broken scheme:
// an empty or duplicate node id, an unknown kind, a wire to a missing node.
type SchemeError struct {
	NodeID string
	Msg    string
}

func (e *SchemeError) Error() string {
	if e.NodeID == "" {
		return "invalid scheme: " + e.Msg
	}
	return fmt.Sprintf("invalid scheme: node %q: %s", e.NodeID, e.Msg)
}

// Kind returns the name of the error kind.
func (e *SchemeError) Kind() string { return "SchemeError" }

// An ArityError is returned when a node declares a number of inputs that differs from
// the arity of its kind, or when a wire uses a slot the node does not have.
type ArityError struct {
	NodeID   string
	NodeKind Kind
	Slot     int // Offending slot, -1 for a declared input count
	Msg      string
}

func (e *ArityError) Error() string {
	if e.Slot < 0 {
		return fmt.Sprintf("node %q (%s): %s", e.NodeID, e.NodeKind, e.Msg)
	}
	return fmt.Sprintf("node %q (%s), slot %d: %s", e.NodeID, e.NodeKind, e.Slot, e.Msg)
}

// Kind returns the name of the error kind.
func (e *ArityError) Kind() string { return "ArityError" }

// An UnboundVariableError is returned when a node reads no variable, or one that was not declared.
type UnboundVariableError struct {
	NodeID   string
	Variable string // Empty when the node names no variable
}

func (e *UnboundVariableError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("node %q is bound to no variable", e.NodeID)
	}
	return fmt.Sprintf("node %q reads undeclared variable %q", e.NodeID, e.Variable)
}

// Kind returns the name of the error kind.
func (e *UnboundVariableError) Kind() string { return "UnboundVariableError" }

// A SelfLoopError is returned for a wire whose source is its target.
type SelfLoopError struct {
	NodeID string
}

func (e *SelfLoopError) Error() string {
	return fmt.Sprintf("node %q is wired to itself", e.NodeID)
}

// Kind returns the name of the error kind.
func (e *SelfLoopError) Kind() string { return "SelfLoopError" }

// A DuplicateWireError is returned for a wire that repeats another one,
// or that targets an input slot that is already wired.
type DuplicateWireError struct {
	Wire     Wire
	Occupied bool // true if the target slot holds a different wire
}

func (e *DuplicateWireError) Error() string {
	if e.Occupied {
		return fmt.Sprintf("wire %s: input slot %d of node %q is already wired", e.Wire, e.Wire.TargetSlot, e.Wire.Target)
	}
	return fmt.Sprintf("duplicate wire %s", e.Wire)
}

// Kind returns the name of the error kind.
func (e *DuplicateWireError) Kind() string { return "DuplicateWireError" }

// A CycleError is returned when the wires form a cycle.
type CycleError struct {
	Path []string // Node ids along the cycle, the first one repeated at the end
}

func (e *CycleError) Error() string {
	return "cycle: " + strings.Join(e.Path, " -> ")
}

// Kind returns the name of the error kind.
func (e *CycleError) Kind() string { return "CycleError" }

// A DanglingInputError is returned during evaluation when a value is needed from an input slot
// that no wire feeds.
type DanglingInputError struct {
	NodeID string
	Slot   int
	Row    int // Truth table row being evaluated, -1 outside a table
}

func (e *DanglingInputError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("input slot %d of node %q is not wired", e.Slot, e.NodeID)
	}
	return fmt.Sprintf("input slot %d of node %q is not wired (row %d)", e.Slot, e.NodeID, e.Row)
}

// Kind returns the name of the error kind.
func (e *DanglingInputError) Kind() string { return "DanglingInputError" }
