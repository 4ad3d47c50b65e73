/*
Package circuit models and evaluates combinational circuits made of logic gates.

A circuit is a directed acyclic graph of typed nodes. VARIABLE and INPUT nodes read a declared variable,
AND, OR and XOR gates have two input slots, NOT gates and OUTPUT nodes have one.
Every node but OUTPUT has a single output slot, numbered 0, that may feed any number of input slots.
Input slots are numbered from 0 and are fed by at most one wire.

Circuits are built in three steps: construct the nodes and wires (directly or by decoding a Scheme),
validate them with New, then evaluate the resulting Graph:

	g, err := circuit.New(nodes, wires, []string{"a", "b"})
	if err != nil {
		// *ArityError, *CycleError, ...
	}
	table, err := circuit.NewEvaluator(nil, circuit.DanglingFatal).Table(ctx, g)

An input slot left unwired is not a validation error: it is only reported, as a *DanglingInputError,
when evaluation needs its value.
*/
package circuit
