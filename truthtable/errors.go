package truthtable

import "fmt"

// A TooManyVariablesError is returned, before any enumeration, when a table
// would have more variables than the generator allows.
type TooManyVariablesError struct {
	Count int // Number of declared variables
	Max   int // Configured maximum
}

func (e *TooManyVariablesError) Error() string {
	return fmt.Sprintf("too many variables: %d declared, at most %d allowed", e.Count, e.Max)
}

// Kind returns the name of the error kind.
func (e *TooManyVariablesError) Kind() string { return "TooManyVariablesError" }

// An EmptyVariableSetError is returned when no variable is declared for a formula that is not constant.
type EmptyVariableSetError struct {
	Referenced []string // Variables referenced by the formula
}

func (e *EmptyVariableSetError) Error() string {
	return fmt.Sprintf("no variable declared, but the expression references %v", e.Referenced)
}

// Kind returns the name of the error kind.
func (e *EmptyVariableSetError) Kind() string { return "EmptyVariableSetError" }
