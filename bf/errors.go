package bf

import "fmt"

// A LexicalError is returned when the input contains a character that starts no token.
type LexicalError struct {
	Offset int    // Byte offset of the offending character
	Char   string // The offending character, or character run
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("unexpected character %q at offset %d", e.Char, e.Offset)
}

// Kind returns the name of the error kind.
func (e *LexicalError) Kind() string { return "LexicalError" }

// A SyntaxError is returned when the token sequence is not a well-formed expression:
// unbalanced parentheses, a missing operand, trailing tokens or an empty input.
// It is also used for malformed variable declarations.
type SyntaxError struct {
	Offset int    // Byte offset of the token where the error was detected
	Token  string // Text of that token, empty at end of input
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
	}
	return fmt.Sprintf("%s: found %q at offset %d", e.Msg, e.Token, e.Offset)
}

// Kind returns the name of the error kind.
func (e *SyntaxError) Kind() string { return "SyntaxError" }

// An UnknownIdentifierError is returned when an expression references a name
// that is not part of the declared variables.
type UnknownIdentifierError struct {
	Name   string
	Offset int // Byte offset in the expression, -1 when the formula was not parsed from text
}

func (e *UnknownIdentifierError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("unknown identifier %q", e.Name)
	}
	return fmt.Sprintf("unknown identifier %q at offset %d", e.Name, e.Offset)
}

// Kind returns the name of the error kind.
func (e *UnknownIdentifierError) Kind() string { return "UnknownIdentifierError" }
