package bf

import (
	"unicode"
	"unicode/utf8"
)

type parser struct {
	tokens   []Token
	pos      int
	declared map[string]bool
}

// Parse parses the formula expr in the default dialect.
// Every identifier in expr must be one of variables, with the exact same case.
//
// Formulas are written using the following operators (from highest to lowest priority):
//
// - for a negation, the "NOT" unary operator (also "!", "~" or "¬"),
// - for a conjunction, the "AND" operator (also "&", "&&", "*" or "∧"),
// - for an exclusive or, the "XOR" operator (also "^" or "⊕"),
// - for a disjunction, the "OR" operator (also "|", "||", "+" or "∨").
//
// Binary operators are left-associative. Parentheses can be used to group subformulas.
// The constants are written "TRUE" and "FALSE" (also "1" and "0").
func Parse(expr string, variables []string) (Formula, error) {
	return ParseDialect(expr, variables, DefaultDialect)
}

// ParseDialect is like Parse, but recognizes the operators of the dialect d.
func ParseDialect(expr string, variables []string, d *Dialect) (Formula, error) {
	tokens, err := Tokenize(expr, d)
	if err != nil {
		return nil, err
	}
	p := parser{tokens: tokens, declared: make(map[string]bool, len(variables))}
	for _, v := range variables {
		p.declared[v] = true
	}
	if p.peek().Kind == TokEOF {
		return nil, &SyntaxError{Offset: p.peek().Offset, Msg: "expected expression, found end of input"}
	}
	f, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokEOF {
		if tok.Kind == TokRParen {
			return nil, &SyntaxError{Offset: tok.Offset, Token: tok.Text, Msg: "unbalanced closing parenthesis"}
		}
		return nil, &SyntaxError{Offset: tok.Offset, Token: tok.Text, Msg: "expected operator or end of input"}
	}
	return f, nil
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr() (Formula, error) {
	f, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokOr {
		p.next()
		f2, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		f = Disjunction{L: f, R: f2}
	}
	return f, nil
}

func (p *parser) parseXor() (Formula, error) {
	f, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokXor {
		p.next()
		f2, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		f = ExclusiveOr{L: f, R: f2}
	}
	return f, nil
}

func (p *parser) parseAnd() (Formula, error) {
	f, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokAnd {
		p.next()
		f2, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		f = Conjunction{L: f, R: f2}
	}
	return f, nil
}

func (p *parser) parseNot() (Formula, error) {
	if p.peek().Kind == TokNot {
		p.next()
		f, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return Negation{X: f}, nil
	}
	return p.parseBasic()
}

func (p *parser) parseBasic() (Formula, error) {
	tok := p.next()
	switch tok.Kind {
	case TokIdent:
		if !p.declared[tok.Text] {
			return nil, &UnknownIdentifierError{Name: tok.Text, Offset: tok.Offset}
		}
		return Variable{Name: tok.Text}, nil
	case TokTrue:
		return True, nil
	case TokFalse:
		return False, nil
	case TokLParen:
		f, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.Kind != TokRParen {
			if closing.Kind == TokEOF {
				return nil, &SyntaxError{Offset: tok.Offset, Token: tok.Text, Msg: "unbalanced opening parenthesis"}
			}
			return nil, &SyntaxError{Offset: closing.Offset, Token: closing.Text, Msg: "expected closing parenthesis"}
		}
		return f, nil
	case TokEOF:
		return nil, &SyntaxError{Offset: tok.Offset, Msg: "expected operand, found end of input"}
	default:
		return nil, &SyntaxError{Offset: tok.Offset, Token: tok.Text, Msg: "expected operand"}
	}
}

// ParseVariables parses a declaration list such as "a, b, c".
// Names are separated by commas and/or white space.
// Invalid names are reported as *LexicalError, repeated names as *SyntaxError.
func ParseVariables(s string) ([]string, error) {
	var res []string
	seen := make(map[string]bool)
	pos := 0
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == ',' || unicode.IsSpace(r) {
			pos += size
			continue
		}
		end := pos
		for end < len(s) {
			r2, size2 := utf8.DecodeRuneInString(s[end:])
			if r2 == ',' || unicode.IsSpace(r2) {
				break
			}
			end += size2
		}
		name := s[pos:end]
		if !IsIdentifier(name, DefaultDialect) {
			return nil, &LexicalError{Offset: pos, Char: name}
		}
		if seen[name] {
			return nil, &SyntaxError{Offset: pos, Token: name, Msg: "duplicate variable"}
		}
		seen[name] = true
		res = append(res, name)
		pos = end
	}
	return res, nil
}

// CheckVariables checks that variables is a list of valid, distinct names.
// In the returned *SyntaxError, Offset is the index of the faulty name in the list.
func CheckVariables(variables []string) error {
	seen := make(map[string]bool, len(variables))
	for i, name := range variables {
		if !IsIdentifier(name, DefaultDialect) {
			return &SyntaxError{Offset: i, Token: name, Msg: "invalid variable name"}
		}
		if seen[name] {
			return &SyntaxError{Offset: i, Token: name, Msg: "duplicate variable"}
		}
		seen[name] = true
	}
	return nil
}
