package bf

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind is the type of a lexical token.
type TokenKind int

// Token kinds.
const (
	TokEOF TokenKind = iota
	TokIdent
	TokNot
	TokAnd
	TokOr
	TokXor
	TokTrue
	TokFalse
	TokLParen
	TokRParen
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdent:
		return "IDENT"
	case TokNot:
		return "NOT"
	case TokAnd:
		return "AND"
	case TokOr:
		return "OR"
	case TokXor:
		return "XOR"
	case TokTrue:
		return "TRUE"
	case TokFalse:
		return "FALSE"
	case TokLParen:
		return "("
	case TokRParen:
		return ")"
	default:
		return "UNKNOWN"
	}
}

// A Token is a lexical unit of an expression.
type Token struct {
	Kind   TokenKind
	Text   string // Text as it appeared in the input
	Offset int    // Byte offset of the first character
}

// A Dialect defines the concrete spellings of operators and constants.
// Symbols are matched literally, longest spelling first.
// Keywords are whole words and are matched case-insensitively; they must be given in lower case.
// Any other word is an identifier.
type Dialect struct {
	Symbols  map[string]TokenKind
	Keywords map[string]TokenKind
}

// DefaultDialect accepts the C-like, mathematical and word spellings of the operators.
var DefaultDialect = &Dialect{
	Symbols: map[string]TokenKind{
		"!": TokNot, "~": TokNot, "¬": TokNot,
		"&": TokAnd, "&&": TokAnd, "*": TokAnd, "∧": TokAnd, "·": TokAnd,
		"|": TokOr, "||": TokOr, "+": TokOr, "∨": TokOr,
		"^": TokXor, "⊕": TokXor,
		"1": TokTrue, "⊤": TokTrue,
		"0": TokFalse, "⊥": TokFalse,
		"(": TokLParen, ")": TokRParen,
	},
	Keywords: map[string]TokenKind{
		"not":   TokNot,
		"and":   TokAnd,
		"or":    TokOr,
		"xor":   TokXor,
		"true":  TokTrue,
		"false": TokFalse,
	},
}

// symbols returns the symbol spellings, longest first.
func (d *Dialect) symbols() []string {
	res := make([]string, 0, len(d.Symbols))
	for s := range d.Symbols {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool {
		if len(res[i]) != len(res[j]) {
			return len(res[i]) > len(res[j])
		}
		return res[i] < res[j]
	})
	return res
}

func isIdentStart(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && unicode.IsLetter(r))
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || ('0' <= r && r <= '9')
}

// IsIdentifier returns true iff name is a valid variable name that is not a keyword of d.
func IsIdentifier(name string, d *Dialect) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentChar(r) {
			return false
		}
	}
	_, isKeyword := d.Keywords[strings.ToLower(name)]
	return !isKeyword
}

// Tokenize splits s into tokens according to the dialect d.
// If d is nil, DefaultDialect is used.
// The last token is always a TokEOF token.
func Tokenize(s string, d *Dialect) ([]Token, error) {
	if d == nil {
		d = DefaultDialect
	}
	symbols := d.symbols()
	var tokens []Token
	pos := 0
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		switch {
		case unicode.IsSpace(r):
			pos += size
		case isIdentStart(r):
			end := pos + size
			for end < len(s) {
				r2, size2 := utf8.DecodeRuneInString(s[end:])
				if !isIdentChar(r2) {
					break
				}
				end += size2
			}
			word := s[pos:end]
			kind, ok := d.Keywords[strings.ToLower(word)]
			if !ok {
				kind = TokIdent
			}
			tokens = append(tokens, Token{Kind: kind, Text: word, Offset: pos})
			pos = end
		case '0' <= r && r <= '9':
			// A run of digits is one token: only runs spelled as a symbol are valid.
			end := pos + 1
			for end < len(s) && '0' <= s[end] && s[end] <= '9' {
				end++
			}
			run := s[pos:end]
			kind, ok := d.Symbols[run]
			if !ok {
				return nil, &LexicalError{Offset: pos, Char: run}
			}
			tokens = append(tokens, Token{Kind: kind, Text: run, Offset: pos})
			pos = end
		default:
			matched := false
			for _, sym := range symbols {
				if strings.HasPrefix(s[pos:], sym) {
					tokens = append(tokens, Token{Kind: d.Symbols[sym], Text: sym, Offset: pos})
					pos += len(sym)
					matched = true
					break
				}
			}
			if !matched {
				return nil, &LexicalError{Offset: pos, Char: string(r)}
			}
		}
	}
	tokens = append(tokens, Token{Kind: TokEOF, Offset: len(s)})
	return tokens, nil
}
