package shader

import (
	"strings"
	"unicode"
)

// The lexer is deliberately small: it understands identifiers, numbers,
// preprocessor directives, comments, and punctuation, which is enough to
// find precision declarations, #extension lines, and call sites. It is not
// a GLSL parser and never needs to be one.

// TokenKind classifies a lexed token.
type TokenKind uint8

const (
	TokenIdent TokenKind = iota
	TokenNumber
	TokenDirective // whole preprocessor line, including the leading '#'
	TokenPunct
)

// Token is one lexed source element.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int // byte offset into the source
	Line int // 1-based
}

// lex tokenizes GLSL-ish source. Comments and whitespace are skipped;
// preprocessor directives are returned as single tokens spanning the line.
func lex(src string) []Token {
	var toks []Token
	line := 1
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				if src[i] == '\n' {
					line++
				}
				i++
			}
			i += 2
		case c == '#':
			start := i
			for i < n && src[i] != '\n' {
				i++
			}
			toks = append(toks, Token{Kind: TokenDirective, Text: strings.TrimRight(src[start:i], "\r"), Pos: start, Line: line})
		case isIdentStart(rune(c)):
			start := i
			for i < n && isIdentPart(rune(src[i])) {
				i++
			}
			toks = append(toks, Token{Kind: TokenIdent, Text: src[start:i], Pos: start, Line: line})
		case c >= '0' && c <= '9' || (c == '.' && i+1 < n && src[i+1] >= '0' && src[i+1] <= '9'):
			start := i
			for i < n && isNumberPart(src[i]) {
				i++
			}
			toks = append(toks, Token{Kind: TokenNumber, Text: src[start:i], Pos: start, Line: line})
		default:
			toks = append(toks, Token{Kind: TokenPunct, Text: string(c), Pos: i, Line: line})
			i++
		}
	}
	return toks
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isNumberPart(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == 'e' || c == 'E' || c == 'x' || c == 'X':
		return true
	case c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F':
		// hex digits and float suffixes share this range
		return true
	case c == 'u' || c == 'U' || c == '+' || c == '-':
		// exponent signs only follow e/E, but over-matching here is
		// harmless for the rewrites we do
		return false
	default:
		return false
	}
}
