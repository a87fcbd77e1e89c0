package sexp

import (
	"strings"
	"unicode"

	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/tree"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenAtom
	tokenString
)

type token struct {
	kind tokenKind
	text string
	pos  tree.Pos
}

type comment struct {
	text string
	pos  tree.Pos
}

// lexer scans source text into tokens, collecting comments on the side for
// the directive scan.
type lexer struct {
	file     string
	src      []rune
	pos      int
	line     int
	col      int
	comments []comment
}

func newLexer(file, src string) *lexer {
	return &lexer{file: file, src: []rune(src), line: 1, col: 1}
}

func (l *lexer) at() tree.Pos {
	return tree.Pos{File: l.file, Line: l.line, Col: l.col}
}

func (l *lexer) advance() rune {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// skipSpace consumes whitespace and comments. Commas count as whitespace.
func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ';':
			l.scanComment()
		case c == ',' || unicode.IsSpace(c):
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) scanComment() {
	pos := l.at()
	var b strings.Builder
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		b.WriteRune(l.advance())
	}
	l.comments = append(l.comments, comment{text: b.String(), pos: pos})
}

func (l *lexer) next() (token, error) {
	l.skipSpace()

	pos := l.at()
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, pos: pos}, nil
	}

	switch l.src[l.pos] {
	case '(':
		l.advance()
		return token{kind: tokenLParen, text: "(", pos: pos}, nil
	case ')':
		l.advance()
		return token{kind: tokenRParen, text: ")", pos: pos}, nil
	case '[':
		l.advance()
		return token{kind: tokenLBracket, text: "[", pos: pos}, nil
	case ']':
		l.advance()
		return token{kind: tokenRBracket, text: "]", pos: pos}, nil
	case '"':
		return l.scanString()
	default:
		return l.scanAtom(), nil
	}
}

func (l *lexer) scanString() (token, error) {
	pos := l.at()
	l.advance() // opening quote

	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, errAt(diag.CodeParse, pos, "unterminated string")
		}
		c := l.advance()
		if c == '"' {
			return token{kind: tokenString, text: b.String(), pos: pos}, nil
		}
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		if l.pos >= len(l.src) {
			return token{}, errAt(diag.CodeParse, pos, "unterminated string")
		}
		switch esc := l.advance(); esc {
		case '"', '\\':
			b.WriteRune(esc)
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		default:
			return token{}, errAt(diag.CodeParse, pos, `unknown escape \%c in string`, esc)
		}
	}
}

func (l *lexer) scanAtom() token {
	pos := l.at()
	var b strings.Builder
	for l.pos < len(l.src) && !isDelimiter(l.src[l.pos]) {
		b.WriteRune(l.advance())
	}
	return token{kind: tokenAtom, text: b.String(), pos: pos}
}

func isDelimiter(c rune) bool {
	switch c {
	case '(', ')', '[', ']', '"', ';', ',':
		return true
	}
	return unicode.IsSpace(c)
}
