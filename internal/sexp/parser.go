package sexp

import (
	"strconv"
	"strings"

	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

// parser is a recursive-descent reader over a one-token lookahead.
type parser struct {
	lex      *lexer
	tok      token
	maxDepth int
}

func newParser(lex *lexer, maxDepth int) (*parser, error) {
	p := &parser{lex: lex, maxDepth: maxDepth}
	return p, p.next()
}

func (p *parser) next() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) parseProgram() ([]tree.Node, error) {
	var forms []tree.Node
	for p.tok.kind != tokenEOF {
		n, err := p.parseForm(0)
		if err != nil {
			return nil, err
		}
		forms = append(forms, n)
	}
	return forms, nil
}

func (p *parser) parseForm(depth int) (tree.Node, error) {
	if depth > p.maxDepth {
		return nil, errAt(diag.CodeParse, p.tok.pos, "nesting exceeds %d levels", p.maxDepth)
	}

	tok := p.tok
	switch tok.kind {
	case tokenLParen:
		return p.parseList(depth)
	case tokenLBracket:
		return p.parseVec(depth)
	case tokenString:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &tree.Lit{Value: tok.text, At: tok.pos}, nil
	case tokenAtom:
		if err := p.next(); err != nil {
			return nil, err
		}
		return atomNode(tok)
	case tokenRParen:
		return nil, errAt(diag.CodeParse, tok.pos, "unexpected )")
	case tokenRBracket:
		return nil, errAt(diag.CodeParse, tok.pos, "unexpected ]")
	default:
		return nil, errAt(diag.CodeParse, tok.pos, "unexpected end of input")
	}
}

func (p *parser) parseList(depth int) (tree.Node, error) {
	open := p.tok.pos
	if err := p.next(); err != nil {
		return nil, err
	}

	var items []tree.Node
	for p.tok.kind != tokenRParen {
		if p.tok.kind == tokenEOF {
			return nil, errAt(diag.CodeParse, open, "unclosed (")
		}
		item, err := p.parseForm(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return buildList(open, items)
}

func (p *parser) parseVec(depth int) (tree.Node, error) {
	open := p.tok.pos
	if err := p.next(); err != nil {
		return nil, err
	}

	var items []tree.Node
	for p.tok.kind != tokenRBracket {
		if p.tok.kind == tokenEOF {
			return nil, errAt(diag.CodeParse, open, "unclosed [")
		}
		item, err := p.parseForm(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return &tree.Vec{Items: items, At: open}, nil
}

// specialForms maps the control-form heads recognized at read time to their
// shape-checking builders. Every other list parses as a generic List.
var specialForms = map[string]func(tree.Pos, []tree.Node) (tree.Node, error){
	"do":     buildDo,
	"let":    buildLet,
	"if":     buildIf,
	"select": buildSelect,
}

func buildList(open tree.Pos, items []tree.Node) (tree.Node, error) {
	if len(items) > 0 {
		if head, ok := items[0].(*tree.Ident); ok {
			if build, ok := specialForms[head.Name]; ok {
				return build(open, items[1:])
			}
		}
	}
	return &tree.List{Items: items, At: open}, nil
}

func buildDo(open tree.Pos, rest []tree.Node) (tree.Node, error) {
	if len(rest) == 0 {
		return nil, errAt(diag.CodeMalformed, open, "do expects at least one expression")
	}
	return &tree.Seq{Items: rest, At: open}, nil
}

func buildLet(open tree.Pos, rest []tree.Node) (tree.Node, error) {
	if len(rest) == 0 {
		return nil, errAt(diag.CodeMalformed, open, "let expects a binding vector")
	}
	vec, ok := rest[0].(*tree.Vec)
	if !ok {
		return nil, errAt(diag.CodeMalformed, rest[0].Pos(), "let expects a binding vector, got %s", rest[0])
	}
	if len(vec.Items)%2 != 0 {
		return nil, errAt(diag.CodeMalformed, vec.Pos(), "let binding vector expects an even number of forms, got %d", len(vec.Items))
	}

	binds := make([]tree.Bind, 0, len(vec.Items)/2)
	for i := 0; i < len(vec.Items); i += 2 {
		binds = append(binds, tree.Bind{Pattern: vec.Items[i], Value: vec.Items[i+1]})
	}
	return &tree.Let{Binds: binds, Body: rest[1:], At: open}, nil
}

func buildIf(open tree.Pos, rest []tree.Node) (tree.Node, error) {
	if len(rest) != 3 {
		return nil, errAt(diag.CodeMalformed, open, "if expects 3 sub-expressions, got %d", len(rest))
	}
	return &tree.If{Cond: rest[0], Then: rest[1], Else: rest[2], At: open}, nil
}

func buildSelect(open tree.Pos, rest []tree.Node) (tree.Node, error) {
	if len(rest) == 0 {
		return nil, errAt(diag.CodeMalformed, open, "select expects a chooser vector")
	}
	vec, ok := rest[0].(*tree.Vec)
	if !ok {
		return nil, errAt(diag.CodeMalformed, rest[0].Pos(), "select expects a chooser vector, got %s", rest[0])
	}
	if len(vec.Items) == 0 {
		return nil, errAt(diag.CodeMalformed, vec.Pos(), "select expects at least one chooser")
	}
	if len(rest) == 1 {
		return nil, errAt(diag.CodeMalformed, open, "select expects a body")
	}
	return &tree.Select{Choosers: vec.Items, Body: rest[1:], At: open}, nil
}

// atomNode classifies an atom token into a literal, identifier, or
// role-qualified identifier.
func atomNode(tok token) (tree.Node, error) {
	text := tok.text
	switch text {
	case "true":
		return &tree.Lit{Value: true, At: tok.pos}, nil
	case "false":
		return &tree.Lit{Value: false, At: tok.pos}, nil
	case "nil":
		return &tree.Lit{Value: nil, At: tok.pos}, nil
	}

	if looksNumeric(text) {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return &tree.Lit{Value: i, At: tok.pos}, nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return &tree.Lit{Value: f, At: tok.pos}, nil
		}
		return nil, errAt(diag.CodeParse, tok.pos, "malformed number %q", text)
	}

	if strings.HasPrefix(text, ":") {
		if len(text) == 1 {
			return nil, errAt(diag.CodeParse, tok.pos, "empty keyword")
		}
		return &tree.Lit{Value: tree.Keyword(text[1:]), At: tok.pos}, nil
	}

	if strings.Contains(text, ".") {
		return qualNode(tok)
	}
	return &tree.Ident{Name: text, At: tok.pos}, nil
}

func looksNumeric(text string) bool {
	c := text[0]
	if c >= '0' && c <= '9' {
		return true
	}
	if (c == '+' || c == '-') && len(text) > 1 {
		d := text[1]
		return d >= '0' && d <= '9' || d == '.'
	}
	return false
}

// qualNode splits a dotted symbol into role and name. Exactly one dot with
// nonempty halves; anything else is unreadable.
func qualNode(tok token) (tree.Node, error) {
	parts := strings.Split(tok.text, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errAt(diag.CodeParse, tok.pos, "malformed qualified symbol %q", tok.text)
	}
	if c := parts[1][0]; c >= '0' && c <= '9' {
		return nil, errAt(diag.CodeParse, tok.pos, "malformed qualified symbol %q", tok.text)
	}
	return &tree.Qual{Role: role.Role(parts[0]), Name: parts[1], At: tok.pos}, nil
}
