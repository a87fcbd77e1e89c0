package sexp

import (
	"errors"
	"strings"
	"testing"

	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/tree"
)

func parseOne(t *testing.T, src string) tree.Node {
	t.Helper()
	res, err := Parse("test.klor", src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	if len(res.Forms) != 1 {
		t.Fatalf("Parse(%q) returned %d forms, want 1", src, len(res.Forms))
	}
	return res.Forms[0]
}

func TestParseForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // surface rendering of the single parsed form
	}{
		{name: "symbol", src: "x", want: "x"},
		{name: "operator symbol", src: "+", want: "+"},
		{name: "qualified symbol", src: "Ana.x", want: "Ana.x"},
		{name: "integer", src: "42", want: "42"},
		{name: "negative integer", src: "-7", want: "-7"},
		{name: "float", src: "1.5", want: "1.5"},
		{name: "string", src: `"hi\n"`, want: `"hi\n"`},
		{name: "keyword", src: ":ok", want: ":ok"},
		{name: "booleans and nil", src: "(f true false nil)", want: "(f true false nil)"},
		{name: "application", src: "(f x y)", want: "(f x y)"},
		{name: "empty list", src: "()", want: "()"},
		{name: "role form stays a list", src: "(Ana x)", want: "(Ana x)"},
		{name: "vector", src: "[x y]", want: "[x y]"},
		{name: "do", src: "(do x y)", want: "(do x y)"},
		{name: "let", src: "(let [x 1 y 2] (+ x y))", want: "(let [x 1 y 2] (+ x y))"},
		{name: "let empty bindings", src: "(let [] x)", want: "(let [] x)"},
		{name: "if", src: "(if c t e)", want: "(if c t e)"},
		{name: "select", src: "(select [Ana.ok] react)", want: "(select [Ana.ok] react)"},
		{name: "commas are whitespace", src: "(let [x 1, y 2] x)", want: "(let [x 1 y 2] x)"},
		{name: "comment skipped", src: "; greeting\n(f x)", want: "(f x)"},
		{name: "nested", src: "(do (if c (Ana x) Bob.y))", want: "(do (if c (Ana x) Bob.y))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseOne(t, tt.src).String(); got != tt.want {
				t.Errorf("parsed %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseShapes(t *testing.T) {
	if _, ok := parseOne(t, "(do x)").(*tree.Seq); !ok {
		t.Errorf("(do x) did not parse as *tree.Seq")
	}
	if _, ok := parseOne(t, "(f x)").(*tree.List); !ok {
		t.Errorf("(f x) did not parse as *tree.List")
	}

	n := parseOne(t, "(let [[a b] Ana.pair] a)")
	let, ok := n.(*tree.Let)
	if !ok {
		t.Fatalf("let did not parse as *tree.Let, got %T", n)
	}
	if len(let.Binds) != 1 {
		t.Fatalf("let has %d bindings, want 1", len(let.Binds))
	}
	if _, ok := let.Binds[0].Pattern.(*tree.Vec); !ok {
		t.Errorf("destructuring pattern is %T, want *tree.Vec", let.Binds[0].Pattern)
	}
	if _, ok := let.Binds[0].Value.(*tree.Qual); !ok {
		t.Errorf("binding value is %T, want *tree.Qual", let.Binds[0].Value)
	}
}

func TestParsePositions(t *testing.T) {
	n := parseOne(t, "(do\n  x)")
	seq, ok := n.(*tree.Seq)
	if !ok {
		t.Fatalf("parsed %T, want *tree.Seq", n)
	}
	if got, want := seq.Pos().String(), "test.klor:1:1"; got != want {
		t.Errorf("do position = %s, want %s", got, want)
	}
	if got, want := seq.Items[0].Pos().String(), "test.klor:2:3"; got != want {
		t.Errorf("x position = %s, want %s", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode diag.Code
		wantMsg  string
	}{
		{name: "unclosed list", src: "(f x", wantCode: diag.CodeParse, wantMsg: "unclosed ("},
		{name: "unclosed vector", src: "[x", wantCode: diag.CodeParse, wantMsg: "unclosed ["},
		{name: "stray close", src: ")", wantCode: diag.CodeParse, wantMsg: "unexpected )"},
		{name: "stray bracket in list", src: "(f ])", wantCode: diag.CodeParse, wantMsg: "unexpected ]"},
		{name: "unterminated string", src: `"hi`, wantCode: diag.CodeParse, wantMsg: "unterminated string"},
		{name: "unknown escape", src: `"h\q"`, wantCode: diag.CodeParse, wantMsg: `unknown escape \q`},
		{name: "empty keyword", src: ":", wantCode: diag.CodeParse, wantMsg: "empty keyword"},
		{name: "malformed number", src: "9lives", wantCode: diag.CodeParse, wantMsg: "malformed number"},
		{name: "dangling dot", src: "Ana.", wantCode: diag.CodeParse, wantMsg: "malformed qualified symbol"},
		{name: "leading dot", src: ".x", wantCode: diag.CodeParse, wantMsg: "malformed qualified symbol"},
		{name: "two dots", src: "Ana.b.c", wantCode: diag.CodeParse, wantMsg: "malformed qualified symbol"},
		{name: "empty do", src: "(do)", wantCode: diag.CodeMalformed, wantMsg: "do expects at least one expression"},
		{name: "let without bindings", src: "(let)", wantCode: diag.CodeMalformed, wantMsg: "let expects a binding vector"},
		{name: "let bindings not a vector", src: "(let x 1)", wantCode: diag.CodeMalformed, wantMsg: "let expects a binding vector"},
		{name: "let odd bindings", src: "(let [x] x)", wantCode: diag.CodeMalformed, wantMsg: "even number of forms"},
		{name: "if missing branch", src: "(if c t)", wantCode: diag.CodeMalformed, wantMsg: "if expects 3 sub-expressions, got 2"},
		{name: "if extra branch", src: "(if c t e e2)", wantCode: diag.CodeMalformed, wantMsg: "if expects 3 sub-expressions, got 4"},
		{name: "select without choosers", src: "(select)", wantCode: diag.CodeMalformed, wantMsg: "select expects a chooser vector"},
		{name: "select empty choosers", src: "(select [] x)", wantCode: diag.CodeMalformed, wantMsg: "at least one chooser"},
		{name: "select without body", src: "(select [Ana.ok])", wantCode: diag.CodeMalformed, wantMsg: "select expects a body"},
		{name: "bad directive", src: ";klor:roles Ana,1bad\nx", wantCode: diag.CodeParse, wantMsg: "bad roles directive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.klor", tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want %s", tt.src, tt.wantCode)
			}
			var d *diag.Diagnostic
			if !errors.As(err, &d) {
				t.Fatalf("Parse(%q) error = %v, want a diagnostic", tt.src, err)
			}
			if d.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", d.Code, tt.wantCode)
			}
			if !strings.Contains(d.Message, tt.wantMsg) {
				t.Errorf("message %q does not contain %q", d.Message, tt.wantMsg)
			}
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	r := Reader{MaxDepth: 3}

	if _, err := r.Parse("test.klor", "(f (g [x]))"); err != nil {
		t.Fatalf("Parse at limit error = %v", err)
	}

	_, err := r.Parse("test.klor", "(f (g [(h x)]))")
	if err == nil {
		t.Fatalf("Parse beyond limit succeeded")
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) || d.Code != diag.CodeParse {
		t.Errorf("error = %v, want parse-error diagnostic", err)
	}
}

func TestDirectiveRoles(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // sorted rendering of the declared set; "" for none
	}{
		{name: "no directive", src: "(f x) ; plain comment", want: ""},
		{name: "single", src: ";klor:roles Ana,Bob\n(f x)", want: "[Ana Bob]"},
		{name: "spaces and doubled semicolon", src: ";; klor:roles Ana, Bob\nx", want: "[Ana Bob]"},
		{name: "union of several", src: ";klor:roles Ana\n;klor:roles Bob\nx", want: "[Ana Bob]"},
		{name: "empty list still declares", src: ";klor:roles\nx", want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse("test.klor", tt.src)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if tt.want == "" {
				if res.Roles != nil {
					t.Fatalf("Roles = %v, want none", res.Roles)
				}
				return
			}
			if res.Roles == nil {
				t.Fatalf("Roles = nil, want %s", tt.want)
			}
			if got := res.Roles.String(); got != tt.want {
				t.Errorf("Roles = %s, want %s", got, tt.want)
			}
		})
	}
}
