package klor_test

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	klor "github.com/lovrosdu/klor-go"
	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

// TestCorpus runs every archive under testdata. An archive holds an input
// choreography plus golden sections:
//
//	roles        comma-separated active set; omitted, the file's own
//	             ;klor:roles directive rules
//	input.klor   the source under check
//	expanded     surface syntax of each expanded form, one per line
//	dump         tree.Dump of each analyzed form, concatenated
//	diagnostics  expected diagnostic lines, in source order
func TestCorpus(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no corpus archives under testdata")
	}
	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txt"), func(t *testing.T) {
			runArchive(t, path)
		})
	}
}

func runArchive(t *testing.T, path string) {
	t.Helper()
	archive, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sections := make(map[string]string, len(archive.Files))
	for _, f := range archive.Files {
		sections[f.Name] = string(f.Data)
	}
	input, ok := sections["input.klor"]
	if !ok {
		t.Fatal("archive has no input.klor section")
	}

	var active role.Set
	if names, ok := sections["roles"]; ok {
		set, err := role.ParseSet(strings.TrimSpace(names))
		if err != nil {
			t.Fatalf("bad roles section: %v", err)
		}
		active = set
	}

	if want, ok := sections["diagnostics"]; ok {
		_, err := klor.Check("input.klor", input, active)
		if err == nil {
			t.Fatalf("Check passed, want diagnostics:\n%s", want)
		}
		ds, ok := diag.AsDiagnostics(err)
		if !ok {
			t.Fatalf("Check error is not diagnostic: %v", err)
		}
		var b strings.Builder
		for _, d := range ds {
			b.WriteString(d.Error())
			b.WriteByte('\n')
		}
		if got := b.String(); got != want {
			t.Errorf("diagnostics mismatch\ngot:\n%swant:\n%s", got, want)
		}
		return
	}

	source, err := klor.Parse("input.klor", input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if active == nil {
		active = source.Roles
	}

	expanded := make([]tree.Node, len(source.Forms))
	for i, form := range source.Forms {
		e, err := klor.Expand(active, form)
		if err != nil {
			t.Fatalf("Expand form %d: %v", i, err)
		}
		expanded[i] = e
	}

	if want, ok := sections["expanded"]; ok {
		var b strings.Builder
		for _, form := range expanded {
			b.WriteString(form.String())
			b.WriteByte('\n')
		}
		if got := b.String(); got != want {
			t.Errorf("expanded mismatch\ngot:\n%swant:\n%s", got, want)
		}
	}

	if want, ok := sections["dump"]; ok {
		var b strings.Builder
		for i, form := range expanded {
			a, err := klor.Analyze(active, form)
			if err != nil {
				t.Fatalf("Analyze form %d: %v", i, err)
			}
			b.WriteString(tree.Dump(a))
		}
		if got := b.String(); got != want {
			t.Errorf("dump mismatch\ngot:\n%swant:\n%s", got, want)
		}
	}
}

func TestParseDirective(t *testing.T) {
	source, err := klor.Parse("x.klor", ";klor:roles Ana,Bob\nAna.x\n")
	if err != nil {
		t.Fatal(err)
	}
	if source.Roles == nil {
		t.Fatal("Roles = nil, want the directive set")
	}
	if got := source.Roles.String(); got != "[Ana Bob]" {
		t.Errorf("Roles = %s, want [Ana Bob]", got)
	}

	source, err = klor.Parse("x.klor", "Ana.x\n")
	if err != nil {
		t.Fatal(err)
	}
	if source.Roles != nil {
		t.Errorf("Roles = %s without a directive, want nil", source.Roles)
	}
}

func TestCheckDirectiveFallback(t *testing.T) {
	src := ";klor:roles Ana\nAna.x\n"

	forms, err := klor.Check("x.klor", src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(forms) != 1 {
		t.Fatalf("got %d forms, want 1", len(forms))
	}
	if got := tree.Dump(forms[0]); got != "ident x owner=Ana roles=[Ana]\n" {
		t.Errorf("Dump = %q, want x owned by Ana", got)
	}

	// An explicit set overrides the directive: Ana stops being active and
	// the qualified identifier is inert data.
	forms, err = klor.Check("x.klor", src, role.NewSet("Bob"))
	if err != nil {
		t.Fatal(err)
	}
	if got := tree.Dump(forms[0]); got != "opaque Ana.x\n" {
		t.Errorf("Dump = %q, want inert Ana.x", got)
	}
}

func TestCheckCollectsAllForms(t *testing.T) {
	src := "(Ana price quote)\n(do good)\n(Bob)\n"

	forms, err := klor.Check("x.klor", src, role.NewSet("Ana", "Bob"))
	if err == nil {
		t.Fatal("Check passed, want diagnostics")
	}
	if forms != nil {
		t.Errorf("forms = %v alongside an error, want nil", forms)
	}
	ds, ok := diag.AsDiagnostics(err)
	if !ok {
		t.Fatalf("error is not diagnostic: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("got %d diagnostics, want 2:\n%v", len(ds), err)
	}
	if !strings.Contains(ds[0].Message, "(Ana)") || ds[0].Pos.Line != 1 {
		t.Errorf("first diagnostic = %v, want the Ana form at line 1", &ds[0])
	}
	if !strings.Contains(ds[1].Message, "(Bob)") || ds[1].Pos.Line != 3 {
		t.Errorf("second diagnostic = %v, want the Bob form at line 3", &ds[1])
	}
}

func TestCheckMaxDepth(t *testing.T) {
	opts := klor.Options{MaxDepth: 2}

	if _, err := klor.CheckWithOptions("x.klor", "(f x)\n", role.NewSet("Ana"), opts); err != nil {
		t.Fatalf("shallow form: %v", err)
	}

	_, err := klor.CheckWithOptions("x.klor", "(f (g (h x)))\n", role.NewSet("Ana"), opts)
	if err == nil {
		t.Fatal("deep form passed, want a nesting error")
	}
	ds, ok := diag.AsDiagnostics(err)
	if !ok || ds[0].Code != diag.CodeParse {
		t.Errorf("error = %v, want a parse diagnostic", err)
	}
}
