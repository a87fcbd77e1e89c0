// Command klor checks role placement in choreography files: every file is
// read, expanded, and analyzed, and diagnostics are reported per file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	klor "github.com/lovrosdu/klor-go"
	"github.com/lovrosdu/klor-go/diag"
	"github.com/lovrosdu/klor-go/internal/manifest"
	"github.com/lovrosdu/klor-go/role"
	"github.com/lovrosdu/klor-go/tree"
)

func main() {
	os.Exit(runWithArgs(os.Args[1:], os.Stdout, os.Stderr))
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("klor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rolesFlag := fs.String("roles", "", "comma-separated active roles (overrides manifest and file directives)")
	manifestPath := fs.String("manifest", "", "path to a workspace manifest (klor.yaml)")
	dump := fs.Bool("dump", false, "print annotated trees for the checked files")
	strictPlacement := fs.Bool("strict-placement", false, "report leaf identifiers that no role context places")
	strictBranches := fs.Bool("strict-branches", false, "report if/select limbs with irreconcilable owners")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: klor [flags] [file.klor ...]\n\n")
		fmt.Fprintf(stderr, "Checks role placement in choreography files.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var flagRoles role.Set
	if *rolesFlag != "" {
		set, err := role.ParseSet(*rolesFlag)
		if err != nil {
			fmt.Fprintf(stderr, "klor: -roles: %v\n", err)
			return 2
		}
		flagRoles = set
	}

	var mf *manifest.Manifest
	if *manifestPath != "" {
		m, err := manifest.Load(*manifestPath)
		if err != nil {
			fmt.Fprintf(stderr, "klor: %v\n", err)
			return 2
		}
		mf = m
	}

	files := fs.Args()
	if len(files) == 0 && mf != nil {
		expanded, err := expandManifestFiles(mf.Files)
		if err != nil {
			fmt.Fprintf(stderr, "klor: %v\n", err)
			return 2
		}
		files = expanded
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "klor: no files to check")
		fs.Usage()
		return 2
	}

	opts := klor.Options{
		StrictPlacement: *strictPlacement,
		StrictBranches:  *strictBranches,
	}
	if mf != nil {
		opts.StrictPlacement = opts.StrictPlacement || mf.Strict.Placement
		opts.StrictBranches = opts.StrictBranches || mf.Strict.Branches
	}

	code := 0
	for _, res := range checkFiles(files, flagRoles, mf, opts) {
		if res.err != nil {
			code = 1
			reportError(stderr, res.path, res.err)
			continue
		}
		if *dump {
			writeDump(stdout, res.path, res.forms)
		}
	}
	return code
}

// expandManifestFiles resolves the manifest's file entries, expanding
// glob patterns. An entry matching nothing is kept verbatim so the
// missing file is reported per file, not swallowed.
func expandManifestFiles(entries []string) ([]string, error) {
	var files []string
	for _, entry := range entries {
		matches, err := filepath.Glob(entry)
		if err != nil {
			return nil, fmt.Errorf("manifest files: bad pattern %q", entry)
		}
		if len(matches) == 0 {
			files = append(files, entry)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

type result struct {
	path  string
	forms []tree.Node
	err   error
}

// checkFiles checks every file concurrently and returns the results in
// input order. The active set and options are read-only, so the workers
// share them.
func checkFiles(paths []string, flagRoles role.Set, mf *manifest.Manifest, opts klor.Options) []result {
	results := make([]result, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			results[i] = checkFile(path, flagRoles, mf, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// checkFile resolves the file's active role set and runs the pipeline.
// Precedence: -roles flag, then manifest declaration, then the file's own
// ;klor:roles directive.
func checkFile(path string, flagRoles role.Set, mf *manifest.Manifest, opts klor.Options) result {
	data, err := os.ReadFile(path)
	if err != nil {
		return result{path: path, err: err}
	}

	active := flagRoles
	if active == nil && mf != nil {
		active = mf.RolesFor(path)
	}

	forms, err := klor.CheckWithOptions(path, string(data), active, opts)
	return result{path: path, forms: forms, err: err}
}

func reportError(stderr io.Writer, path string, err error) {
	if ds, ok := diag.AsDiagnostics(err); ok {
		for _, d := range ds {
			fmt.Fprintln(stderr, d.Error())
		}
		return
	}
	fmt.Fprintf(stderr, "klor: %s: %v\n", path, err)
}

func writeDump(stdout io.Writer, path string, forms []tree.Node) {
	fmt.Fprintf(stdout, ";; %s\n", path)
	for _, form := range forms {
		fmt.Fprint(stdout, tree.Dump(form))
	}
}
