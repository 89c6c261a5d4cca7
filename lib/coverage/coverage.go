// Package coverage statically checks that every declared widget type has a
// renderer registration, without building the packages.
//
// A widget type is a string constant of type TypeID. A registration is a
// call to Typed (qualified or not) whose first argument names such a
// constant or spells its value as a literal.
package coverage

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// TypeConst is one declared widget type.
type TypeConst struct {
	Name  string
	Value string
	Pos   token.Position
}

// Registration is one Typed(...) call.
type Registration struct {
	Ref   string // constant name, or the quoted literal
	Value string // resolved type value; empty when Ref is unknown
	Pos   token.Position
}

// Report is the outcome of one check.
type Report struct {
	Types         []TypeConst
	Registrations []Registration
	Missing       []TypeConst
	Orphans       []Registration
	Duplicates    []Registration
}

// OK reports whether every type has exactly one registration.
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Orphans) == 0 && len(r.Duplicates) == 0
}

// Err summarises the problems in r, or returns nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	var parts []string
	for _, t := range r.Missing {
		parts = append(parts, fmt.Sprintf("%s: %s (%q) has no renderer", t.Pos, t.Name, t.Value))
	}
	for _, o := range r.Orphans {
		parts = append(parts, fmt.Sprintf("%s: renderer for unknown type %s", o.Pos, o.Ref))
	}
	for _, d := range r.Duplicates {
		parts = append(parts, fmt.Sprintf("%s: duplicate renderer for %q", d.Pos, d.Value))
	}
	return fmt.Errorf("coverage: %s", strings.Join(parts, "; "))
}

// Checker scans Go source for widget types and registrations.
type Checker struct {
	fset *token.FileSet
}

// New creates a Checker.
func New() *Checker {
	return &Checker{fset: token.NewFileSet()}
}

// Check reads TypeID constants from typesDir and Typed registrations from
// the packages matching patterns ("./..." walks a tree).
func (c *Checker) Check(typesDir string, patterns ...string) (*Report, error) {
	types, err := c.typeConsts(typesDir)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("coverage: no TypeID constants in %s", typesDir)
	}
	byName := make(map[string]string, len(types))
	byValue := make(map[string]bool, len(types))
	for _, t := range types {
		byName[t.Name] = t.Value
		byValue[t.Value] = true
	}

	dirs, err := findPackages(patterns)
	if err != nil {
		return nil, err
	}
	report := &Report{Types: types}
	for _, dir := range dirs {
		regs, err := c.registrations(dir)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", dir, err)
		}
		report.Registrations = append(report.Registrations, regs...)
	}

	seen := make(map[string]bool)
	for i := range report.Registrations {
		reg := &report.Registrations[i]
		if v, ok := byName[reg.Ref]; ok {
			reg.Value = v
		} else if v, err := strconv.Unquote(reg.Ref); err == nil && byValue[v] {
			reg.Value = v
		}
		switch {
		case reg.Value == "":
			report.Orphans = append(report.Orphans, *reg)
		case seen[reg.Value]:
			report.Duplicates = append(report.Duplicates, *reg)
		default:
			seen[reg.Value] = true
		}
	}
	for _, t := range types {
		if !seen[t.Value] {
			report.Missing = append(report.Missing, t)
		}
	}
	return report, nil
}

// findPackages resolves package patterns to directory paths.
func findPackages(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	var packages []string
	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}
		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if isSource(entry.Name()) {
					packages = append(packages, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return packages, nil
}

func isSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

// parseDir parses the non-test Go files of one directory, sorted by name.
func (c *Checker) parseDir(dir string) ([]*ast.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []*ast.File
	for _, entry := range entries {
		if entry.IsDir() || !isSource(entry.Name()) {
			continue
		}
		f, err := parser.ParseFile(c.fset, filepath.Join(dir, entry.Name()), nil, 0)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// typeConsts finds string constants declared with type TypeID.
func (c *Checker) typeConsts(dir string) ([]TypeConst, error) {
	files, err := c.parseDir(dir)
	if err != nil {
		return nil, err
	}
	var consts []TypeConst
	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.CONST {
				continue
			}
			for _, spec := range genDecl.Specs {
				valueSpec, ok := spec.(*ast.ValueSpec)
				if !ok || !isTypeID(valueSpec.Type) {
					continue
				}
				for i, name := range valueSpec.Names {
					if i >= len(valueSpec.Values) {
						break
					}
					lit, ok := valueSpec.Values[i].(*ast.BasicLit)
					if !ok || lit.Kind != token.STRING {
						continue
					}
					v, err := strconv.Unquote(lit.Value)
					if err != nil {
						continue
					}
					consts = append(consts, TypeConst{
						Name:  name.Name,
						Value: v,
						Pos:   c.fset.Position(name.Pos()),
					})
				}
			}
		}
	}
	return consts, nil
}

func isTypeID(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name == "TypeID"
	case *ast.SelectorExpr:
		return t.Sel.Name == "TypeID"
	}
	return false
}

// registrations finds Typed(...) calls in one package directory.
func (c *Checker) registrations(dir string) ([]Registration, error) {
	files, err := c.parseDir(dir)
	if err != nil {
		return nil, err
	}
	var regs []Registration
	for _, file := range files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || len(call.Args) == 0 || calleeName(call.Fun) != "Typed" {
				return true
			}
			ref := argRef(call.Args[0])
			if ref == "" {
				return true
			}
			regs = append(regs, Registration{
				Ref: ref,
				Pos: c.fset.Position(call.Pos()),
			})
			return true
		})
	}
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].Pos.Filename != regs[j].Pos.Filename {
			return regs[i].Pos.Filename < regs[j].Pos.Filename
		}
		return regs[i].Pos.Line < regs[j].Pos.Line
	})
	return regs, nil
}

// calleeName returns the bare function name of a call, unwrapping package
// qualifiers and explicit type arguments.
func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	}
	return ""
}

func argRef(arg ast.Expr) string {
	switch a := arg.(type) {
	case *ast.Ident:
		return a.Name
	case *ast.SelectorExpr:
		return a.Sel.Name
	case *ast.BasicLit:
		if a.Kind == token.STRING {
			return a.Value
		}
	case *ast.CallExpr:
		// TypeID("balance")
		if len(a.Args) == 1 && isTypeID(a.Fun) {
			return argRef(a.Args[0])
		}
	}
	return ""
}
