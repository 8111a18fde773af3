// Package importer resolves `@import` statements in a parsed stylesheet,
// inlining referenced LESS files depth-first with cycle detection and a
// per-compile cache keyed by normalized absolute path.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dellyoung/lessgo/dst"
	"github.com/dellyoung/lessgo/internal/strings"
)

// Options configures where relative imports are resolved from.
type Options struct {
	CurrentDir   string
	IncludePaths []string
}

// EvalError is a semantic failure raised by the resolver (circular import,
// missing file).
type EvalError struct {
	Cause string
}

func (e *EvalError) Error() string { return e.Cause }

type cacheEntry struct {
	statements []dst.Statement
}

// Resolver walks a Stylesheet's Import statements, inlining child files.
type Resolver struct {
	opts    Options
	cache   map[string]*cacheEntry
	stack   map[string]bool
	inlined map[string]bool
}

// Resolve returns a new File with every non-passthrough Import statement
// replaced in place by the resolved file's statements, recursively.
func Resolve(ctx context.Context, f *dst.File, opts Options) (*dst.File, error) {
	r := &Resolver{
		opts:    opts,
		cache:   make(map[string]*cacheEntry),
		stack:   make(map[string]bool),
		inlined: make(map[string]bool),
	}
	stmts, err := r.resolveStatements(ctx, f.Statements, opts.CurrentDir)
	if err != nil {
		return nil, err
	}
	return &dst.File{Statements: stmts}, nil
}

func (r *Resolver) resolveStatements(ctx context.Context, stmts []dst.Statement, currentDir string) ([]dst.Statement, error) {
	out := make([]dst.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		imp, ok := stmt.(*dst.Import)
		if !ok {
			out = append(out, stmt)
			continue
		}
		if imp.CSSPassthrough {
			out = append(out, imp)
			continue
		}
		children, err := r.resolveImport(ctx, imp, currentDir)
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return out, nil
}

func (r *Resolver) resolveImport(ctx context.Context, imp *dst.Import, currentDir string) ([]dst.Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := r.locate(imp.Path, currentDir)
	if err != nil {
		return nil, &EvalError{Cause: fmt.Sprintf("import %q: %v", imp.Path, err)}
	}
	norm, err := normalizePath(path)
	if err != nil {
		return nil, &EvalError{Cause: fmt.Sprintf("import %q: %v", imp.Path, err)}
	}

	if r.stack[norm] {
		return nil, &EvalError{Cause: fmt.Sprintf("循环引用 (circular import): %s", norm)}
	}

	// A file already fully inlined once (anywhere in the import graph) is
	// not inlined again: its statements are already present in the output.
	if r.inlined[norm] {
		return nil, nil
	}

	if entry, ok := r.cache[norm]; ok {
		r.inlined[norm] = true
		return entry.statements, nil
	}

	src, err := readFile(ctx, norm)
	if err != nil {
		return nil, &EvalError{Cause: fmt.Sprintf("import %q: %v", imp.Path, err)}
	}

	file, err := dst.Parse(src)
	if err != nil {
		return nil, err
	}

	r.stack[norm] = true
	childDir := filepath.Dir(norm)
	resolved, err := r.resolveStatements(ctx, file.Statements, childDir)
	delete(r.stack, norm)
	if err != nil {
		return nil, err
	}

	r.cache[norm] = &cacheEntry{statements: resolved}
	r.inlined[norm] = true
	return resolved, nil
}

// locate finds the file referenced by importPath against currentDir first,
// then each configured include path, in order; the first existing file
// wins.
func (r *Resolver) locate(importPath, currentDir string) (string, error) {
	candidates := make([]string, 0, 1+len(r.opts.IncludePaths))
	if currentDir != "" {
		candidates = append(candidates, filepath.Join(currentDir, importPath))
	} else {
		candidates = append(candidates, importPath)
	}
	for _, inc := range r.opts.IncludePaths {
		candidates = append(candidates, filepath.Join(inc, importPath))
	}

	for _, cand := range candidates {
		if fileExists(cand) {
			return cand, nil
		}
		if !strings.HasSuffix(strings.ToLower(cand), ".less") {
			withExt := cand + ".less"
			if fileExists(withExt) {
				return withExt, nil
			}
		}
	}
	return "", fmt.Errorf("no such file: %s", importPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func normalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

func readFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
