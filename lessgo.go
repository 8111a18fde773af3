// Package lessgo compiles LESS stylesheets to CSS: parse to an AST, inline
// @import statements, evaluate variables/mixins/arithmetic into a flat IR,
// then serialize that IR as pretty or minified CSS.
package lessgo

import (
	"context"
	"path/filepath"

	"github.com/dellyoung/lessgo/dst"
	"github.com/dellyoung/lessgo/importer"
	"github.com/dellyoung/lessgo/renderer"
)

// Options configures a single Compile call. The zero value compiles with
// pretty output and no import search path beyond the source's own directory.
type Options struct {
	// Minify selects minified (non-semantic-whitespace-free) output instead
	// of the default two-space-indented pretty rendering.
	Minify bool

	// CurrentDir is the base directory relative @import paths resolve
	// against. If empty and Filename is set, the Filename's parent
	// directory is used instead.
	CurrentDir string

	// IncludePaths are additional search roots tried, in order, after
	// CurrentDir when locating an imported file.
	IncludePaths []string

	// Filename is the path of the source being compiled, used only to
	// derive CurrentDir when it isn't set explicitly.
	Filename string
}

// Compile parses, resolves imports against, evaluates, and serializes one
// LESS source string into CSS.
func Compile(source string, opts Options) (string, error) {
	return CompileContext(context.Background(), source, opts)
}

// CompileContext is Compile with a caller-supplied context, honored only
// during import resolution's file I/O (the only blocking stage).
func CompileContext(ctx context.Context, source string, opts Options) (string, error) {
	file, err := dst.Parse(source)
	if err != nil {
		return "", err
	}

	currentDir := opts.CurrentDir
	if currentDir == "" && opts.Filename != "" {
		currentDir = filepath.Dir(opts.Filename)
	}

	resolved, err := importer.Resolve(ctx, file, importer.Options{
		CurrentDir:   currentDir,
		IncludePaths: opts.IncludePaths,
	})
	if err != nil {
		return "", err
	}

	sheet, err := renderer.Evaluate(resolved)
	if err != nil {
		return "", err
	}

	return renderer.Serialize(sheet, !opts.Minify), nil
}
