package lessgo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCompileScenarioVariablesNestingAmpersand(t *testing.T) {
	src := `@base: #ff6600;
.button { color: @base; &:hover { color: darken(@base, 10%); } }`
	out, err := Compile(src, Options{})
	require.NoError(t, err)
	want := ".button {\n  color: #ff6600;\n}\n\n.button:hover {\n  color: #cc5200;\n}\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileScenarioMixinWithDefault(t *testing.T) {
	src := `.pad(@x: 8px) { padding: @x; }
.card { .pad(); }
.box  { .pad(16px); }`
	out, err := Compile(src, Options{Minify: true})
	require.NoError(t, err)
	require.Equal(t, ".card {padding: 8px}.box {padding: 16px}", out)
}

func TestCompileScenarioArithmeticWithUnits(t *testing.T) {
	src := `.x { width: 10px + 5px * 2; }`
	out, err := Compile(src, Options{Minify: true})
	require.NoError(t, err)
	require.Equal(t, ".x {width: 30px}", out)
}

func TestCompileScenarioMediaNesting(t *testing.T) {
	src := `.nav { color: #111; @media (min-width: 600px) { color: #222; } }`
	out, err := Compile(src, Options{})
	require.NoError(t, err)
	want := ".nav {\n  color: #111;\n}\n\n@media (min-width: 600px) {\n  .nav {\n    color: #222;\n  }\n}\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileScenarioInlineColorFunction(t *testing.T) {
	src := `.x { border: 1px solid fade(#000, 40%); }`
	out, err := Compile(src, Options{Minify: true})
	require.NoError(t, err)
	require.Equal(t, ".x {border: 1px solid rgba(0, 0, 0, 0.4)}", out)
}

func TestCompileScenarioCycleDetection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.less"), []byte(`@import "b.less";`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.less"), []byte(`@import "a.less";`), 0o644))

	src, err := os.ReadFile(filepath.Join(dir, "a.less"))
	require.NoError(t, err)

	_, err = CompileContext(context.Background(), string(src), Options{CurrentDir: dir})
	require.Error(t, err)
	require.Contains(t, err.Error(), "circular import")
}

func TestCompilePrettyAndMinifiedNormalizeEqual(t *testing.T) {
	src := `@base: 10px;
.box { width: @base; .inner { height: @base; } }`
	pretty, err := Compile(src, Options{})
	require.NoError(t, err)
	minified, err := Compile(src, Options{Minify: true})
	require.NoError(t, err)
	require.Equal(t, normalizeWhitespace(pretty), normalizeWhitespace(minified))
}

func normalizeWhitespace(s string) string {
	var out []byte
	lastSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if !lastSpace && len(out) > 0 {
				out = append(out, ' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		out = append(out, c)
	}
	result := string(out)
	for len(result) > 0 && result[len(result)-1] == ' ' {
		result = result[:len(result)-1]
	}
	return result
}

func TestCompileVariableShadowing(t *testing.T) {
	src := `@color: red;
.outer {
  color: @color;
  .inner { @color: blue; color: @color; }
  border-color: @color;
}`
	out, err := Compile(src, Options{Minify: true})
	require.NoError(t, err)
	require.Equal(t, ".outer {color: red;border-color: red}.outer .inner {color: blue}", out)
}

func TestCompileImportInlinedOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vars.less"), []byte(`@base: 5px;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.less"), []byte(`@import "vars.less";
@import "vars.less";
.box { width: @base; }`), 0o644))

	src, err := os.ReadFile(filepath.Join(dir, "main.less"))
	require.NoError(t, err)

	out, err := CompileContext(context.Background(), string(src), Options{CurrentDir: dir})
	require.NoError(t, err)
	require.Equal(t, ".box {\n  width: 5px;\n}\n", out)
}

func TestCompileMixinImportantPropagatesThroughExpansion(t *testing.T) {
	src := `.reset(@color) { color: @color; margin: 0; }
.box { .reset(red) !important; }`
	out, err := Compile(src, Options{Minify: true})
	require.NoError(t, err)
	require.Equal(t, ".box {color: red !important;margin: 0 !important}", out)
}
