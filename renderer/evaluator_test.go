package renderer

import (
	"testing"

	"github.com/dellyoung/lessgo/dst"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *dst.File {
	t.Helper()
	f, err := dst.Parse(src)
	require.NoError(t, err)
	return f
}

func TestEvaluateSimpleDeclaration(t *testing.T) {
	f := mustParse(t, `.box { color: red; }`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 1)
	require.Equal(t, []string{".box"}, sheet.Nodes[0].Selectors)
	require.Equal(t, []EvaluatedDeclaration{{Property: "color", Value: "red"}}, sheet.Nodes[0].Declarations)
}

func TestEvaluateVariableSubstitution(t *testing.T) {
	f := mustParse(t, `
@base: 10px;
.box { width: @base; }
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Equal(t, "10px", sheet.Nodes[0].Declarations[0].Value)
}

func TestEvaluateNestedAmpersandSelector(t *testing.T) {
	f := mustParse(t, `.nav { &:hover { color: blue; } }`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 1)
	require.Equal(t, []string{".nav:hover"}, sheet.Nodes[0].Selectors)
}

func TestEvaluateNestedSelectorWithoutAmpersand(t *testing.T) {
	f := mustParse(t, `.nav { .item { color: blue; } }`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 1)
	require.Equal(t, []string{".nav .item"}, sheet.Nodes[0].Selectors)
}

func TestEvaluateAtRuleBubblesParentSelectors(t *testing.T) {
	f := mustParse(t, `.nav { color: #111; @media (min-width: 600px) { color: #222; } }`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 2)

	require.Equal(t, []string{".nav"}, sheet.Nodes[0].Selectors)
	require.Equal(t, "#111", sheet.Nodes[0].Declarations[0].Value)

	atRule := sheet.Nodes[1]
	require.True(t, atRule.IsAtRule)
	require.Equal(t, "media", atRule.Name)
	require.Len(t, atRule.Children, 1)
	require.Equal(t, []string{".nav"}, atRule.Children[0].Selectors)
	require.Equal(t, "#222", atRule.Children[0].Declarations[0].Value)
}

func TestEvaluateTopLevelAtRuleKeepsNestedRulesAsChildren(t *testing.T) {
	f := mustParse(t, `@media print { .box { color: black; } }`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 1)
	atRule := sheet.Nodes[0]
	require.True(t, atRule.IsAtRule)
	require.Len(t, atRule.Children, 1)
	require.Equal(t, []string{".box"}, atRule.Children[0].Selectors)
}

func TestEvaluateMixinCallWithDefaults(t *testing.T) {
	f := mustParse(t, `
.button(@color: blue, @size: 10px) {
  color: @color;
  width: @size;
}
.box { .button(); }
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 1)
	decls := sheet.Nodes[0].Declarations
	require.Equal(t, "blue", decls[0].Value)
	require.Equal(t, "10px", decls[1].Value)
}

func TestEvaluateMixinCallWithArgsOverridesDefaults(t *testing.T) {
	f := mustParse(t, `
.button(@color: blue, @size: 10px) {
  color: @color;
  width: @size;
}
.box { .button(red, 20px); }
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	decls := sheet.Nodes[0].Declarations
	require.Equal(t, "red", decls[0].Value)
	require.Equal(t, "20px", decls[1].Value)
}

func TestEvaluateMixinGuardSelectsOverload(t *testing.T) {
	f := mustParse(t, `
.sized(@size) when (@size > 5px) {
  label: big;
}
.sized(@size) when (@size < 5px) {
  label: small;
}
.box { .sized(10px); }
.tiny { .sized(2px); }
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 2)
	require.Equal(t, "big", sheet.Nodes[0].Declarations[0].Value)
	require.Equal(t, "small", sheet.Nodes[1].Declarations[0].Value)
}

func TestEvaluateMixinCallImportantPropagates(t *testing.T) {
	f := mustParse(t, `
.button(@color) {
  color: @color;
  border: 1px solid @color;
}
.box { .button(red) !important; }
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	for _, d := range sheet.Nodes[0].Declarations {
		require.True(t, d.Important, "declaration %q should carry !important", d.Property)
	}
}

func TestEvaluateDetachedRulesetCall(t *testing.T) {
	f := mustParse(t, `
@bordered: {
  border: 1px solid black;
};
.box {
  @bordered();
}
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 1)
	require.Equal(t, "border", sheet.Nodes[0].Declarations[0].Property)
	require.Equal(t, "1px solid black", sheet.Nodes[0].Declarations[0].Value)
}

func TestEvaluateEachLoopExpandsBody(t *testing.T) {
	f := mustParse(t, `
@colors: red, blue;
each(@colors, @item, { .text { color: @item; } });
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 2)
	require.Equal(t, []string{".text"}, sheet.Nodes[0].Selectors)
	require.Equal(t, "red", sheet.Nodes[0].Declarations[0].Value)
	require.Equal(t, []string{".text"}, sheet.Nodes[1].Selectors)
	require.Equal(t, "blue", sheet.Nodes[1].Declarations[0].Value)
}

func TestEvaluateExtendAddsSelectorToMatchingRule(t *testing.T) {
	f := mustParse(t, `
.foo { color: red; }
.bar { &:extend(.foo); color: blue; }
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Len(t, sheet.Nodes, 2)
	require.Contains(t, sheet.Nodes[0].Selectors, ".bar")
}

func TestEvaluateUndefinedMixinIsError(t *testing.T) {
	f := mustParse(t, `.box { .nope(); }`)
	_, err := Evaluate(f)
	require.Error(t, err)
}

func TestEvaluateUndefinedVariableIsError(t *testing.T) {
	f := mustParse(t, `.box { color: @missing; }`)
	_, err := Evaluate(f)
	require.Error(t, err)
}

func TestEvaluatePropertyInterpolation(t *testing.T) {
	f := mustParse(t, `
@side: left;
.box { @{side}: 10px; }
`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Equal(t, "left", sheet.Nodes[0].Declarations[0].Property)
}

func TestEvaluateCSSPassthroughImportCollected(t *testing.T) {
	f := mustParse(t, `@import (css) "theme.css";
.box { color: red; }`)
	sheet, err := Evaluate(f)
	require.NoError(t, err)
	require.Equal(t, []string{`@import (css) "theme.css";`}, sheet.Imports)
	require.Len(t, sheet.Nodes, 1)
}
