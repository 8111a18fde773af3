package dst

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSimpleRuleSet(t *testing.T) {
	f, err := Parse(`.box { color: red; width: 10px; }`)
	require.NoError(t, err)
	require.Len(t, f.Statements, 1)

	rs, ok := f.Statements[0].(*RuleSet)
	require.True(t, ok)
	require.Equal(t, []string{".box"}, rs.Selectors)
	require.Len(t, rs.Body, 2)

	decl, ok := rs.Body[0].(*Declaration)
	require.True(t, ok)
	require.Equal(t, "color", decl.Property)
	require.Equal(t, "red", decl.Value.Raw())
}

func TestParseNestedRuleSetAndPseudoSelector(t *testing.T) {
	f, err := Parse(`.nav { color: #111; .foo:hover, .bar { color: blue; } }`)
	require.NoError(t, err)
	rs := f.Statements[0].(*RuleSet)
	require.Len(t, rs.Body, 2)

	_, ok := rs.Body[0].(*Declaration)
	require.True(t, ok)

	nested, ok := rs.Body[1].(*RuleSet)
	require.True(t, ok)
	require.Equal(t, []string{".foo:hover", ".bar"}, nested.Selectors)
}

func TestParseVariableDeclaration(t *testing.T) {
	f, err := Parse(`@base: 10px;`)
	require.NoError(t, err)
	v, ok := f.Statements[0].(*VariableDecl)
	require.True(t, ok)
	require.Equal(t, "base", v.Name)
	require.False(t, v.IsDetached())
	require.Equal(t, "10px", v.Value.Raw())
}

func TestParseDetachedRulesetAndCall(t *testing.T) {
	f, err := Parse(`
@bordered: {
  border: 1px solid black;
};
.box {
  @bordered();
}
`)
	require.NoError(t, err)
	require.Len(t, f.Statements, 2)

	v := f.Statements[0].(*VariableDecl)
	require.True(t, v.IsDetached())
	require.Len(t, v.DetachedBody, 1)

	rs := f.Statements[1].(*RuleSet)
	require.Len(t, rs.Body, 1)
	call, ok := rs.Body[0].(*DetachedCall)
	require.True(t, ok)
	require.Equal(t, "bordered", call.VariableName)
}

func TestParseMixinDefinitionWithDefaultsAndGuard(t *testing.T) {
	f, err := Parse(`.button(@color: blue, @size: 10px) when (@size > 5px) { color: @color; }`)
	require.NoError(t, err)
	def, ok := f.Statements[0].(*MixinDefinition)
	require.True(t, ok)
	require.Equal(t, ".button", def.Name)
	require.Len(t, def.Params, 2)
	require.Equal(t, "color", def.Params[0].Name)
	require.NotNil(t, def.Params[0].Default)
	require.Equal(t, "@size > 5px", def.Guard)
}

func TestParseMixinCallWithImportant(t *testing.T) {
	f, err := Parse(`.box { .button(red, 12px) !important; }`)
	require.NoError(t, err)
	rs := f.Statements[0].(*RuleSet)
	call, ok := rs.Body[0].(*MixinCall)
	require.True(t, ok)
	require.Equal(t, ".button", call.Name)
	require.Len(t, call.Args, 2)
	require.True(t, call.Important)
}

func TestParseAtRuleNestedUnderSelector(t *testing.T) {
	f, err := Parse(`.nav { color: #111; @media (min-width: 600px) { color: #222; } }`)
	require.NoError(t, err)
	rs := f.Statements[0].(*RuleSet)
	at, ok := rs.Body[1].(*AtRule)
	require.True(t, ok)
	require.Equal(t, "media", at.Name)
	require.True(t, at.HasBlock)
	require.Len(t, at.Body, 1)
}

func TestParseStatementFormAtRule(t *testing.T) {
	f, err := Parse(`@charset "utf-8";`)
	require.NoError(t, err)
	at, ok := f.Statements[0].(*AtRule)
	require.True(t, ok)
	require.Equal(t, "charset", at.Name)
	require.False(t, at.HasBlock)
}

func TestParseImportPassthrough(t *testing.T) {
	f, err := Parse(`@import (css) "foo.css";`)
	require.NoError(t, err)
	imp, ok := f.Statements[0].(*Import)
	require.True(t, ok)
	require.True(t, imp.CSSPassthrough)
	require.Equal(t, `@import (css) "foo.css";`, imp.RawText)
}

func TestParseNestedImportIsParseError(t *testing.T) {
	_, err := Parse(`.box { @import "foo.less"; }`)
	require.Error(t, err)
}

func TestParseExtendStatement(t *testing.T) {
	f, err := Parse(`.bar { &:extend(.foo all); color: red; }`)
	require.NoError(t, err)
	rs := f.Statements[0].(*RuleSet)
	ext, ok := rs.Body[0].(*Extend)
	require.True(t, ok)
	require.Equal(t, ".foo", ext.Selector)
	require.True(t, ext.All)
}

func TestParseEachLoop(t *testing.T) {
	f, err := Parse(`each(@list, @item, { .icon-@{item} { display: block; } });`)
	require.NoError(t, err)
	each, ok := f.Statements[0].(*Each)
	require.True(t, ok)
	require.Equal(t, "item", each.VarName)
	require.Len(t, each.Body, 1)
}

func TestParseImportantDeclaration(t *testing.T) {
	f, err := Parse(`.box { color: red !important; }`)
	require.NoError(t, err)
	rs := f.Statements[0].(*RuleSet)
	decl := rs.Body[0].(*Declaration)
	require.True(t, decl.Important)
	require.Equal(t, "red", decl.Value.Raw())
}

func TestParsePropertyInterpolation(t *testing.T) {
	f, err := Parse(`.box { @{prop}: red; }`)
	require.NoError(t, err)
	rs := f.Statements[0].(*RuleSet)
	decl := rs.Body[0].(*Declaration)
	require.Equal(t, "@{prop}", decl.Property)
}
