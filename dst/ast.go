// Package dst holds the parsed representation of a LESS stylesheet: the
// abstract syntax tree produced by the parser and consumed, unmutated, by
// the import resolver and evaluator.
package dst

// File is a parsed stylesheet: an ordered sequence of top-level statements.
type File struct {
	Statements []Statement
}

// Statement is a top-level (or, for RuleSet/AtRule/MixinDefinition/
// MixinCall, nestable) construct.
type Statement interface {
	statementNode()
}

// RuleBody is an item that can appear inside a RuleSet, AtRule, or mixin
// body.
type RuleBody interface {
	ruleBodyNode()
}

// Import is an `@import` statement. CSSPassthrough imports (an explicit
// `(css)` marker, or a target whose extension isn't `.less`) are retained
// verbatim in the output; others are replaced in place by the resolver.
type Import struct {
	RawText          string
	Path             string
	ResolvedPath     string
	CSSPassthrough   bool
	Pos              int
}

func (*Import) statementNode() {}

// VariableDecl binds a name to a Value, or — when DetachedBody is non-nil —
// to a detached ruleset (`@name: { ... };`).
type VariableDecl struct {
	Name          string
	Value         Value
	DetachedBody  []RuleBody
	Pos           int
}

func (*VariableDecl) statementNode() {}
func (*VariableDecl) ruleBodyNode()  {}

// IsDetached reports whether this declaration binds a detached ruleset
// rather than a plain value.
func (v *VariableDecl) IsDetached() bool { return v.DetachedBody != nil }

// RuleSet is a selector list plus its body; used both at top level and as
// a NestedRule inside another RuleSet/AtRule body.
type RuleSet struct {
	Selectors []string
	Body      []RuleBody
	Pos       int
}

func (*RuleSet) statementNode() {}
func (*RuleSet) ruleBodyNode()  {}

// AtRule uniformly represents block at-rules (`@media ... { }`) and
// statement-form at-rules (`@charset "utf-8";`). HasBlock distinguishes the
// two; Body is nil when HasBlock is false.
type AtRule struct {
	Name     string
	Params   Value
	Body     []RuleBody
	HasBlock bool
	Pos      int
}

func (*AtRule) statementNode() {}
func (*AtRule) ruleBodyNode()  {}

// MixinParam is one formal parameter of a mixin definition.
type MixinParam struct {
	Name    string
	Default *Value
}

// MixinDefinition declares a named, parameterized, optionally guarded body.
type MixinDefinition struct {
	Name  string
	Params []MixinParam
	Guard string // raw guard text (without the "when" keyword or parens); empty if none
	Body  []RuleBody
	Pos   int
}

func (*MixinDefinition) statementNode() {}
func (*MixinDefinition) ruleBodyNode()  {}

// MixinArgument is either an ordinary value argument or a detached-ruleset
// block argument (`{ ... }`).
type MixinArgument struct {
	Value   *Value
	Ruleset []RuleBody
}

// IsRuleset reports whether this argument is a detached-ruleset block.
func (a MixinArgument) IsRuleset() bool { return a.Ruleset != nil }

// MixinCall invokes a mixin by name, at top level or inside a rule body.
type MixinCall struct {
	Name      string
	Args      []MixinArgument
	Important bool
	Pos       int
}

func (*MixinCall) statementNode() {}
func (*MixinCall) ruleBodyNode()  {}

// Declaration is an ordinary `property: value;` pair. Property is kept raw
// (it may still contain `@{name}` interpolation, substituted only during
// evaluation).
type Declaration struct {
	Property  string
	Value     Value
	Important bool
	Pos       int
}

func (*Declaration) ruleBodyNode() {}

// DetachedCall invokes a variable bound to a detached ruleset (`@name();`).
type DetachedCall struct {
	VariableName string
	Pos          int
}

func (*DetachedCall) statementNode() {}
func (*DetachedCall) ruleBodyNode()  {}

// Extend records a `:extend(...)` request (supplemental to the core spec).
// Selector is the raw target selector text; All is set when the `all`
// keyword qualifies the extend.
type Extend struct {
	Selector string
	All      bool
	Pos      int
}

func (*Extend) ruleBodyNode() {}

// Each is a supplemental loop construct: `each(@list, @item, { ... });`.
// VarName is bound to each element of ListExpr in turn while evaluating
// Body.
type Each struct {
	ListExpr Value
	VarName  string
	Body     []RuleBody
	Pos      int
}

func (*Each) ruleBodyNode() {}

// ValueKind distinguishes the two ValuePiece variants.
type ValueKind int

const (
	// PieceLiteral is raw, unevaluated source text.
	PieceLiteral ValueKind = iota
	// PieceVariableRef is a `@name` or `@{name}` reference, stored without
	// its sigil/braces.
	PieceVariableRef
)

// ValuePiece is one element of a Value: either literal text or a variable
// reference, resolved only at evaluation time.
type ValuePiece struct {
	Kind ValueKind
	Text string
}

// Value is an ordered list of ValuePiece; raw text is preserved until
// evaluation, which concatenates pieces with variable references resolved.
type Value struct {
	Pieces []ValuePiece
}

// Empty reports whether the value carries no pieces at all.
func (v Value) Empty() bool { return len(v.Pieces) == 0 }

// Raw reconstructs the value's original source text, re-inserting `@` in
// front of variable reference pieces.
func (v Value) Raw() string {
	var out []byte
	for _, p := range v.Pieces {
		if p.Kind == PieceVariableRef {
			out = append(out, '@')
		}
		out = append(out, p.Text...)
	}
	return string(out)
}
