package renderer

import (
	"github.com/dellyoung/lessgo/dst"
	"github.com/dellyoung/lessgo/expression"
	guardeval "github.com/dellyoung/lessgo/evaluator"
	"github.com/dellyoung/lessgo/internal/strings"
)

// Evaluator walks a resolved dst.File and produces a flat EvaluatedStylesheet
// per §4.3/§4.4: it maintains parallel variable and mixin scope stacks,
// flattens nested selectors, expands mixin calls, and evaluates every value.
type Evaluator struct {
	vars    *VarStack
	mixins  *MixinStack
	extends []pendingExtend
}

type pendingExtend struct {
	bearer []string
	target string
	all    bool
}

// Evaluate runs the full top-level evaluation pipeline over a resolved
// (imports already inlined) stylesheet.
func Evaluate(file *dst.File) (*EvaluatedStylesheet, error) {
	e := &Evaluator{vars: NewVarStack(), mixins: NewMixinStack()}
	result := &EvaluatedStylesheet{}

	for _, stmt := range file.Statements {
		switch n := stmt.(type) {
		case *dst.Import:
			if n.CSSPassthrough {
				result.Imports = append(result.Imports, n.RawText)
			}
		case *dst.VariableDecl:
			if err := e.bindVariable(n); err != nil {
				return nil, err
			}
		case *dst.MixinDefinition:
			e.mixins.Register(n)
		case *dst.MixinCall:
			_, nodes, err := e.expandMixinCall(n, nil)
			if err != nil {
				return nil, err
			}
			result.Nodes = append(result.Nodes, nodes...)
		case *dst.RuleSet:
			nodes, err := e.evalRuleset(nil, n)
			if err != nil {
				return nil, err
			}
			result.Nodes = append(result.Nodes, nodes...)
		case *dst.AtRule:
			node, err := e.evalAtRule(nil, n)
			if err != nil {
				return nil, err
			}
			result.Nodes = append(result.Nodes, node)
		}
	}

	e.applyExtends(result)
	return result, nil
}

func (e *Evaluator) bindVariable(n *dst.VariableDecl) error {
	if n.IsDetached() {
		e.vars.Set(n.Name, VariableValue{
			IsDetached:     true,
			DetachedBody:   n.DetachedBody,
			CapturedScopes: e.vars.Snapshot(),
		})
		return nil
	}
	text, err := ResolveValue(n.Value, e.vars)
	if err != nil {
		return err
	}
	e.vars.Set(n.Name, VariableValue{Text: text})
	return nil
}

// bodyResult accumulates the output of walking one rule/at-rule/mixin body.
type bodyResult struct {
	declarations []EvaluatedDeclaration
	pending      []EvaluatedNode
}

func (e *Evaluator) evalBody(body []dst.RuleBody, parentSelectors []string) (bodyResult, error) {
	var res bodyResult
	for _, item := range body {
		switch n := item.(type) {
		case *dst.VariableDecl:
			if err := e.bindVariable(n); err != nil {
				return bodyResult{}, err
			}
		case *dst.Declaration:
			d, err := e.evalDeclaration(n)
			if err != nil {
				return bodyResult{}, err
			}
			res.declarations = append(res.declarations, d)
		case *dst.RuleSet:
			nodes, err := e.evalRuleset(parentSelectors, n)
			if err != nil {
				return bodyResult{}, err
			}
			res.pending = append(res.pending, nodes...)
		case *dst.AtRule:
			node, err := e.evalAtRule(parentSelectors, n)
			if err != nil {
				return bodyResult{}, err
			}
			res.pending = append(res.pending, node)
		case *dst.MixinDefinition:
			e.mixins.Register(n)
		case *dst.MixinCall:
			decls, nodes, err := e.expandMixinCall(n, parentSelectors)
			if err != nil {
				return bodyResult{}, err
			}
			res.declarations = append(res.declarations, decls...)
			res.pending = append(res.pending, nodes...)
		case *dst.DetachedCall:
			decls, nodes, err := e.evalDetachedCall(n, parentSelectors)
			if err != nil {
				return bodyResult{}, err
			}
			res.declarations = append(res.declarations, decls...)
			res.pending = append(res.pending, nodes...)
		case *dst.Extend:
			e.recordExtend(parentSelectors, n)
		case *dst.Each:
			decls, nodes, err := e.evalEach(n, parentSelectors)
			if err != nil {
				return bodyResult{}, err
			}
			res.declarations = append(res.declarations, decls...)
			res.pending = append(res.pending, nodes...)
		}
	}
	return res, nil
}

// evalRuleset implements §4.3's eval_ruleset.
func (e *Evaluator) evalRuleset(parentSelectors []string, rs *dst.RuleSet) ([]EvaluatedNode, error) {
	e.vars.Push()
	e.mixins.Push()
	defer func() {
		e.vars.Pop()
		e.mixins.Pop()
	}()

	combined := combineSelectors(parentSelectors, rs.Selectors)
	res, err := e.evalBody(rs.Body, combined)
	if err != nil {
		return nil, err
	}

	var out []EvaluatedNode
	if len(res.declarations) > 0 {
		out = append(out, EvaluatedNode{Selectors: combined, Declarations: res.declarations})
	}
	out = append(out, res.pending...)
	return out, nil
}

// evalAtRule implements §4.3's eval_at_rule.
func (e *Evaluator) evalAtRule(parentSelectors []string, at *dst.AtRule) (EvaluatedNode, error) {
	paramsText, err := concatValue(at.Params, e.vars)
	if err != nil {
		return EvaluatedNode{}, err
	}
	paramsText = strings.TrimSpace(paramsText)

	if !at.HasBlock {
		return EvaluatedNode{IsAtRule: true, Name: at.Name, Params: paramsText, StatementForm: true}, nil
	}

	e.vars.Push()
	e.mixins.Push()
	defer func() {
		e.vars.Pop()
		e.mixins.Pop()
	}()

	res, err := e.evalBody(at.Body, parentSelectors)
	if err != nil {
		return EvaluatedNode{}, err
	}

	node := EvaluatedNode{IsAtRule: true, Name: at.Name, Params: paramsText}
	if len(parentSelectors) == 0 {
		node.Declarations = res.declarations
		node.Children = res.pending
	} else if len(res.declarations) > 0 {
		node.Children = append([]EvaluatedNode{{Selectors: parentSelectors, Declarations: res.declarations}}, res.pending...)
	} else {
		node.Children = res.pending
	}
	return node, nil
}

func (e *Evaluator) evalDeclaration(n *dst.Declaration) (EvaluatedDeclaration, error) {
	prop, err := e.interpolateProperty(n.Property)
	if err != nil {
		return EvaluatedDeclaration{}, err
	}
	val, err := ResolveValue(n.Value, e.vars)
	if err != nil {
		return EvaluatedDeclaration{}, err
	}
	return EvaluatedDeclaration{Property: prop, Value: val, Important: n.Important}, nil
}

// interpolateProperty substitutes every "@{name}" occurrence in a raw
// property string with its bound variable text.
func (e *Evaluator) interpolateProperty(prop string) (string, error) {
	if !strings.Contains(prop, "@{") {
		return prop, nil
	}
	var out []byte
	i := 0
	for i < len(prop) {
		if prop[i] == '@' && i+1 < len(prop) && prop[i+1] == '{' {
			end := strings.Index(prop[i+2:], "}")
			if end < 0 {
				return "", evalErrorf("unterminated @{...} interpolation in property %q", prop)
			}
			name := prop[i+2 : i+2+end]
			v, ok := e.vars.Lookup(name)
			if !ok {
				return "", evalErrorf("undefined variable: @%s", name)
			}
			out = append(out, v.Text...)
			i = i + 2 + end + 1
			continue
		}
		out = append(out, prop[i])
		i++
	}
	return string(out), nil
}

// combineSelectors implements §4.3's `&` expansion: for each (p, c) pair,
// either c with every `&` replaced by p, or "p c" if c has no `&`.
func combineSelectors(parents, children []string) []string {
	if len(parents) == 0 {
		out := make([]string, len(children))
		copy(out, children)
		return out
	}
	var out []string
	for _, p := range parents {
		for _, c := range children {
			if strings.Contains(c, "&") {
				out = append(out, strings.ReplaceAll(c, "&", p))
			} else {
				out = append(out, p+" "+c)
			}
		}
	}
	return out
}

// expandMixinCall implements §4.4's mixin expansion with arity-based
// overload resolution and guard evaluation.
func (e *Evaluator) expandMixinCall(call *dst.MixinCall, parentSelectors []string) ([]EvaluatedDeclaration, []EvaluatedNode, error) {
	candidates := e.mixins.Candidates(call.Name)
	if len(candidates) == 0 {
		// Namespaced calls ("#ns > .mixin()") are joined by scanMixinName
		// into "#ns .mixin"; registered definitions carry only their own
		// leaf name, so fall back to matching on the call's last segment.
		if parts := strings.Fields(call.Name); len(parts) > 1 {
			candidates = e.mixins.Candidates(parts[len(parts)-1])
		}
	}
	if len(candidates) == 0 {
		return nil, nil, evalErrorf("no mixin named %s", call.Name)
	}

	for _, def := range candidates {
		required := 0
		for _, p := range def.Params {
			if p.Default == nil {
				required++
			}
		}
		if len(call.Args) < required || len(call.Args) > len(def.Params) {
			continue
		}

		e.vars.Push()
		e.mixins.Push()

		bindErr := func() error {
			for i, param := range def.Params {
				var vv VariableValue
				if i < len(call.Args) {
					arg := call.Args[i]
					if arg.IsRuleset() {
						vv = VariableValue{IsDetached: true, DetachedBody: arg.Ruleset, CapturedScopes: e.vars.Snapshot()}
					} else {
						text, err := ResolveValue(*arg.Value, e.vars)
						if err != nil {
							return err
						}
						vv = VariableValue{Text: text}
					}
				} else if param.Default != nil {
					text, err := ResolveValue(*param.Default, e.vars)
					if err != nil {
						return err
					}
					vv = VariableValue{Text: text}
				}
				e.vars.Set(param.Name, vv)
			}
			return nil
		}()
		if bindErr != nil {
			e.vars.Pop()
			e.mixins.Pop()
			return nil, nil, bindErr
		}

		if def.Guard != "" {
			ok, err := e.evalGuard(def.Guard)
			if err != nil {
				e.vars.Pop()
				e.mixins.Pop()
				return nil, nil, err
			}
			if !ok {
				e.vars.Pop()
				e.mixins.Pop()
				continue
			}
		}

		res, err := e.evalBody(def.Body, parentSelectors)
		e.vars.Pop()
		e.mixins.Pop()
		if err != nil {
			return nil, nil, err
		}
		if call.Important {
			markImportant(res.declarations)
			markImportantNodes(res.pending)
		}
		return res.declarations, res.pending, nil
	}

	return nil, nil, evalErrorf("no matching mixin overload for %s (%d args)", call.Name, len(call.Args))
}

// evalGuard evaluates a `when (...)` guard's raw text against the current
// variable scope using the expr-lang-backed comparison evaluator.
func (e *Evaluator) evalGuard(raw string) (bool, error) {
	parsed, err := guardeval.ParseExpression(raw)
	if err != nil {
		return false, evalErrorf("malformed guard %q: %v", raw, err)
	}
	ev := guardeval.NewEvaluator(e.varsAsMap())
	ok, err := ev.EvalBool(parsed)
	if err != nil {
		return false, evalErrorf("guard evaluation failed: %v", err)
	}
	return ok, nil
}

func (e *Evaluator) varsAsMap() map[string]string {
	out := map[string]string{}
	for _, frame := range e.vars.frames {
		for k, v := range frame {
			if !v.IsDetached {
				out[k] = v.Text
			}
		}
	}
	return out
}

// evalDetachedCall invokes a variable bound to a detached ruleset using the
// caller's current scopes augmented by the ruleset's captured scope.
func (e *Evaluator) evalDetachedCall(n *dst.DetachedCall, parentSelectors []string) ([]EvaluatedDeclaration, []EvaluatedNode, error) {
	vv, ok := e.vars.Lookup(n.VariableName)
	if !ok {
		return nil, nil, evalErrorf("undefined variable: @%s", n.VariableName)
	}
	if !vv.IsDetached {
		return nil, nil, evalErrorf("@%s is not a detached ruleset", n.VariableName)
	}

	e.vars.Push()
	if vv.CapturedScopes != nil {
		for _, frame := range vv.CapturedScopes.frames {
			for k, fv := range frame {
				e.vars.Set(k, fv)
			}
		}
	}
	e.mixins.Push()

	res, err := e.evalBody(vv.DetachedBody, parentSelectors)
	e.vars.Pop()
	e.mixins.Pop()
	if err != nil {
		return nil, nil, err
	}
	return res.declarations, res.pending, nil
}

// evalEach implements the supplemental each() loop.
func (e *Evaluator) evalEach(n *dst.Each, parentSelectors []string) ([]EvaluatedDeclaration, []EvaluatedNode, error) {
	listText, err := ResolveValue(n.ListExpr, e.vars)
	if err != nil {
		return nil, nil, err
	}
	items := splitEachItems(listText)

	var declarations []EvaluatedDeclaration
	var pending []EvaluatedNode
	for _, item := range items {
		e.vars.Push()
		e.mixins.Push()
		e.vars.Set(n.VarName, VariableValue{Text: item})
		res, err := e.evalBody(n.Body, parentSelectors)
		e.vars.Pop()
		e.mixins.Pop()
		if err != nil {
			return nil, nil, err
		}
		declarations = append(declarations, res.declarations...)
		pending = append(pending, res.pending...)
	}
	return declarations, pending, nil
}

func splitEachItems(s string) []string {
	l := expression.ParseList(s)
	if len(l.Items) > 0 {
		return l.Items
	}
	return strings.Fields(s)
}

func (e *Evaluator) recordExtend(selectors []string, ext *dst.Extend) {
	bearer := make([]string, len(selectors))
	copy(bearer, selectors)
	e.extends = append(e.extends, pendingExtend{bearer: bearer, target: ext.Selector, all: ext.All})
}

func (e *Evaluator) applyExtends(result *EvaluatedStylesheet) {
	for _, ext := range e.extends {
		applyExtendToNodes(result.Nodes, ext)
	}
}

func applyExtendToNodes(nodes []EvaluatedNode, ext pendingExtend) {
	for i := range nodes {
		if !nodes[i].IsAtRule {
			matched := false
			for _, sel := range nodes[i].Selectors {
				if sel == ext.target || (ext.all && strings.Contains(sel, ext.target)) {
					matched = true
					break
				}
			}
			if matched {
				for _, b := range ext.bearer {
					if !containsStr(nodes[i].Selectors, b) {
						nodes[i].Selectors = append(nodes[i].Selectors, b)
					}
				}
			}
		}
		if len(nodes[i].Children) > 0 {
			applyExtendToNodes(nodes[i].Children, ext)
		}
	}
}

// markImportant forces !important on every declaration in decls (the
// declarations a mixin call with a trailing `!important` produced);
// markImportantNodes applies it recursively to nested rule nodes.
func markImportant(decls []EvaluatedDeclaration) {
	for i := range decls {
		decls[i].Important = true
	}
}

func markImportantNodes(nodes []EvaluatedNode) {
	for i := range nodes {
		markImportant(nodes[i].Declarations)
		markImportantNodes(nodes[i].Children)
	}
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
