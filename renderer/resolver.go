package renderer

import (
	"fmt"

	"github.com/dellyoung/lessgo/dst"
	"github.com/dellyoung/lessgo/expression"
	"github.com/dellyoung/lessgo/functions"
	"github.com/dellyoung/lessgo/internal/strings"
)

// EvalError is a semantic failure discovered while evaluating values,
// selectors, or mixin calls.
type EvalError struct {
	Cause string
}

func (e *EvalError) Error() string { return e.Cause }

func evalErrorf(format string, args ...interface{}) *EvalError {
	return &EvalError{Cause: fmt.Sprintf(format, args...)}
}

// ResolveValue concatenates a Value's pieces (resolving variable references
// against vars) and runs the resulting text through the whole-value color
// function, inline substitution, and arithmetic evaluation pipeline from
// §4.5.
func ResolveValue(v dst.Value, vars *VarStack) (string, error) {
	text, err := concatValue(v, vars)
	if err != nil {
		return "", err
	}
	return evaluateText(text)
}

// ResolveText runs the §4.5 pipeline directly on already-substituted text
// (used for recursively evaluating function arguments).
func ResolveText(text string) (string, error) {
	return evaluateText(text)
}

func concatValue(v dst.Value, vars *VarStack) (string, error) {
	var out []byte
	for _, p := range v.Pieces {
		switch p.Kind {
		case dst.PieceLiteral:
			out = append(out, p.Text...)
		case dst.PieceVariableRef:
			val, ok := vars.Lookup(p.Text)
			if !ok {
				return "", evalErrorf("undefined variable: @%s", p.Text)
			}
			if val.IsDetached {
				return "", evalErrorf("variable @%s is a detached ruleset, not a value", p.Text)
			}
			out = append(out, val.Text...)
		}
	}
	return string(out), nil
}

// evaluateText implements §4.5 steps 1-3 on a fully variable-substituted
// string.
func evaluateText(text string) (string, error) {
	text = strings.TrimSpace(text)

	if name, ok := expression.LooksLikeCall(text); ok && functions.IsRegistered(name) {
		if result, err := callFunction(text); err == nil {
			return result, nil
		}
		// Malformed arguments for what looked like a whole-value call fall
		// through to inline substitution / arithmetic, matching the
		// "well-formed occurrence" qualifier in §4.5.
	}

	substituted, changed, err := substituteInlineCalls(text)
	if err != nil {
		return "", err
	}
	if changed {
		text = substituted
	}

	if result, ok := evalArithmetic(text); ok {
		return result, nil
	}

	return text, nil
}

// callFunction parses "name(args)" and dispatches to the functions
// registry, recursively evaluating each argument first.
func callFunction(text string) (string, error) {
	name, args, err := expression.ParseFunctionCall(text)
	if err != nil {
		return "", err
	}
	argStrs := make([]string, len(args))
	for i, a := range args {
		raw := a.Raw
		if raw == "" {
			raw = a.String()
		}
		evaluated, err := evaluateText(raw)
		if err != nil {
			return "", err
		}
		argStrs[i] = evaluated
	}
	return functions.Call(name, argStrs)
}

// substituteInlineCalls scans text for "name(args)" occurrences anywhere in
// the string and replaces each well-formed, registered occurrence with its
// computed result; non-matching substrings pass through unchanged.
func substituteInlineCalls(text string) (string, bool, error) {
	var out []byte
	changed := false
	i := 0
	for i < len(text) {
		ch := text[i]
		if isIdentStartByte(ch) {
			j := i
			for j < len(text) && isIdentCharByte(text[j]) {
				j++
			}
			name := text[i:j]
			if j < len(text) && text[j] == '(' && functions.IsRegistered(strings.ToLower(name)) {
				end, ok := matchParens(text, j)
				if ok {
					call := text[i : end+1]
					result, err := callFunction(call)
					if err == nil {
						out = append(out, result...)
						changed = true
						i = end + 1
						continue
					}
				}
			}
			out = append(out, name...)
			i = j
			continue
		}
		out = append(out, ch)
		i++
	}
	return string(out), changed, nil
}

func isIdentStartByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '-'
}

func isIdentCharByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}

// matchParens returns the index of the ')' matching the '(' at open,
// honoring nested parens and quoted strings.
func matchParens(s string, open int) (int, bool) {
	depth := 0
	inString := byte(0)
	for i := open; i < len(s); i++ {
		ch := s[i]
		if inString != 0 {
			if ch == '\\' {
				i++
				continue
			}
			if ch == inString {
				inString = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// evalArithmetic implements §4.5 step 3: tokenizes
// "number[unit]? (op number[unit]?)+" and evaluates strictly left-to-right
// with no operator precedence.
func evalArithmetic(text string) (string, bool) {
	toks, ok := tokenizeArithmetic(text)
	if !ok || len(toks) < 3 || len(toks)%2 != 1 {
		return "", false
	}

	// expression.Parse turns "50%" into the fraction 0.5; arithmetic keeps
	// percentages as a unit instead ("50% + 10%" is "60%").
	asPercent := func(v *expression.Value) *expression.Value {
		if v.OriginalUnit == "%" && v.Unit == "" {
			return expression.NewValue(v.Number*100, "%")
		}
		return v
	}
	acc, err := expression.Parse(toks[0])
	if err != nil {
		return "", false
	}
	acc = asPercent(acc)
	for i := 1; i < len(toks); i += 2 {
		op := toks[i]
		rhsTok := toks[i+1]
		rhs, err := expression.Parse(rhsTok)
		if err != nil {
			return "", false
		}
		rhs = asPercent(rhs)
		var next *expression.Value
		switch op {
		case "+":
			next, err = acc.Add(rhs)
		case "-":
			next, err = acc.Subtract(rhs)
		case "*":
			next, err = acc.Multiply(rhs)
		case "/":
			next, err = acc.Divide(rhs)
		default:
			return "", false
		}
		if err != nil {
			return "", false
		}
		acc = next
	}
	return acc.String(), true
}

// tokenizeArithmetic splits text into alternating operand/operator tokens,
// honoring a leading unary minus on the first operand and on any operand
// following an operator. Returns ok=false if the text doesn't match the
// "number[unit]? (op number[unit]?)+" shape at all (e.g. it's a keyword,
// color, or multi-word value list).
func tokenizeArithmetic(text string) ([]string, bool) {
	var toks []string
	i := 0
	n := len(text)
	expectOperand := true
	for i < n {
		for i < n && text[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		if expectOperand {
			start := i
			if text[i] == '-' || text[i] == '+' {
				i++
			}
			digitsStart := i
			for i < n && (text[i] >= '0' && text[i] <= '9' || text[i] == '.') {
				i++
			}
			if i == digitsStart {
				return nil, false
			}
			for i < n && (isIdentCharByte(text[i]) || text[i] == '%') {
				i++
			}
			toks = append(toks, text[start:i])
			expectOperand = false
			continue
		}
		ch := text[i]
		if ch == '+' || ch == '-' || ch == '*' || ch == '/' {
			toks = append(toks, string(ch))
			i++
			expectOperand = true
			continue
		}
		return nil, false
	}
	if expectOperand {
		return nil, false
	}
	return toks, true
}
