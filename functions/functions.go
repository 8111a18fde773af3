// Package functions is the consolidated builtin LESS function registry.
//
// The retrieval sources this module grew from carried three overlapping
// copies of the same ~70 functions (expression.Call, renderer's type/math
// helpers, and a standalone functions package). This is the single
// canonical copy: color/math/string/list/type builtins shared by the
// whole-value and inline-substitution evaluation paths.
package functions

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dellyoung/lessgo/expression"
	"github.com/dellyoung/lessgo/internal/strings"
)

// Func is a builtin taking already-evaluated argument strings and producing
// a LESS value string.
type Func func(args []string) (string, error)

var registry map[string]Func

func init() {
	registry = map[string]Func{
		// Color constructors
		"rgb":   callRGB,
		"rgba":  callRGBA,
		"hsl":   callHSL,
		"hsla":  callHSLA,

		// Color manipulation
		"lighten":    colorAndPercent(func(c *expression.Color, p float64) *expression.Color { return c.Lighten(p) }),
		"darken":     colorAndPercent(func(c *expression.Color, p float64) *expression.Color { return c.Darken(p) }),
		"saturate":   colorAndPercent(func(c *expression.Color, p float64) *expression.Color { return c.Saturate(p) }),
		"desaturate": colorAndPercent(func(c *expression.Color, p float64) *expression.Color { return c.Desaturate(p) }),
		"spin":       callSpin,
		"fadein":     callFadein,
		"fadeout":    callFadeout,
		"fade":       callFade,
		"mix":        callMix,
		"tint":       colorAndPercent(func(c *expression.Color, p float64) *expression.Color { return c.Tint(p) }),
		"shade":      colorAndPercent(func(c *expression.Color, p float64) *expression.Color { return c.Shade(p) }),
		"greyscale":  callGreyscale,
		"overlay":    callOverlay,
		"contrast":   callContrast,

		// Color channel extraction
		"red":        channel(func(c *expression.Color) float64 { return float64(c.R) }),
		"green":      channel(func(c *expression.Color) float64 { return float64(c.G) }),
		"blue":       channel(func(c *expression.Color) float64 { return float64(c.B) }),
		"alpha":      channel(func(c *expression.Color) float64 { return c.A }),
		"hue":        hslChannel(func(h, s, l float64) float64 { return h }),
		"saturation": hslChannel(func(h, s, l float64) float64 { return s }),
		"lightness":  hslChannel(func(h, s, l float64) float64 { return l }),
		"luma":       callLuma,

		// Math
		"ceil":       mathOne(math.Ceil),
		"floor":      mathOne(math.Floor),
		"round":      mathOne(math.Round),
		"sqrt":       mathOne(math.Sqrt),
		"abs":        mathOne(math.Abs),
		"percentage": callPercentage,
		"pow":        callPow,
		"min":        callMinMax(true),
		"max":        callMinMax(false),
		"mod":        callMod,

		// Type predicates
		"iscolor":      predicate(IsColor),
		"isnumber":     predicate(IsNumber),
		"isstring":     predicate(IsString),
		"iskeyword":    predicate(IsKeyword),
		"isurl":        predicate(IsURL),
		"ispixel":      predicate(IsPixel),
		"ispercentage": predicate(IsPercentage),
		"isunit":       predicate(IsUnit),
		"isruleset":    predicate(func(string) bool { return false }),
		"islist":       predicate(IsList),
		"isdefined":    predicate(func(string) bool { return true }),
		"boolean":      callBoolean,

		// String/list utilities
		"escape":  callEscape,
		"e":       callE,
		"format":  callFormat,
		"replace": callReplace,
		"extract": callExtract,
		"length":  callLength,
		"range":   callRange,
		"if":      callIf,
	}
}

// IsRegistered reports whether name is a known builtin.
func IsRegistered(name string) bool {
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// Call dispatches to a registered builtin by name with already-evaluated
// (but not yet unit-stripped) argument strings.
func Call(name string, args []string) (string, error) {
	fn, ok := registry[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown function: %s", name)
	}
	return fn(args)
}

func requireArgs(name string, args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("%s: expected %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func parseColorArg(s string) (*expression.Color, error) {
	return expression.ParseColor(strings.TrimSpace(s))
}

// parsePercentOrFraction accepts "N%" (0-100) or a bare fraction (0-1) and
// returns the value on the 0-100 scale used by the Color HSL methods.
func parsePercentOrFraction(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage: %s", s)
		}
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", s)
	}
	return v * 100, nil
}

// parseFraction accepts "N%" or a bare fraction and returns it as a 0-1 fraction.
func parseFraction(s string) (float64, error) {
	v, err := parsePercentOrFraction(s)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

func colorAndPercent(op func(*expression.Color, float64) *expression.Color) Func {
	return func(args []string) (string, error) {
		if err := requireArgs("color function", args, 2); err != nil {
			return "", err
		}
		c, err := parseColorArg(args[0])
		if err != nil {
			return "", err
		}
		p, err := parsePercentOrFraction(args[1])
		if err != nil {
			return "", err
		}
		return op(c, p).String(), nil
	}
}

func callSpin(args []string) (string, error) {
	if err := requireArgs("spin", args, 2); err != nil {
		return "", err
	}
	c, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	deg, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
	if err != nil {
		return "", fmt.Errorf("invalid spin degrees: %s", args[1])
	}
	return c.Spin(deg).String(), nil
}

func callFade(args []string) (string, error) {
	if err := requireArgs("fade", args, 2); err != nil {
		return "", err
	}
	c, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	f, err := parseFraction(args[1])
	if err != nil {
		return "", err
	}
	return c.Fade(f).String(), nil
}

func callFadein(args []string) (string, error) {
	if err := requireArgs("fadein", args, 2); err != nil {
		return "", err
	}
	c, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	f, err := parseFraction(args[1])
	if err != nil {
		return "", err
	}
	return c.Fade(c.A + f).String(), nil
}

func callFadeout(args []string) (string, error) {
	if err := requireArgs("fadeout", args, 2); err != nil {
		return "", err
	}
	c, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	f, err := parseFraction(args[1])
	if err != nil {
		return "", err
	}
	return c.Fade(c.A - f).String(), nil
}

func callMix(args []string) (string, error) {
	if err := requireArgs("mix", args, 2); err != nil {
		return "", err
	}
	c1, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	c2, err := parseColorArg(args[1])
	if err != nil {
		return "", err
	}
	weight := 50.0
	if len(args) > 2 {
		weight, err = parsePercentOrFraction(args[2])
		if err != nil {
			return "", err
		}
	}
	return c1.Mix(c2, weight).String(), nil
}

func callGreyscale(args []string) (string, error) {
	if err := requireArgs("greyscale", args, 1); err != nil {
		return "", err
	}
	c, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	return c.Greyscale().String(), nil
}

func callOverlay(args []string) (string, error) {
	if err := requireArgs("overlay", args, 2); err != nil {
		return "", err
	}
	a, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	b, err := parseColorArg(args[1])
	if err != nil {
		return "", err
	}
	return expression.Overlay(a, b).String(), nil
}

func callContrast(args []string) (string, error) {
	if err := requireArgs("contrast", args, 1); err != nil {
		return "", err
	}
	c, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	dark := "#000000"
	light := "#ffffff"
	threshold := 0.43
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		dark = args[1]
	}
	if len(args) > 2 && strings.TrimSpace(args[2]) != "" {
		light = args[2]
	}
	if len(args) > 3 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64); err == nil {
			threshold = v
		}
	}
	luma := relativeLuma(c)
	if luma < threshold {
		lightC, err := parseColorArg(light)
		if err != nil {
			return "", err
		}
		return lightC.String(), nil
	}
	darkC, err := parseColorArg(dark)
	if err != nil {
		return "", err
	}
	return darkC.String(), nil
}

func relativeLuma(c *expression.Color) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func channel(extract func(*expression.Color) float64) Func {
	return func(args []string) (string, error) {
		if err := requireArgs("channel function", args, 1); err != nil {
			return "", err
		}
		c, err := parseColorArg(args[0])
		if err != nil {
			return "", err
		}
		return formatNumber(extract(c)), nil
	}
}

func hslChannel(extract func(h, s, l float64) float64) Func {
	return func(args []string) (string, error) {
		if err := requireArgs("hsl channel function", args, 1); err != nil {
			return "", err
		}
		c, err := parseColorArg(args[0])
		if err != nil {
			return "", err
		}
		h, s, l := c.ToHSL()
		return formatNumber(extract(h, s, l)), nil
	}
}

func callLuma(args []string) (string, error) {
	if err := requireArgs("luma", args, 1); err != nil {
		return "", err
	}
	c, err := parseColorArg(args[0])
	if err != nil {
		return "", err
	}
	return formatNumber(relativeLuma(c) * 100), nil
}

func callRGB(args []string) (string, error) {
	if err := requireArgs("rgb", args, 3); err != nil {
		return "", err
	}
	c, err := expression.ParseColor(fmt.Sprintf("rgb(%s, %s, %s)", args[0], args[1], args[2]))
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

func callRGBA(args []string) (string, error) {
	if err := requireArgs("rgba", args, 4); err != nil {
		return "", err
	}
	c, err := expression.ParseColor(fmt.Sprintf("rgba(%s, %s, %s, %s)", args[0], args[1], args[2], args[3]))
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

func callHSL(args []string) (string, error) {
	if err := requireArgs("hsl", args, 3); err != nil {
		return "", err
	}
	c, err := expression.ParseColor(fmt.Sprintf("hsl(%s, %s, %s)", args[0], args[1], args[2]))
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

func callHSLA(args []string) (string, error) {
	if err := requireArgs("hsla", args, 4); err != nil {
		return "", err
	}
	c, err := expression.ParseColor(fmt.Sprintf("hsla(%s, %s, %s, %s)", args[0], args[1], args[2], args[3]))
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

func mathOne(op func(float64) float64) Func {
	return func(args []string) (string, error) {
		if err := requireArgs("math function", args, 1); err != nil {
			return "", err
		}
		v, unit, err := parseNumberWithUnit(args[0])
		if err != nil {
			return "", err
		}
		return formatNumber(op(v)) + unit, nil
	}
}

func callPercentage(args []string) (string, error) {
	if err := requireArgs("percentage", args, 1); err != nil {
		return "", err
	}
	v, _, err := parseNumberWithUnit(args[0])
	if err != nil {
		return "", err
	}
	return formatNumber(v*100) + "%", nil
}

func callPow(args []string) (string, error) {
	if err := requireArgs("pow", args, 2); err != nil {
		return "", err
	}
	base, unit, err := parseNumberWithUnit(args[0])
	if err != nil {
		return "", err
	}
	exp, _, err := parseNumberWithUnit(args[1])
	if err != nil {
		return "", err
	}
	return formatNumber(math.Pow(base, exp)) + unit, nil
}

func callMinMax(isMin bool) Func {
	return func(args []string) (string, error) {
		if err := requireArgs("min/max", args, 1); err != nil {
			return "", err
		}
		best, unit, err := parseNumberWithUnit(args[0])
		if err != nil {
			return "", err
		}
		for _, a := range args[1:] {
			v, _, err := parseNumberWithUnit(a)
			if err != nil {
				return "", err
			}
			if (isMin && v < best) || (!isMin && v > best) {
				best = v
			}
		}
		return formatNumber(best) + unit, nil
	}
}

func callMod(args []string) (string, error) {
	if err := requireArgs("mod", args, 2); err != nil {
		return "", err
	}
	a, unit, err := parseNumberWithUnit(args[0])
	if err != nil {
		return "", err
	}
	b, _, err := parseNumberWithUnit(args[1])
	if err != nil {
		return "", err
	}
	if b == 0 {
		return "", fmt.Errorf("mod: division by zero")
	}
	return formatNumber(math.Mod(a, b)) + unit, nil
}

func predicate(p func(string) bool) Func {
	return func(args []string) (string, error) {
		if len(args) < 1 {
			return "false", nil
		}
		if p(strings.TrimSpace(args[0])) {
			return "true", nil
		}
		return "false", nil
	}
}

// callBoolean implements the real LESS boolean() function: true only for the
// literal keyword "true". This is deliberately stricter than guard
// evaluation (see the evaluator package), which interprets comparisons.
func callBoolean(args []string) (string, error) {
	if len(args) < 1 {
		return "false", nil
	}
	if strings.TrimSpace(args[0]) == "true" {
		return "true", nil
	}
	return "false", nil
}

func callEscape(args []string) (string, error) {
	if err := requireArgs("escape", args, 1); err != nil {
		return "", err
	}
	return escapeURL(unquote(args[0])), nil
}

func callE(args []string) (string, error) {
	if err := requireArgs("e", args, 1); err != nil {
		return "", err
	}
	return unquote(args[0]), nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

var escapeReplacer = strings.NewReplacer(
	" ", "%20", "!", "%21", "\"", "%22", "#", "%23", "$", "%24", "%", "%25",
	"&", "%26", "'", "%27", "(", "%28", ")", "%29", "*", "%2A", "+", "%2B",
	",", "%2C", "/", "%2F", ":", "%3A", ";", "%3B", "<", "%3C", "=", "%3D",
	">", "%3E", "?", "%3F", "@", "%40", "[", "%5B", "]", "%5D",
)

func escapeURL(s string) string {
	return escapeReplacer.Replace(s)
}

func callFormat(args []string) (string, error) {
	if err := requireArgs("format", args, 1); err != nil {
		return "", err
	}
	tmpl := unquote(args[0])
	rest := args[1:]
	idx := 0
	var out []byte
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '%' && i+1 < len(tmpl) {
			switch tmpl[i+1] {
			case 's', 'd', 'a':
				if idx < len(rest) {
					out = append(out, []byte(unquote(rest[idx]))...)
					idx++
				}
				i++
				continue
			case '%':
				out = append(out, '%')
				i++
				continue
			}
		}
		out = append(out, tmpl[i])
	}
	return string(out), nil
}

func callReplace(args []string) (string, error) {
	if err := requireArgs("replace", args, 3); err != nil {
		return "", err
	}
	return strings.Replace(unquote(args[0]), unquote(args[1]), unquote(args[2]), -1), nil
}

func callExtract(args []string) (string, error) {
	if err := requireArgs("extract", args, 2); err != nil {
		return "", err
	}
	list := splitListArg(args[0])
	idx, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil || idx < 1 || idx > len(list) {
		return "", fmt.Errorf("extract: index out of range")
	}
	return list[idx-1], nil
}

func callLength(args []string) (string, error) {
	if err := requireArgs("length", args, 1); err != nil {
		return "", err
	}
	return strconv.Itoa(len(splitListArg(args[0]))), nil
}

func splitListArg(s string) []string {
	l := expression.ParseList(strings.TrimSpace(s))
	if len(l.Items) > 0 {
		return l.Items
	}
	return strings.Fields(s)
}

func callRange(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("range: expected at least 1 argument")
	}
	var start, end, step float64
	step = 1
	var unit string
	var err error
	switch len(args) {
	case 1:
		end, unit, err = parseNumberWithUnit(args[0])
		start = 1
	case 2:
		start, _, err = parseNumberWithUnit(args[0])
		if err == nil {
			end, unit, err = parseNumberWithUnit(args[1])
		}
	default:
		start, _, err = parseNumberWithUnit(args[0])
		if err == nil {
			end, unit, err = parseNumberWithUnit(args[1])
		}
		if err == nil {
			step, _, err = parseNumberWithUnit(args[2])
		}
	}
	if err != nil {
		return "", err
	}
	if step == 0 {
		return "", fmt.Errorf("range: step cannot be zero")
	}
	var items []string
	for v := start; (step > 0 && v <= end) || (step < 0 && v >= end); v += step {
		items = append(items, formatNumber(v)+unit)
	}
	return strings.Join(items, ", "), nil
}

func callIf(args []string) (string, error) {
	if err := requireArgs("if", args, 3); err != nil {
		return "", err
	}
	cond := strings.TrimSpace(args[0])
	truthy := cond == "true"
	if !truthy {
		if v, err := strconv.ParseFloat(cond, 64); err == nil {
			truthy = v != 0
		}
	}
	if truthy {
		return args[1], nil
	}
	return args[2], nil
}

func parseNumberWithUnit(s string) (float64, string, error) {
	v, err := expression.Parse(strings.TrimSpace(s))
	if err != nil {
		return 0, "", err
	}
	unit := v.Unit
	if unit == "" {
		unit = v.OriginalUnit
	}
	return v.Number, unit, nil
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}
