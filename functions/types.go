package functions

import "github.com/dellyoung/lessgo/internal/strings"

// IsNumber reports whether value parses as a number, with an optional unit
// suffix (e.g. "10", "10px", "-3.5em").
func IsNumber(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	i := 0
	if i < len(value) && (value[i] == '-' || value[i] == '+') {
		i++
	}
	hasDigit := false
	for i < len(value) && (value[i] >= '0' && value[i] <= '9' || value[i] == '.') {
		if value[i] >= '0' && value[i] <= '9' {
			hasDigit = true
		}
		i++
	}
	return hasDigit
}

// IsString reports whether value is a quoted string literal.
func IsString(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return false
	}
	return (value[0] == '"' && value[len(value)-1] == '"') ||
		(value[0] == '\'' && value[len(value)-1] == '\'')
}

// IsColor reports whether value is a hex, rgb()/rgba(), hsl()/hsla(), or
// named CSS color.
func IsColor(value string) bool {
	value = strings.TrimSpace(value)

	if strings.HasPrefix(value, "#") {
		hex := value[1:]
		if len(hex) == 3 || len(hex) == 4 || len(hex) == 6 || len(hex) == 8 {
			for _, ch := range hex {
				if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')) {
					return false
				}
			}
			return true
		}
		return false
	}

	if strings.HasPrefix(value, "rgb") {
		return strings.HasPrefix(value, "rgb(") || strings.HasPrefix(value, "rgba(")
	}
	if strings.HasPrefix(value, "hsl") {
		return strings.HasPrefix(value, "hsl(") || strings.HasPrefix(value, "hsla(")
	}

	return namedColors[value]
}

var namedColors = map[string]bool{
	"red": true, "green": true, "blue": true, "yellow": true, "orange": true,
	"purple": true, "pink": true, "cyan": true, "magenta": true, "white": true,
	"black": true, "gray": true, "grey": true, "silver": true, "gold": true,
	"maroon": true, "navy": true, "teal": true, "olive": true, "lime": true,
	"aqua": true, "fuchsia": true, "indigo": true, "turquoise": true, "khaki": true,
	"tomato": true, "coral": true, "salmon": true, "chocolate": true, "peru": true,
	"wheat": true, "tan": true, "beige": true, "ivory": true, "bisque": true,
	"brown": true, "transparent": true,
}

// IsKeyword reports whether value is a common CSS keyword (not a length,
// color, or string).
func IsKeyword(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return cssKeywords[value]
}

var cssKeywords = map[string]bool{
	"inherit": true, "initial": true, "unset": true, "revert": true,
	"auto": true, "none": true, "transparent": true,
	"solid": true, "dashed": true, "dotted": true, "double": true,
	"groove": true, "ridge": true, "inset": true, "outset": true,
	"left": true, "right": true, "center": true, "top": true, "bottom": true, "middle": true,
	"absolute": true, "relative": true, "fixed": true, "static": true,
	"block": true, "inline": true, "inline-block": true, "flex": true, "grid": true,
	"bold": true, "italic": true, "normal": true,
}

// IsURL reports whether value is a url(...) reference.
func IsURL(value string) bool {
	value = strings.TrimSpace(value)
	return strings.HasPrefix(value, "url(") && strings.HasSuffix(value, ")")
}

// IsPixel reports whether value is a number suffixed with "px".
func IsPixel(value string) bool {
	value = strings.TrimSpace(value)
	return strings.HasSuffix(value, "px") && IsNumber(strings.TrimSuffix(value, "px"))
}

// IsPercentage reports whether value is a number suffixed with "%".
func IsPercentage(value string) bool {
	value = strings.TrimSpace(value)
	return strings.HasSuffix(value, "%") && IsNumber(strings.TrimSuffix(value, "%"))
}

// IsUnit reports whether value is a number followed directly by a unit
// suffix (any CSS unit, or "%") — e.g. "10px", "2.5em", "50%" — as opposed
// to a bare unitless number.
func IsUnit(value string) bool {
	value = strings.TrimSpace(value)
	i := 0
	if i < len(value) && (value[i] == '-' || value[i] == '+') {
		i++
	}
	hasDigit := false
	for i < len(value) && (value[i] >= '0' && value[i] <= '9' || value[i] == '.') {
		if value[i] >= '0' && value[i] <= '9' {
			hasDigit = true
		}
		i++
	}
	if !hasDigit {
		return false
	}
	rest := value[i:]
	if rest == "" {
		return false
	}
	for _, ch := range rest {
		if ch == '%' {
			continue
		}
		if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')) {
			return false
		}
	}
	return true
}

// IsList reports whether value looks like a comma- or space-separated list
// of more than one item.
func IsList(value string) bool {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ",") {
		return true
	}
	return len(strings.Fields(value)) > 1
}
