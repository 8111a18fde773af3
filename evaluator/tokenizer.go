package evaluator

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/dellyoung/lessgo/internal/strings"
)

type TokenType int

const (
	TokenIdent TokenType = iota
	TokenOp
	TokenParen
	TokenValue
)

type Token struct {
	Type TokenType
	Text string
}

func IsExpression(tokens []Token) bool {
	for _, tok := range tokens {
		if tok.Type == TokenOp {
			return true
		}
	}
	return false
}

func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	runes := []rune(input)
	i := 0

	var current string
	var open bool
	var space bool
	var parenDepth int // Track nesting depth of parentheses

	for i < len(runes) {
		r := runes[i]

		if open {
			if r == '(' {
				parenDepth++
				current += string(r)
			} else if r == ')' {
				if parenDepth > 0 {
					parenDepth--
					current += string(r)
				} else {
					// This closes our function call
					current += string(r)

					// Append to last token if it exists, otherwise create new token
					if len(tokens) > 0 {
						tokens[len(tokens)-1].Text += current
					} else {
						tokens = append(tokens, Token{Type: TokenValue, Text: current})
					}

					current = ""
					open = false
				}
			} else {
				current += string(r)
			}
			i++
			continue
		}

		// skip spaces
		if unicode.IsSpace(r) {
			space = true
			i++
			continue
		}

		if r == '(' {
			// Treat as function call if it directly follows an identifier or a
			// bare value token (e.g. "rgb("); otherwise it's grouping parentheses
			if len(tokens) > 0 && (tokens[len(tokens)-1].Type == TokenIdent ||
				(tokens[len(tokens)-1].Type == TokenValue && !space)) {
				open = true
				current = string(r)
				i++
				continue
			}
			// Otherwise fall through to treat as regular paren
		}

		// parentheses
		if r == '(' || r == ')' {
			tokens = append(tokens, Token{Type: TokenParen, Text: string(r)})
			i++
			continue
		}

		// operators: = > <
		if space && (r == '=' || r == '>' || r == '<' || r == '*' || r == '+' || r == '-' || r == '/') {
			body := string(r)
			if r == '*' {
				//body = "\\*"
			}
			tokens = append(tokens, Token{Type: TokenOp, Text: body})
			space = false
			i++
			continue
		}
		space = false

		// identifiers (@var)
		if r == '@' {
			start := i
			i++
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, Token{Type: TokenIdent, Text: string(runes[start:i])})
			continue
		}

		// bare values (dark)
		if unicode.IsLetter(r) {
			start := i
			i++
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, Token{Type: TokenValue, Text: string(runes[start:i])})
			continue
		}

		if unicode.IsDigit(r) {
			start := i
			i++
			for i < len(runes) && (unicode.IsDigit(runes[i]) || unicode.IsLetter(runes[i]) || runes[i] == '%' || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, Token{Type: TokenValue, Text: string(runes[start:i])})
			continue
		}

		return []Token{
			Token{Type: TokenValue, Text: string(input)},
		}, nil
	}

	return tokens, nil
}

// ParseExpression converts input like "(@var = dark)" into `( var == "dark" )`
// (tokens are joined with single spaces). Numeric values (with or without a CSS unit, e.g. "10px"
// or "50%") are emitted as bare numbers so expr-lang compares them
// numerically; everything else is quoted as a string literal.
func ParseExpression(input string) (string, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return "", err
	}

	out := make([]string, 0, len(tokens))

	for _, t := range tokens {
		switch t.Type {
		case TokenParen:
			out = append(out, t.Text)

		case TokenIdent:
			// drop '@'
			out = append(out, strings.TrimPrefix(t.Text, "@"))

		case TokenOp:
			// map "=" to "==", keep others
			if t.Text == "=" {
				out = append(out, "==")
			} else {
				out = append(out, t.Text)
			}

		case TokenValue:
			if num, ok := numericLiteral(t.Text); ok {
				out = append(out, num)
			} else {
				out = append(out, fmt.Sprintf("%q", t.Text))
			}
		}
	}

	return strings.Join(out, " "), nil
}

// numericLiteral strips a trailing CSS unit or "%" from a value token and
// reports whether the remainder is a plain number, e.g. "10px" -> "10",
// "50%" -> "0.5".
func numericLiteral(text string) (string, bool) {
	body := text
	isPercent := false
	if strings.HasSuffix(body, "%") {
		isPercent = true
		body = body[:len(body)-1]
	} else {
		for _, unit := range []string{"px", "em", "rem", "pt", "cm", "mm", "in", "pc", "ex", "ch", "vw", "vh", "vmin", "vmax", "deg", "s", "ms"} {
			if strings.HasSuffix(body, unit) && len(body) > len(unit) {
				body = body[:len(body)-len(unit)]
				break
			}
		}
	}
	if body == "" {
		return "", false
	}
	for i, r := range body {
		if r == '-' && i == 0 {
			continue
		}
		if r == '.' {
			continue
		}
		if r < '0' || r > '9' {
			return "", false
		}
	}
	if isPercent {
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f/100, 'f', -1, 64), true
	}
	return body, true
}
