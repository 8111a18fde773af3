package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeValues(t *testing.T) {
	tok, err := Tokenize("1px 0 2px rgb(1, 2, 3)")
	require.NoError(t, err)
	require.Len(t, tok, 4)
	require.Equal(t, TokenValue, tok[0].Type)
	require.Equal(t, "1px", tok[0].Text)
	require.Equal(t, "rgb(1, 2, 3)", tok[3].Text)
}

func TestTokenizeIdentList(t *testing.T) {
	tok, err := Tokenize("Arial, sans-serif")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
}

func TestTokenizeGuardComparison(t *testing.T) {
	tok, err := Tokenize("@mode = dark")
	require.NoError(t, err)
	require.Equal(t, []Token{
		{Type: TokenIdent, Text: "@mode"},
		{Type: TokenOp, Text: "="},
		{Type: TokenValue, Text: "dark"},
	}, tok)
}

func TestParseExpressionEquality(t *testing.T) {
	out, err := ParseExpression("@mode = dark")
	require.NoError(t, err)
	require.Equal(t, `mode == "dark"`, out)
}

func TestParseExpressionOrdering(t *testing.T) {
	out, err := ParseExpression("@width > 10px")
	require.NoError(t, err)
	require.Equal(t, `width > 10`, out)
}

func TestParseExpressionPercent(t *testing.T) {
	out, err := ParseExpression("@ratio > 50%")
	require.NoError(t, err)
	require.Equal(t, `ratio > 0.5`, out)
}
