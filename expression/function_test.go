package expression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFunctionCallSimple(t *testing.T) {
	name, args, err := ParseFunctionCall("rgb(255, 0, 0)")
	require.NoError(t, err)
	require.Equal(t, "rgb", name)
	require.Len(t, args, 3)
	require.Equal(t, 255.0, args[0].Number)
}

func TestParseFunctionCallNoArgs(t *testing.T) {
	name, args, err := ParseFunctionCall("ceil()")
	require.NoError(t, err)
	require.Equal(t, "ceil", name)
	require.Len(t, args, 0)
}

func TestParseFunctionCallNestedParens(t *testing.T) {
	name, args, err := ParseFunctionCall("mix(rgb(1,2,3), rgb(4,5,6), 50%)")
	require.NoError(t, err)
	require.Equal(t, "mix", name)
	require.Len(t, args, 3)
}

func TestParseFunctionCallPercentShorthand(t *testing.T) {
	name, args, err := ParseFunctionCall(`%("rgb %s", "255")`)
	require.NoError(t, err)
	require.Equal(t, "format", name)
	require.Len(t, args, 2)
}

func TestParseFunctionCallNotACall(t *testing.T) {
	_, _, err := ParseFunctionCall("not a call")
	require.Error(t, err)
}

func TestLooksLikeCallDetectsName(t *testing.T) {
	name, ok := LooksLikeCall("darken(#fff, 10%)")
	require.True(t, ok)
	require.Equal(t, "darken", name)
}

func TestLooksLikeCallIsCaseInsensitive(t *testing.T) {
	name, ok := LooksLikeCall("DARKEN(#fff, 10%)")
	require.True(t, ok)
	require.Equal(t, "darken", name)
}

func TestLooksLikeCallRejectsPlainText(t *testing.T) {
	_, ok := LooksLikeCall("1px solid red")
	require.False(t, ok)
}

func TestLooksLikeCallPercentShorthand(t *testing.T) {
	name, ok := LooksLikeCall(`%("%d", 5)`)
	require.True(t, ok)
	require.Equal(t, "format", name)
}
