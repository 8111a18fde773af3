package functions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallRGBAndRGBA(t *testing.T) {
	out, err := Call("rgb", []string{"255", "0", "0"})
	require.NoError(t, err)
	require.Equal(t, "#ff0000", out)

	out, err = Call("rgba", []string{"255", "0", "0", "0.5"})
	require.NoError(t, err)
	require.Equal(t, "rgba(255, 0, 0, 0.5)", out)
}

func TestCallHSLAndHSLA(t *testing.T) {
	out, err := Call("hsl", []string{"0", "100%", "50%"})
	require.NoError(t, err)
	require.Equal(t, "#ff0000", out)

	out, err = Call("hsla", []string{"0", "100%", "50%", "0.5"})
	require.NoError(t, err)
	require.Equal(t, "rgba(255, 0, 0, 0.5)", out)
}

func TestCallLighten(t *testing.T) {
	out, err := Call("lighten", []string{"#000000", "20%"})
	require.NoError(t, err)
	require.Equal(t, "#333333", out)
}

func TestCallDarken(t *testing.T) {
	out, err := Call("darken", []string{"#ffffff", "20%"})
	require.NoError(t, err)
	require.Equal(t, "#cccccc", out)
}

func TestCallMix(t *testing.T) {
	out, err := Call("mix", []string{"#ffffff", "#000000", "50%"})
	require.NoError(t, err)
	require.Equal(t, "#808080", out)
}

func TestChannelExtraction(t *testing.T) {
	out, err := Call("red", []string{"#ff8000"})
	require.NoError(t, err)
	require.Equal(t, "255", out)

	out, err = Call("green", []string{"#ff8000"})
	require.NoError(t, err)
	require.Equal(t, "128", out)

	out, err = Call("blue", []string{"#ff8000"})
	require.NoError(t, err)
	require.Equal(t, "0", out)
}

func TestMathFunctions(t *testing.T) {
	out, err := Call("ceil", []string{"4.2px"})
	require.NoError(t, err)
	require.Equal(t, "5px", out)

	out, err = Call("floor", []string{"4.8px"})
	require.NoError(t, err)
	require.Equal(t, "4px", out)

	out, err = Call("round", []string{"4.5"})
	require.NoError(t, err)
	require.Equal(t, "5", out)
}

func TestPercentage(t *testing.T) {
	out, err := Call("percentage", []string{"0.5"})
	require.NoError(t, err)
	require.Equal(t, "50%", out)
}

func TestPow(t *testing.T) {
	out, err := Call("pow", []string{"2px", "3"})
	require.NoError(t, err)
	require.Equal(t, "8px", out)
}

func TestMinMax(t *testing.T) {
	out, err := Call("min", []string{"3px", "1px", "2px"})
	require.NoError(t, err)
	require.Equal(t, "1px", out)

	out, err = Call("max", []string{"3px", "1px", "2px"})
	require.NoError(t, err)
	require.Equal(t, "3px", out)
}

func TestMod(t *testing.T) {
	out, err := Call("mod", []string{"7px", "3"})
	require.NoError(t, err)
	require.Equal(t, "1px", out)
}

func TestModByZero(t *testing.T) {
	_, err := Call("mod", []string{"7", "0"})
	require.Error(t, err)
}

func TestTypePredicates(t *testing.T) {
	cases := []struct {
		fn   string
		arg  string
		want string
	}{
		{"iscolor", "#fff", "true"},
		{"iscolor", "red", "true"},
		{"iscolor", "10px", "false"},
		{"isnumber", "10px", "true"},
		{"isnumber", "red", "false"},
		{"isstring", `"hello"`, "true"},
		{"isstring", "hello", "false"},
		{"iskeyword", "auto", "true"},
		{"iskeyword", "10px", "false"},
		{"isurl", "url(foo.png)", "true"},
		{"ispixel", "10px", "true"},
		{"ispixel", "10em", "false"},
		{"ispercentage", "50%", "true"},
		{"isunit", "10px", "true"},
		{"isunit", "2.5em", "true"},
		{"isunit", "50%", "true"},
		{"isunit", "10", "false"},
		{"islist", "1, 2, 3", "true"},
		{"islist", "10px", "false"},
	}
	for _, c := range cases {
		out, err := Call(c.fn, []string{c.arg})
		require.NoErrorf(t, err, "%s(%s)", c.fn, c.arg)
		require.Equalf(t, c.want, out, "%s(%s)", c.fn, c.arg)
	}
}

func TestCallBoolean(t *testing.T) {
	out, err := Call("boolean", []string{"true"})
	require.NoError(t, err)
	require.Equal(t, "true", out)

	out, err = Call("boolean", []string{"1"})
	require.NoError(t, err)
	require.Equal(t, "false", out)
}

func TestCallFormat(t *testing.T) {
	out, err := Call("format", []string{`"rgb %s %s"`, "255", "0"})
	require.NoError(t, err)
	require.Equal(t, "rgb 255 0", out)
}

func TestCallReplace(t *testing.T) {
	out, err := Call("replace", []string{`"hello world"`, "world", "there"})
	require.NoError(t, err)
	require.Equal(t, "hello there", out)
}

func TestCallExtract(t *testing.T) {
	out, err := Call("extract", []string{"a, b, c", "2"})
	require.NoError(t, err)
	require.Equal(t, "b", out)
}

func TestCallLength(t *testing.T) {
	out, err := Call("length", []string{"a, b, c"})
	require.NoError(t, err)
	require.Equal(t, "3", out)
}

func TestCallRange(t *testing.T) {
	out, err := Call("range", []string{"1", "3"})
	require.NoError(t, err)
	require.Equal(t, "1, 2, 3", out)
}

func TestCallIf(t *testing.T) {
	out, err := Call("if", []string{"true", "red", "blue"})
	require.NoError(t, err)
	require.Equal(t, "red", out)

	out, err = Call("if", []string{"false", "red", "blue"})
	require.NoError(t, err)
	require.Equal(t, "blue", out)
}

func TestIsRegistered(t *testing.T) {
	require.True(t, IsRegistered("rgb"))
	require.True(t, IsRegistered("RGB"))
	require.False(t, IsRegistered("nosuchfunction"))
}

func TestCallUnknownFunction(t *testing.T) {
	_, err := Call("nosuchfunction", []string{"1"})
	require.Error(t, err)
}
