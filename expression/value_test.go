package expression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePlainNumber(t *testing.T) {
	v, err := Parse("3")
	require.NoError(t, err)
	require.Equal(t, 3.0, v.Number)
	require.Equal(t, "", v.Unit)
}

func TestParseNumberWithUnit(t *testing.T) {
	v, err := Parse("10px")
	require.NoError(t, err)
	require.Equal(t, 10.0, v.Number)
	require.Equal(t, "px", v.Unit)
}

func TestParsePercentageConvertsToDecimal(t *testing.T) {
	v, err := Parse("50%")
	require.NoError(t, err)
	require.Equal(t, 0.5, v.Number)
	require.Equal(t, "", v.Unit)
	require.Equal(t, "%", v.OriginalUnit)
	require.Equal(t, "50%", v.String())
}

func TestParseNegativeNumber(t *testing.T) {
	v, err := Parse("-5em")
	require.NoError(t, err)
	require.Equal(t, -5.0, v.Number)
	require.Equal(t, "em", v.Unit)
}

func TestParseKeyword(t *testing.T) {
	v, err := Parse("solid")
	require.NoError(t, err)
	require.Equal(t, "solid", v.Raw)
	require.Equal(t, "solid", v.String())
}

func TestParseQuotedString(t *testing.T) {
	v, err := Parse(`"hello world"`)
	require.NoError(t, err)
	require.Equal(t, `"hello world"`, v.Raw)
}

func TestParseColorLiteral(t *testing.T) {
	v, err := Parse("#ff0000")
	require.NoError(t, err)
	require.NotNil(t, v.Color)
	require.Equal(t, "#ff0000", v.String())
}

func TestParseCompoundValueFallsBackToRaw(t *testing.T) {
	v, err := Parse("1px solid rgb(1, 2, 3)")
	require.NoError(t, err)
	require.Equal(t, "1px solid rgb(1, 2, 3)", v.Raw)
}

func TestValueAddSameUnit(t *testing.T) {
	a, _ := Parse("10px")
	b, _ := Parse("5px")
	out, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, "15px", out.String())
}

func TestValueAddMismatchedUnitsError(t *testing.T) {
	a, _ := Parse("10px")
	b, _ := Parse("5em")
	_, err := a.Add(b)
	require.Error(t, err)
}

func TestValueAddUnitlessWithUnit(t *testing.T) {
	a, _ := Parse("10")
	b, _ := Parse("5px")
	out, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, "15px", out.String())
}

func TestValueSubtract(t *testing.T) {
	a, _ := Parse("10px")
	b, _ := Parse("3px")
	out, err := a.Subtract(b)
	require.NoError(t, err)
	require.Equal(t, "7px", out.String())
}

func TestValueMultiplyNumberByUnit(t *testing.T) {
	a, _ := Parse("5px")
	b, _ := Parse("2")
	out, err := a.Multiply(b)
	require.NoError(t, err)
	require.Equal(t, "10px", out.String())
}

func TestValueMultiplyTwoUnitsIsError(t *testing.T) {
	a, _ := Parse("5px")
	b, _ := Parse("2em")
	_, err := a.Multiply(b)
	require.Error(t, err)
}

func TestValueDivideByUnitless(t *testing.T) {
	a, _ := Parse("50px")
	b, _ := Parse("5")
	out, err := a.Divide(b)
	require.NoError(t, err)
	require.Equal(t, "10px", out.String())
}

func TestValueDivideSameUnitCancels(t *testing.T) {
	a, _ := Parse("50px")
	b, _ := Parse("10px")
	out, err := a.Divide(b)
	require.NoError(t, err)
	require.Equal(t, "5", out.String())
}

func TestValueDivideByZeroIsError(t *testing.T) {
	a, _ := Parse("50px")
	b, _ := Parse("0")
	_, err := a.Divide(b)
	require.Error(t, err)
}
