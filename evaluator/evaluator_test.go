package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvalBoolNumericComparison(t *testing.T) {
	e := NewEvaluator(map[string]string{"size": "10px"})
	ok, err := e.EvalBool("size > 5")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvalBoolNumericComparisonFalse(t *testing.T) {
	e := NewEvaluator(map[string]string{"size": "2px"})
	ok, err := e.EvalBool("size > 5")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEvalBoolStringEquality(t *testing.T) {
	e := NewEvaluator(map[string]string{"mode": "dark"})
	ok, err := e.EvalBool(`mode == "dark"`)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvalBoolPercentComparison(t *testing.T) {
	e := NewEvaluator(map[string]string{"ratio": "75%"})
	ok, err := e.EvalBool("ratio > 0.5")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvalBoolUndefinedVariableIsFalsy(t *testing.T) {
	e := NewEvaluator(map[string]string{})
	ok, err := e.EvalBool("missing == 1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewEvaluatorConvertsBooleanKeywords(t *testing.T) {
	e := NewEvaluator(map[string]string{"flag": "true"})
	ok, err := e.EvalBool("flag")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFullGuardPipeline(t *testing.T) {
	expr, err := ParseExpression("@size > 5px")
	require.NoError(t, err)
	e := NewEvaluator(map[string]string{"size": "10px"})
	ok, err := e.EvalBool(expr)
	require.NoError(t, err)
	require.True(t, ok)
}
