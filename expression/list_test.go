package expression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseListSimple(t *testing.T) {
	l := ParseList("red, blue, green")
	require.Equal(t, []string{"red", "blue", "green"}, l.Items)
	require.Equal(t, 3, l.Length())
}

func TestParseListEmpty(t *testing.T) {
	l := ParseList("")
	require.Equal(t, 0, l.Length())
}

func TestParseListRespectsQuotedCommas(t *testing.T) {
	l := ParseList(`'a,b', c`)
	require.Equal(t, []string{"'a,b'", "c"}, l.Items)
}

func TestListStringJoinsWithCommaSpace(t *testing.T) {
	l := NewList([]string{"1px", "2px"})
	require.Equal(t, "1px, 2px", l.String())
}

func TestListExtractOneIndexed(t *testing.T) {
	l := NewList([]string{"a", "b", "c"})
	v, err := l.Extract(2)
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestListExtractOutOfRangeIsError(t *testing.T) {
	l := NewList([]string{"a"})
	_, err := l.Extract(0)
	require.Error(t, err)
	_, err = l.Extract(2)
	require.Error(t, err)
}
