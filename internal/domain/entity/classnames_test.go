package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassNameTable_DisplayName(t *testing.T) {
	table := DefaultMaterialNames()
	require.Equal(t, "种子", table.DisplayName("Seed"))
	require.Equal(t, "unknown_x", table.DisplayName("unknown_x"))
	require.Equal(t, 44, table.Len())
}

func TestNewClassNameTable_CopiesInput(t *testing.T) {
	src := map[string]string{"a": "A"}
	table := NewClassNameTable(src)
	src["a"] = "changed"
	require.Equal(t, "A", table.DisplayName("a"))
}

func TestParseClassNameTable(t *testing.T) {
	in := "\ufeff# materials\nSeed = 种子\n\nStone of The Hunt=巡猎石\n"
	table, err := ParseClassNameTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.Equal(t, "种子", table.DisplayName("Seed"))
	require.Equal(t, "巡猎石", table.DisplayName("Stone of The Hunt"))
}

func TestParseClassNameTable_Invalid(t *testing.T) {
	_, err := ParseClassNameTable(strings.NewReader("Seed\n"))
	require.Error(t, err)

	_, err = ParseClassNameTable(strings.NewReader("=name\n"))
	require.Error(t, err)
}
