package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaterialCount_FirstWriteWins(t *testing.T) {
	m := NewMaterialCount()
	require.True(t, m.Put("Seed", "种子", "3"))
	require.False(t, m.Put("Seed", "种子", "7"))

	e, ok := m.Get("Seed")
	require.True(t, ok)
	require.Equal(t, "3", e.Quantity)
	require.Equal(t, 1, m.Len())
}

func TestMaterialCount_RowsKeepInsertionOrder(t *testing.T) {
	m := NewMaterialCount()
	m.Put("b", "B", "1")
	m.Put("a", "A", "2")
	m.Put("b", "B", "9")

	require.Equal(t, []ReportRow{
		{"b", "B", "1"},
		{"a", "A", "2"},
	}, m.Rows())
}

func TestMaterialCount_EntriesIsCopy(t *testing.T) {
	m := NewMaterialCount()
	m.Put("a", "A", "1")
	entries := m.Entries()
	entries[0].Quantity = "changed"

	e, _ := m.Get("a")
	require.Equal(t, "1", e.Quantity)
}
