package dump

import (
	"testing"

	"github.com/rair-go/rair/env"
	"github.com/stretchr/testify/require"
)

func TestRowPadsShortTrailingRow(t *testing.T) {
	r := New(env.NewDefault())
	row := r.Row(0x11, []byte{0xdb}, nil, nil)
	require.Contains(t, row, "0x00000011")
	require.Contains(t, row, "db")
	require.Contains(t, row, "|.|")
}

func TestRowUsesGapGlyphForAbsentBytes(t *testing.T) {
	r := New(env.NewDefault())
	present := []bool{true, false, true}
	row := r.Row(0, []byte{'A', 0, 'B'}, present, nil)
	require.Contains(t, row, gapHex)
	require.Contains(t, row, "#")
}

func TestRowRendersPrintableASCII(t *testing.T) {
	r := New(env.NewDefault())
	row := r.Row(0, []byte("Hi!"), nil, nil)
	require.Contains(t, row, "|Hi!")
}

func TestDiffRowsHighlightsDifferingBytes(t *testing.T) {
	r := New(env.NewDefault())
	rowA, rowB := r.DiffRows(0, []byte{0x01, 0x02}, nil, 0, []byte{0x01, 0xFF}, nil)
	require.Contains(t, rowA, "01")
	require.Contains(t, rowB, "FF")
}
