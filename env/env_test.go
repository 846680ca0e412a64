package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	var c Config = NewDefault()
	require.Equal(t, 16, c.RowWidth())
	require.Equal(t, byte('.'), c.NonPrintableGlyph())
	require.Equal(t, byte('#'), c.GapGlyph())
}
