package config

import (
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().ValidateConfig())
}

func TestValidateConfigRejectsBadRowWidth(t *testing.T) {
	c := DefaultConfig()
	c.RowWidth = 0
	require.Error(t, c.ValidateConfig())
}

func TestValidateConfigRejectsMultiRuneGlyph(t *testing.T) {
	c := DefaultConfig()
	c.GapGlyph = "##"
	require.Error(t, c.ValidateConfig())
}

func TestLoadParsesOverrides(t *testing.T) {
	f, err := ioutil.TempFile(t.TempDir(), "*.toml")
	require.NoError(t, err)
	_, err = f.WriteString(`row_width = 32
non_printable_glyph = "_"
gap_glyph = "?"
auto_open = ["malloc://0x10"]
`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	c, err := Load(f.Name())
	require.NoError(t, err)
	require.Equal(t, 32, c.RowWidth)
	require.Equal(t, []string{"malloc://0x10"}, c.AutoOpen)

	e := AsEnv(c)
	require.Equal(t, 32, e.RowWidth())
	require.Equal(t, byte('_'), e.NonPrintableGlyph())
}
