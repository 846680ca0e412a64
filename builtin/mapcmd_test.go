package builtin

import (
	"bytes"
	"testing"

	"github.com/rair-go/rair/command"
	"github.com/stretchr/testify/require"
)

func TestMapUnmapAndList(t *testing.T) {
	var out, errb bytes.Buffer
	c := newTestCore(&out, &errb)

	require.NoError(t, (&OpenFile{}).Run(c, []string{"rw", "malloc://0x20", "0x0"}))

	require.NoError(t, (&Map{}).Run(c, []string{"0x0", "0x1000", "0x20"}))
	out.Reset()
	require.NoError(t, (&ListMaps{}).Run(c, nil))
	require.Contains(t, out.String(), "0x1000")
	require.Contains(t, out.String(), "0x0")

	require.NoError(t, (&Unmap{}).Run(c, []string{"0x1000", "0x10"}))
	out.Reset()
	require.NoError(t, (&ListMaps{}).Run(c, nil))
	require.Contains(t, out.String(), "0x1010")
}

func TestMapZeroSizeIsNoop(t *testing.T) {
	var out, errb bytes.Buffer
	c := newTestCore(&out, &errb)
	require.NoError(t, (&Map{}).Run(c, []string{"0x0", "0x1000", "0"}))
	require.Empty(t, c.VMap().Maps())
}

func TestVReadThroughMapViaPrintHex(t *testing.T) {
	var out, errb bytes.Buffer
	c := newTestCore(&out, &errb)
	require.NoError(t, (&OpenFile{}).Run(c, []string{"rw", "malloc://0x10", "0x0"}))
	require.NoError(t, (&WriteHex{}).Run(c, []string{"deadbeef"}))
	require.NoError(t, (&Map{}).Run(c, []string{"0x0", "0x2000", "0x10"}))

	c.SetAddrMode(command.Vir)
	c.SetLoc(0x2000)
	out.Reset()
	require.NoError(t, (&PrintHex{}).Run(c, []string{"4"}))
	require.Contains(t, out.String(), "de ad be ef")
}
