package command

import (
	"bytes"
	"testing"

	"github.com/rair-go/rair/env"
	"github.com/rair-go/rair/registry"
	"github.com/rair-go/rair/rio"
	"github.com/rair-go/rair/vmap"
	"github.com/stretchr/testify/require"
)

type bufWriter struct{ buf bytes.Buffer }

func (b *bufWriter) WriteString(s string) (int, error) { return b.buf.WriteString(s) }

type fakeCore struct {
	stdout, stderr bufWriter
	loc            uint64
	mode           AddrMode
}

func (f *fakeCore) Registry() *registry.Registry { return nil }
func (f *fakeCore) VMap() *vmap.Engine            { return nil }
func (f *fakeCore) RIO() *rio.Rio                 { return nil }
func (f *fakeCore) Env() env.Config               { return nil }
func (f *fakeCore) Stdout() StringWriter          { return &f.stdout }
func (f *fakeCore) Stderr() StringWriter          { return &f.stderr }
func (f *fakeCore) Loc() uint64                   { return f.loc }
func (f *fakeCore) SetLoc(v uint64)               { f.loc = v }
func (f *fakeCore) AddrMode() AddrMode            { return f.mode }
func (f *fakeCore) SetAddrMode(m AddrMode)        { f.mode = m }
func (f *fakeCore) SeekTo(uint64)                 {}
func (f *fakeCore) SeekRelative(int64)            {}
func (f *fakeCore) SeekUndo() error               { return nil }
func (f *fakeCore) SeekRedo() error               { return nil }

type echoHandler struct{ ran []string }

func (h *echoHandler) Names() []string { return []string{"echo", "e"} }
func (h *echoHandler) MinArgs() int    { return 1 }
func (h *echoHandler) MaxArgs() int    { return 1 }
func (h *echoHandler) Run(c Core, args []string) error {
	h.ran = args
	c.Stdout().WriteString(args[0])
	return nil
}
func (h *echoHandler) Help(c Core) string { return "echo <word>" }

func TestTableLookupByEitherAlias(t *testing.T) {
	var tbl Table
	h := &echoHandler{}
	tbl.Register(h)

	got, ok := tbl.Lookup("echo")
	require.True(t, ok)
	require.Same(t, h, got)

	got, ok = tbl.Lookup("e")
	require.True(t, ok)
	require.Same(t, h, got)

	_, ok = tbl.Lookup("nope")
	require.False(t, ok)
}

func TestTableWithPrefixDeduplicatesAliases(t *testing.T) {
	var tbl Table
	tbl.Register(&echoHandler{})
	tbl.Register(&fakeHandler{names: []string{"exit"}})

	matches := tbl.WithPrefix("e")
	require.Len(t, matches, 2)
}

type fakeHandler struct{ names []string }

func (h *fakeHandler) Names() []string                  { return h.names }
func (h *fakeHandler) MinArgs() int                      { return 0 }
func (h *fakeHandler) MaxArgs() int                      { return 0 }
func (h *fakeHandler) Run(c Core, args []string) error  { return nil }
func (h *fakeHandler) Help(c Core) string                { return "" }

func TestDispatchRunsMatchingHandler(t *testing.T) {
	var tbl Table
	h := &echoHandler{}
	tbl.Register(h)
	d := NewDispatcher(&tbl, nil)

	c := &fakeCore{}
	require.NoError(t, d.Dispatch(c, "echo hello"))
	require.Equal(t, []string{"hello"}, h.ran)
	require.Equal(t, "hello", c.stdout.buf.String())
}

func TestDispatchReportsArgumentsError(t *testing.T) {
	var tbl Table
	tbl.Register(&echoHandler{})
	d := NewDispatcher(&tbl, nil)

	c := &fakeCore{}
	err := d.Dispatch(c, "echo")
	require.Error(t, err)
	require.Contains(t, c.stderr.buf.String(), "Error: Arguments Error")
}

func TestDispatchReportsNotFound(t *testing.T) {
	var tbl Table
	d := NewDispatcher(&tbl, nil)

	c := &fakeCore{}
	err := d.Dispatch(c, "nonexistent")
	require.Error(t, err)
	require.Contains(t, c.stderr.buf.String(), "Error: Command Not Found")
}

func TestExpectAndExpectRange(t *testing.T) {
	require.NoError(t, Expect([]string{"a", "b"}, 2))
	require.Error(t, Expect([]string{"a"}, 2))

	require.NoError(t, ExpectRange([]string{"a"}, 1, 3))
	require.Error(t, ExpectRange([]string{}, 1, 3))
	require.NoError(t, ExpectRange([]string{"a", "b", "c", "d"}, 1, -1))
}
