package rio

import (
	"testing"

	"github.com/rair-go/rair/ioplug"
	"github.com/rair-go/rair/registry"
	"github.com/rair-go/rair/vmap"
	"github.com/stretchr/testify/require"
)

type memOps struct{ buf []byte }

func (m *memOps) ReadAt(raddr uint64, out []byte) error {
	copy(out, m.buf[raddr:raddr+uint64(len(out))])
	return nil
}
func (m *memOps) WriteAt(raddr uint64, in []byte) error {
	copy(m.buf[raddr:raddr+uint64(len(in))], in)
	return nil
}
func (m *memOps) Close() error { return nil }

type memPlugin struct {
	uri  string
	data []byte
}

func (p *memPlugin) Name() string          { return "mem" }
func (p *memPlugin) AcceptURI(uri string) bool {
	if p.uri == "" {
		return true
	}
	return uri == p.uri
}
func (p *memPlugin) Open(string, ioplug.Perm) (*ioplug.OpenResult, error) {
	return &ioplug.OpenResult{Raddr: 0, Size: uint64(len(p.data)), Ops: &memOps{buf: p.data}}, nil
}

func TestPReadAndPWrite(t *testing.T) {
	reg := registry.New(&memPlugin{data: []byte("hello world")})
	var vm vmap.Engine
	r := New(reg, &vm)

	_, err := reg.Open("mem://a", ioplug.PermRead|ioplug.PermWrite)
	require.NoError(t, err)

	buf := make([]byte, 5)
	require.NoError(t, r.PRead(0, buf))
	require.Equal(t, "hello", string(buf))

	require.NoError(t, r.PWrite(6, []byte("there")))
	out := make([]byte, 5)
	require.NoError(t, r.PRead(6, out))
	require.Equal(t, "there", string(out))
}

func TestPReadStitchesAcrossAdjacentDescriptors(t *testing.T) {
	reg := registry.New(
		&memPlugin{uri: "mem://a", data: []byte("hello")},
		&memPlugin{uri: "mem://b", data: []byte("world")},
	)
	var vm vmap.Engine
	r := New(reg, &vm)

	// Two independently-opened, contiguous descriptors: [0,4]="hello",
	// [5,9]="world". A single PRead spanning both must stitch them into
	// one buffer rather than failing as it would against a lone
	// single-descriptor range check.
	_, err := reg.OpenAt("mem://a", ioplug.PermRead|ioplug.PermWrite, 0)
	require.NoError(t, err)
	_, err = reg.OpenAt("mem://b", ioplug.PermRead|ioplug.PermWrite, 5)
	require.NoError(t, err)

	buf := make([]byte, 10)
	require.NoError(t, r.PRead(0, buf))
	require.Equal(t, "helloworld", string(buf))

	require.NoError(t, r.PWrite(3, []byte("LOWOR")))
	out := make([]byte, 10)
	require.NoError(t, r.PRead(0, out))
	require.Equal(t, "helLOWORld", string(out))
}

func TestPReadFailsOnGapBetweenDescriptors(t *testing.T) {
	reg := registry.New(
		&memPlugin{uri: "mem://a", data: []byte("hello")},
		&memPlugin{uri: "mem://b", data: []byte("world")},
	)
	var vm vmap.Engine
	r := New(reg, &vm)

	_, err := reg.OpenAt("mem://a", ioplug.PermRead, 0)
	require.NoError(t, err)
	_, err = reg.OpenAt("mem://b", ioplug.PermRead, 6) // leaves a gap at address 5
	require.NoError(t, err)

	buf := make([]byte, 10)
	require.Error(t, r.PRead(0, buf))
}

func TestVReadTranslatesThroughMap(t *testing.T) {
	reg := registry.New(&memPlugin{data: []byte("0123456789")})
	var vm vmap.Engine
	r := New(reg, &vm)

	_, err := reg.Open("mem://a", ioplug.PermRead)
	require.NoError(t, err)
	_, err = vm.Map(0x1000, 2, 4)
	require.NoError(t, err)

	buf := make([]byte, 4)
	require.NoError(t, r.VRead(0x1000, buf))
	require.Equal(t, "2345", string(buf))
}

func TestVReadFailsOnUnmappedByte(t *testing.T) {
	var vm vmap.Engine
	reg := registry.New(&memPlugin{data: []byte("0123456789")})
	r := New(reg, &vm)

	buf := make([]byte, 4)
	err := r.VRead(0x2000, buf)
	require.Error(t, err)
}

func TestPReadSparseZeroFillsGaps(t *testing.T) {
	reg := registry.New(&memPlugin{data: []byte("abcd")})
	var vm vmap.Engine
	r := New(reg, &vm)

	_, err := reg.OpenAt("mem://a", ioplug.PermRead, 0)
	require.NoError(t, err)

	buf := make([]byte, 8)
	present := make([]bool, 8)
	r.PReadSparse(0, buf, present)
	require.Equal(t, []byte{'a', 'b', 'c', 'd', 0, 0, 0, 0}, buf)
	require.Equal(t, []bool{true, true, true, true, false, false, false, false}, present)
}

func TestVReadSparseReportsGapsThroughMap(t *testing.T) {
	reg := registry.New(&memPlugin{data: []byte("abcd")})
	var vm vmap.Engine
	r := New(reg, &vm)

	_, err := reg.OpenAt("mem://a", ioplug.PermRead, 0)
	require.NoError(t, err)
	_, err = vm.Map(0x1000, 0, 2)
	require.NoError(t, err)

	buf := make([]byte, 4)
	present := make([]bool, 4)
	r.VReadSparse(0x1000, buf, present)
	require.Equal(t, []byte{'a', 'b', 0, 0}, buf)
	require.Equal(t, []bool{true, true, false, false}, present)
}
