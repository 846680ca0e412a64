package registry

import (
	"testing"

	"github.com/rair-go/rair/ioplug"
	"github.com/stretchr/testify/require"
)

type fakeOps struct {
	closed bool
}

func (f *fakeOps) ReadAt(uint64, []byte) error  { return nil }
func (f *fakeOps) WriteAt(uint64, []byte) error { return nil }
func (f *fakeOps) Close() error                 { f.closed = true; return nil }

type fakePlugin struct {
	name string
	size uint64
}

func (p *fakePlugin) Name() string { return p.name }
func (p *fakePlugin) AcceptURI(uri string) bool {
	name, _ := ioplug.SplitURI(uri)
	return name == p.name
}
func (p *fakePlugin) Open(uri string, perm ioplug.Perm) (*ioplug.OpenResult, error) {
	return &ioplug.OpenResult{Raddr: 0, Size: p.size, Ops: &fakeOps{}}, nil
}

func TestOpenAssignsSequentialHandlesAndPaddrs(t *testing.T) {
	r := New(&fakePlugin{name: "fake", size: 16})

	h1, err := r.Open("fake://a", ioplug.PermRead)
	require.NoError(t, err)
	require.Equal(t, 0, h1)

	h2, err := r.Open("fake://b", ioplug.PermRead)
	require.NoError(t, err)
	require.Equal(t, 1, h2)

	f1, err := r.Get(h1)
	require.NoError(t, err)
	require.EqualValues(t, 0, f1.Paddr)

	f2, err := r.Get(h2)
	require.NoError(t, err)
	require.EqualValues(t, 16, f2.Paddr)
}

func TestCloseReleasesHandleForReuse(t *testing.T) {
	r := New(&fakePlugin{name: "fake", size: 4})
	h1, err := r.Open("fake://a", ioplug.PermRead)
	require.NoError(t, err)

	require.NoError(t, r.Close(h1))
	_, err = r.Get(h1)
	require.Error(t, err)

	h2, err := r.Open("fake://b", ioplug.PermRead)
	require.NoError(t, err)
	require.Equal(t, h1, h2, "closed handle should be reused before growing the table")
}

func TestOpenAtRejectsOverlap(t *testing.T) {
	r := New(&fakePlugin{name: "fake", size: 16})
	_, err := r.OpenAt("fake://a", ioplug.PermRead, 0)
	require.NoError(t, err)

	_, err = r.OpenAt("fake://b", ioplug.PermRead, 8)
	require.Error(t, err)
	require.IsType(t, &ioplug.AddressesOverlapError{}, err)
}

func TestPaddrRangeToHandles(t *testing.T) {
	r := New(&fakePlugin{name: "fake", size: 16})
	h1, _ := r.Open("fake://a", ioplug.PermRead)
	h2, _ := r.Open("fake://b", ioplug.PermRead)

	handles := r.PaddrRangeToHandles(0, 31)
	require.ElementsMatch(t, []int{h1, h2}, handles)
}

func TestPaddrSparseRangeToHandlesReportsGaps(t *testing.T) {
	r := New(&fakePlugin{name: "fake", size: 4})
	h1, err := r.OpenAt("fake://a", ioplug.PermRead, 0)
	require.NoError(t, err)
	h2, err := r.OpenAt("fake://b", ioplug.PermRead, 10)
	require.NoError(t, err)

	runs := r.PaddrSparseRangeToHandles(0, 13)
	require.Len(t, runs, 3)
	require.True(t, runs[0].OK)
	require.Equal(t, h1, runs[0].Handle)
	require.False(t, runs[1].OK)
	require.True(t, runs[2].OK)
	require.Equal(t, h2, runs[2].Handle)
}

func TestPluginNotFound(t *testing.T) {
	r := New(&fakePlugin{name: "fake"})
	_, err := r.Open("other://a", ioplug.PermRead)
	require.Error(t, err)
	require.IsType(t, &ioplug.IoPluginNotFoundError{}, err)
}
