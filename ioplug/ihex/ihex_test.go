package ihex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rair-go/rair/ioplug"
	"github.com/stretchr/testify/require"
)

func writeTempIhex(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.hex")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const sixteenByteRecord = ":10000000000102030405060708090A0B0C0D0E0F78\n:00000001FF\n"

func TestOpenDecodesDataRecord(t *testing.T) {
	path := writeTempIhex(t, sixteenByteRecord)
	p := New()
	res, err := p.Open("ihex://"+path, ioplug.PermRead)
	require.NoError(t, err)
	require.EqualValues(t, 0, res.Raddr)
	require.EqualValues(t, 16, res.Size)

	buf := make([]byte, 16)
	require.NoError(t, res.Ops.ReadAt(0, buf))
	for i, b := range buf {
		require.Equal(t, byte(i), b)
	}
}

func TestOpenRejectsMalformedLine(t *testing.T) {
	path := writeTempIhex(t, "not a record\n")
	p := New()
	_, err := p.Open("ihex://"+path, ioplug.PermRead)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line: 1")
}

func TestWriteThenReopenYieldsIdenticalImage(t *testing.T) {
	path := writeTempIhex(t, sixteenByteRecord)
	p := New()
	res, err := p.Open("ihex://"+path, ioplug.PermRead|ioplug.PermWrite)
	require.NoError(t, err)
	require.NoError(t, res.Ops.WriteAt(4, []byte{0xaa, 0xbb}))

	res2, err := p.Open("ihex://"+path, ioplug.PermRead)
	require.NoError(t, err)
	require.EqualValues(t, 16, res2.Size)

	buf := make([]byte, 16)
	require.NoError(t, res2.Ops.ReadAt(0, buf))
	require.Equal(t, byte(0xaa), buf[4])
	require.Equal(t, byte(0xbb), buf[5])
	require.Equal(t, byte(0), buf[0])
	require.Equal(t, byte(15), buf[15])
}

func TestWriteWithoutPermissionFails(t *testing.T) {
	path := writeTempIhex(t, sixteenByteRecord)
	p := New()
	res, err := p.Open("ihex://"+path, ioplug.PermRead)
	require.NoError(t, err)
	require.Error(t, res.Ops.WriteAt(0, []byte{0x01}))
}

func TestCOWOnlyWriteSucceedsWithoutPersisting(t *testing.T) {
	path := writeTempIhex(t, sixteenByteRecord)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	p := New()
	res, err := p.Open("ihex://"+path, ioplug.PermRead|ioplug.PermCOW)
	require.NoError(t, err)
	require.NoError(t, res.Ops.WriteAt(4, []byte{0xaa, 0xbb}))

	buf := make([]byte, 16)
	require.NoError(t, res.Ops.ReadAt(0, buf))
	require.Equal(t, byte(0xaa), buf[4])
	require.Equal(t, byte(0xbb), buf[5])

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestChecksumIsTwosComplementOfSum(t *testing.T) {
	require.Equal(t, byte(0xff), checksum(1))
	require.Equal(t, byte(0x78), checksum(0x88))
}
