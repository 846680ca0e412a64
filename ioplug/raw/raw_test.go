package raw

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rair-go/rair/ioplug"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAcceptURIAlwaysTrue(t *testing.T) {
	require.True(t, New().AcceptURI("anything://at/all"))
}

func TestOpenReadOnlyReadsBackContents(t *testing.T) {
	path := writeTempFile(t, []byte("hello world"))
	res, err := New().Open("file://"+path, ioplug.PermRead)
	require.NoError(t, err)
	require.EqualValues(t, 11, res.Size)

	buf := make([]byte, 5)
	require.NoError(t, res.Ops.ReadAt(0, buf))
	require.Equal(t, "hello", string(buf))
	require.NoError(t, res.Ops.Close())
}

func TestWriteToReadOnlyMappingFails(t *testing.T) {
	path := writeTempFile(t, []byte("abcd"))
	res, err := New().Open(path, ioplug.PermRead)
	require.NoError(t, err)
	require.Error(t, res.Ops.WriteAt(0, []byte("z")))
	require.NoError(t, res.Ops.Close())
}

func TestWriteReadWritePersistsToDisk(t *testing.T) {
	path := writeTempFile(t, []byte("abcd"))
	res, err := New().Open(path, ioplug.PermRead|ioplug.PermWrite)
	require.NoError(t, err)
	require.NoError(t, res.Ops.WriteAt(0, []byte("AB")))
	require.NoError(t, res.Ops.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "ABcd", string(raw))
}

func TestCOWAndWriteAreMutuallyExclusive(t *testing.T) {
	path := writeTempFile(t, []byte("abcd"))
	_, err := New().Open(path, ioplug.PermWrite|ioplug.PermCOW)
	require.Error(t, err)
}

func TestCOWWritesNeverReachDisk(t *testing.T) {
	path := writeTempFile(t, []byte("abcd"))
	res, err := New().Open(path, ioplug.PermRead|ioplug.PermCOW)
	require.NoError(t, err)
	require.NoError(t, res.Ops.WriteAt(0, []byte("ZZ")))
	require.NoError(t, res.Ops.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "abcd", string(raw))
}

func TestReadPastEndFails(t *testing.T) {
	path := writeTempFile(t, []byte("ab"))
	res, err := New().Open(path, ioplug.PermRead)
	require.NoError(t, err)
	buf := make([]byte, 4)
	require.Error(t, res.Ops.ReadAt(0, buf))
}
