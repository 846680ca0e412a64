// Package raw implements the memory-mapped file backend: file://<path>, and
// acts as the catch-all plugin for bare paths.
package raw

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"

	"github.com/rair-go/rair/ioplug"
)

const scheme = "file"

// Plugin backs sources with a memory-mapped regular file.
type Plugin struct{}

// New returns the file:// catch-all plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return scheme }

// AcceptURI always returns true: file is the catch-all plugin matched last
// by the registry.
func (p *Plugin) AcceptURI(uri string) bool { return true }

func (p *Plugin) Open(uri string, perm ioplug.Perm) (*ioplug.OpenResult, error) {
	if perm.Has(ioplug.PermWrite) && perm.Has(ioplug.PermCOW) {
		return nil, ioplug.NewCustomError("file:// write and copy-on-write are mutually exclusive")
	}
	_, path := ioplug.SplitURI(uri)

	flag := os.O_RDONLY
	if perm.Has(ioplug.PermWrite) || perm.Has(ioplug.PermCOW) {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, ioplug.NewParseError(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ioplug.NewParseError(err)
	}
	size := uint64(info.Size())

	mmapFlag := mmap.RDONLY
	switch {
	case perm.Has(ioplug.PermCOW):
		mmapFlag = mmap.COPY
	case perm.Has(ioplug.PermWrite):
		mmapFlag = mmap.RDWR
	}

	var m mmap.MMap
	if size > 0 {
		m, err = mmap.Map(f, mmapFlag, 0)
		if err != nil {
			f.Close()
			return nil, ioplug.NewParseError(errors.Wrap(err, "mmap"))
		}
	}

	b := &backend{f: f, m: m, cow: perm.Has(ioplug.PermCOW), writable: perm.Has(ioplug.PermWrite) || perm.Has(ioplug.PermCOW)}
	return &ioplug.OpenResult{Raddr: 0, Size: size, Ops: b}, nil
}

type backend struct {
	f        *os.File
	m        mmap.MMap
	cow      bool
	writable bool
}

func (b *backend) ReadAt(raddr uint64, out []byte) error {
	if raddr+uint64(len(out)) > uint64(len(b.m)) {
		return ioplug.NewParseError(io.ErrUnexpectedEOF)
	}
	copy(out, b.m[raddr:raddr+uint64(len(out))])
	return nil
}

func (b *backend) WriteAt(raddr uint64, in []byte) error {
	if !b.writable {
		return ioplug.NewParseError(os.ErrPermission)
	}
	if raddr+uint64(len(in)) > uint64(len(b.m)) {
		return ioplug.NewParseError(io.ErrUnexpectedEOF)
	}
	copy(b.m[raddr:raddr+uint64(len(in))], in)
	// COW mappings are private: writes never reach disk, and no flush is
	// needed or possible for them.
	if !b.cow {
		return nil
	}
	return nil
}

func (b *backend) Close() error {
	var err error
	if b.m != nil {
		err = b.m.Unmap()
	}
	if cerr := b.f.Close(); err == nil {
		err = cerr
	}
	return err
}
