// Package malloc implements the anonymous-RAM backend: malloc://<size>.
package malloc

import (
	"strings"

	"github.com/rair-go/rair/ioplug"
)

const scheme = "malloc"

// Plugin backs sources with an anonymous in-process byte slice.
type Plugin struct{}

// New returns a malloc:// plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return scheme }

func (p *Plugin) AcceptURI(uri string) bool {
	name, _ := ioplug.SplitURI(uri)
	return name == scheme
}

func (p *Plugin) Open(uri string, perm ioplug.Perm) (*ioplug.OpenResult, error) {
	if perm.Has(ioplug.PermCOW) || !perm.Has(ioplug.PermRead) || !perm.Has(ioplug.PermWrite) {
		return nil, ioplug.NewCustomError("malloc:// requires read+write and rejects copy-on-write")
	}
	_, target := ioplug.SplitURI(uri)
	target = strings.TrimPrefix(target, "//")
	size, err := ioplug.ParseNumeric(target)
	if err != nil {
		return nil, err
	}
	b := &backend{buf: make([]byte, size)}
	return &ioplug.OpenResult{Raddr: 0, Size: size, Ops: b}, nil
}

type backend struct {
	buf []byte
}

func (b *backend) ReadAt(raddr uint64, out []byte) error {
	if raddr+uint64(len(out)) > uint64(len(b.buf)) {
		return ioplug.NewParseError(errUnexpectedEOF)
	}
	copy(out, b.buf[raddr:raddr+uint64(len(out))])
	return nil
}

func (b *backend) WriteAt(raddr uint64, in []byte) error {
	if raddr+uint64(len(in)) > uint64(len(b.buf)) {
		return ioplug.NewParseError(errUnexpectedEOF)
	}
	copy(b.buf[raddr:raddr+uint64(len(in))], in)
	return nil
}

func (b *backend) Close() error { return nil }
