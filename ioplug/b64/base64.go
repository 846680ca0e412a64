// Package b64 implements the base64 encoded-file plugin: it decodes a
// base64 text file into an in-memory byte image on open, and re-encodes the
// whole image to the file on every write to a non-COW source. Reads and
// writes address the decoded image directly; the encoded text is not
// decoded or spliced per 3-byte/4-character quantum.
package b64

import (
	"encoding/base64"
	"io"
	"io/ioutil"
	"os"

	"github.com/rair-go/rair/ioplug"
)

const scheme = "b64"

// Plugin opens b64:// URIs.
type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return scheme }

func (p *Plugin) AcceptURI(uri string) bool {
	name, _ := ioplug.SplitURI(uri)
	return name == scheme
}

func (p *Plugin) Open(uri string, perm ioplug.Perm) (*ioplug.OpenResult, error) {
	if perm.Has(ioplug.PermCOW) && perm.Has(ioplug.PermWrite) {
		return nil, ioplug.NewCustomError("b64:// copy-on-write excludes write")
	}
	_, path := ioplug.SplitURI(uri)

	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, ioplug.NewParseError(err)
	}

	decoded, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, ioplug.NewParseError(err)
	}

	cow := perm.Has(ioplug.PermCOW)
	b := &backend{
		path:     path,
		data:     decoded,
		writable: perm.Has(ioplug.PermWrite) || cow,
		cow:      cow,
	}
	return &ioplug.OpenResult{Raddr: 0, Size: uint64(len(decoded)), Ops: b}, nil
}

type backend struct {
	path     string
	data     []byte
	writable bool
	cow      bool
}

func (b *backend) ReadAt(raddr uint64, buf []byte) error {
	if raddr+uint64(len(buf)) > uint64(len(b.data)) {
		return ioplug.NewParseError(io.ErrUnexpectedEOF)
	}
	copy(buf, b.data[raddr:raddr+uint64(len(buf))])
	return nil
}

func (b *backend) WriteAt(raddr uint64, buf []byte) error {
	if !b.writable {
		return ioplug.NewParseError(os.ErrPermission)
	}
	end := raddr + uint64(len(buf))
	if end > uint64(len(b.data)) {
		return ioplug.NewParseError(io.ErrUnexpectedEOF)
	}
	copy(b.data[raddr:end], buf)
	if b.cow {
		return nil
	}
	return b.persist()
}

func (b *backend) Close() error { return nil }

// persist re-encodes the whole decoded image and rewrites the file. Encoding
// proceeds in 3-decoded-byte/4-encoded-byte quanta; a final partial quantum
// is padded with '=' by the standard encoding, matching how it was almost
// certainly produced on the way in.
func (b *backend) persist() error {
	encoded := base64.StdEncoding.EncodeToString(b.data)
	return ioutil.WriteFile(b.path, []byte(encoded), 0o644)
}
