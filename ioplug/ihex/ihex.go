// Package ihex implements the Intel HEX encoded-file plugin: it decodes an
// ASCII .hex file into a sparse byte image on open, and re-emits the whole
// file on every write to a non-COW source.
package ihex

import (
	"bufio"
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/rair-go/rair/ioplug"
	"github.com/rair-go/rair/ioplug/sparse"
)

const scheme = "ihex"

// Plugin opens ihex:// URIs.
type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return scheme }

func (p *Plugin) AcceptURI(uri string) bool {
	name, _ := ioplug.SplitURI(uri)
	return name == scheme
}

func (p *Plugin) Open(uri string, perm ioplug.Perm) (*ioplug.OpenResult, error) {
	if perm.Has(ioplug.PermCOW) && perm.Has(ioplug.PermWrite) {
		return nil, ioplug.NewCustomError("ihex:// copy-on-write excludes write")
	}
	_, path := ioplug.SplitURI(uri)

	f, err := os.Open(path)
	if err != nil {
		return nil, ioplug.NewParseError(err)
	}
	defer f.Close()

	img := sparse.NewImage()
	var ssa, sla *uint32
	extBase := uint64(0)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return nil, ioplug.NewCustomError("Invalid ihex record at line: %d", lineNo)
		}
		switch rec.kind {
		case recData:
			for i, b := range rec.data {
				img.Set(extBase+rec.addr+uint64(i), b)
			}
		case recEOF:
			// nothing further to do; loop continues in case trailing blank
			// lines remain, matching permissive readers.
		case recExtSegment:
			extBase = rec.ext << 4
		case recExtLinear:
			extBase = rec.ext << 16
		case recStartSegment:
			v := uint32(rec.ext)
			ssa = &v
		case recStartLinear:
			v := uint32(rec.ext)
			sla = &v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ioplug.NewParseError(err)
	}

	lo, _, ok := img.MinMax()
	if !ok {
		lo = 0
	}

	perms := perm
	cow := perms.Has(ioplug.PermCOW)
	writable := perms.Has(ioplug.PermWrite) || cow
	b := &backend{
		path:     path,
		img:      img,
		ssa:      ssa,
		sla:      sla,
		raddr:    lo,
		writable: writable,
		cow:      cow,
	}
	_, hi, ok := img.MinMax()
	size := uint64(0)
	if ok {
		size = hi - lo + 1
	}
	return &ioplug.OpenResult{Raddr: lo, Size: size, Ops: b}, nil
}

type recKind int

const (
	recData recKind = iota
	recEOF
	recExtSegment
	recExtLinear
	recStartSegment
	recStartLinear
)

type record struct {
	kind recKind
	addr uint64
	data []byte
	ext  uint64
}

func parseLine(line string) (record, error) {
	if len(line) < 11 || line[0] != ':' {
		return record{}, fmt.Errorf("malformed record")
	}
	size, err := hexByte(line[1:3])
	if err != nil {
		return record{}, err
	}
	addrHi, err := hexByte(line[3:5])
	if err != nil {
		return record{}, err
	}
	addrLo, err := hexByte(line[5:7])
	if err != nil {
		return record{}, err
	}
	addr := uint64(addrHi)<<8 | uint64(addrLo)
	typ, err := hexByte(line[7:9])
	if err != nil {
		return record{}, err
	}
	body := line[9:]
	wantLen := 2*int(size) + 2 // data bytes + checksum, in hex chars
	if len(body) < wantLen {
		return record{}, fmt.Errorf("truncated record")
	}
	dataHex := body[:2*int(size)]
	data := make([]byte, size)
	for i := 0; i < int(size); i++ {
		b, err := hexByte(dataHex[2*i : 2*i+2])
		if err != nil {
			return record{}, err
		}
		data[i] = b
	}

	switch typ {
	case 0x00:
		return record{kind: recData, addr: addr, data: data}, nil
	case 0x01:
		return record{kind: recEOF}, nil
	case 0x02:
		return record{kind: recExtSegment, ext: beUint(data)}, nil
	case 0x04:
		return record{kind: recExtLinear, ext: beUint(data)}, nil
	case 0x03:
		return record{kind: recStartSegment, ext: beUint(data)}, nil
	case 0x05:
		return record{kind: recStartLinear, ext: beUint(data)}, nil
	default:
		return record{}, fmt.Errorf("unsupported record type %02x", typ)
	}
}

func beUint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func hexByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func checksum(sum int) byte {
	return byte((0x100 - (sum & 0xff)) & 0xff)
}

type backend struct {
	path     string
	img      *sparse.Image
	ssa, sla *uint32
	raddr    uint64
	writable bool
	cow      bool
}

func (b *backend) ReadAt(raddr uint64, buf []byte) error {
	b.img.ReadAt(raddr, buf)
	return nil
}

func (b *backend) WriteAt(raddr uint64, buf []byte) error {
	if !b.writable {
		return ioplug.NewParseError(os.ErrPermission)
	}
	b.img.WriteAt(raddr, buf)
	if b.cow {
		return nil
	}
	return b.persist()
}

func (b *backend) Close() error { return nil }

// persist re-emits the entire file: it builds the new contents in memory,
// then truncates and rewrites the file in place (no temporary file or
// rename is used).
func (b *backend) persist() error {
	var buf bytes.Buffer
	extBase := uint64(0)

	var addrs []uint64
	b.img.Do(func(addr uint64, _ byte) bool {
		addrs = append(addrs, addr)
		return true
	})

	i := 0
	for i < len(addrs) {
		rowAddr := addrs[i]
		j := i
		row := make([]byte, 0, 16)
		for j < len(addrs) && len(row) < 16 && addrs[j] == rowAddr+uint64(len(row)) {
			v, _ := b.img.Get(addrs[j])
			row = append(row, v)
			j++
		}

		if rowAddr>>16 != extBase {
			extBase = rowAddr >> 16
			writeExtLinear(&buf, extBase)
		}

		writeData(&buf, uint16(rowAddr&0xffff), row)
		i = j
	}

	if b.ssa != nil {
		writeStart(&buf, 0x03, *b.ssa)
	}
	if b.sla != nil {
		writeStart(&buf, 0x05, *b.sla)
	}
	buf.WriteString(":00000001FF\n")

	return ioutil.WriteFile(b.path, buf.Bytes(), 0o644)
}

func writeExtLinear(buf *bytes.Buffer, ext uint64) {
	sum := 2 + 0 + 0 + 4 + int(ext>>8&0xff) + int(ext&0xff)
	fmt.Fprintf(buf, ":02000004%04X%02X\n", ext&0xffff, checksum(sum))
}

func writeData(buf *bytes.Buffer, addr uint16, data []byte) {
	sum := len(data) + int(addr>>8) + int(addr&0xff) + 0x00
	for _, b := range data {
		sum += int(b)
	}
	fmt.Fprintf(buf, ":%02X%04X00", len(data), addr)
	for _, b := range data {
		fmt.Fprintf(buf, "%02X", b)
	}
	fmt.Fprintf(buf, "%02X\n", checksum(sum))
}

func writeStart(buf *bytes.Buffer, typ byte, v uint32) {
	sum := 4 + int(typ) + int(v>>24&0xff) + int(v>>16&0xff) + int(v>>8&0xff) + int(v&0xff)
	fmt.Fprintf(buf, ":040000%02X%08X%02X\n", typ, v, checksum(sum))
}
