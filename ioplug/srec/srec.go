// Package srec implements the Motorola S-record encoded-file plugin.
package srec

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

const scheme = "srec"

type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return scheme }

func (p *Plugin) AcceptURI(uri string) bool {
	name, _ := ioplug.SplitURI(uri)
	return name == scheme
}

func (p *Plugin) Open(uri string, perm ioplug.Perm) (*ioplug.OpenResult, error) {
	if perm.Has(ioplug.PermCOW) && perm.Has(ioplug.PermWrite) {
		return nil, ioplug.NewCustomError("srec:// copy-on-write excludes write")
	}
	_, path := ioplug.SplitURI(uri)

	f, err := os.Open(path)
	if err != nil {
		return nil, ioplug.NewParseError(err)
	}
	defer f.Close()

	img := sparse.NewImage()
	var header []byte
	var start *uint64
	var startWidth int

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if len(line) < 4 || line[0] != 'S' {
			return nil, ioplug.NewCustomError("Invalid S-record at line: %d", lineNo)
		}
		count, err := hexByte(line[2:4])
		if err != nil || count < 1 {
			return nil, ioplug.NewCustomError("Invalid S-record at line: %d", lineNo)
		}
		payloadLen := 2 * (int(count) - 1)
		if len(line) < 4+payloadLen {
			return nil, ioplug.NewCustomError("Invalid S-record at line: %d", lineNo)
		}
		payload := line[4 : 4+payloadLen]

		minAddrLen := map[byte]int{'1': 2, '2': 3, '3': 4, '7': 4, '8': 3, '9': 2}
		if addrLen, ok := minAddrLen[line[1]]; ok && len(payload) < 2*addrLen {
			return nil, ioplug.NewCustomError("Invalid S-record at line: %d", lineNo)
		}

		switch line[1] {
		case '0':
			header = decodeHex(payload)
		case '1', '2', '3':
			addrLen := map[byte]int{'1': 2, '2': 3, '3': 4}[line[1]]
			addrBytes := decodeHex(payload[:2*addrLen])
			addr := beUint(addrBytes)
			data := decodeHex(payload[2*addrLen:])
			for i, b := range data {
				img.Set(addr+uint64(i), b)
			}
		case '5', '6':
			// record count, ignored on load.
		case '7', '8', '9':
			addrLen := map[byte]int{'9': 2, '8': 3, '7': 4}[line[1]]
			addrBytes := decodeHex(payload[:2*addrLen])
			v := beUint(addrBytes)
			start = &v
			startWidth = map[byte]int{'9': 1, '8': 2, '7': 3}[line[1]]
		default:
			return nil, ioplug.NewCustomError("Invalid S-record at line: %d", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ioplug.NewParseError(err)
	}

	lo, hi, ok := img.MinMax()
	size := uint64(0)
	if ok {
		size = hi - lo + 1
	} else {
		lo = 0
	}

	cow := perm.Has(ioplug.PermCOW)
	b := &backend{
		path:       path,
		img:        img,
		header:     header,
		start:      start,
		startWidth: startWidth,
		writable:   perm.Has(ioplug.PermWrite) || cow,
		cow:        cow,
	}
	return &ioplug.OpenResult{Raddr: lo, Size: size, Ops: b}, nil
}

func hexByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func decodeHex(s string) []byte {
	out := make([]byte, len(s)/2)
	for i := range out {
		v, _ := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		out[i] = byte(v)
	}
	return out
}

func beUint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func onesComplementChecksum(sum int) byte {
	return byte(^sum & 0xff)
}

type backend struct {
	path       string
	img        *sparse.Image
	header     []byte
	start      *uint64
	startWidth int // 1=16bit, 2=24bit, 3=32bit
	writable   bool
	cow        bool
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

func (b *backend) persist() error {
	var buf bytes.Buffer

	if b.header != nil {
		writeRecord(&buf, "S0", 0, b.header, 0)
	}

	var addrs []uint64
	b.img.Do(func(addr uint64, _ byte) bool {
		addrs = append(addrs, addr)
		return true
	})

	maxWidth := 1
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

		width, tag := 2, "S1"
		switch {
		case rowAddr > 0xffffff:
			width, tag = 4, "S3"
		case rowAddr > 0xffff:
			width, tag = 3, "S2"
		}
		if width > addrWidthBytes(maxWidth) {
			maxWidth = addrWidthIndex(width)
		}
		writeRecord(&buf, tag, rowAddr, row, width)
		i = j
	}

	termTag := map[int]string{1: "S9", 2: "S8", 3: "S7"}[maxWidth]
	termAddr := uint64(0)
	if b.start != nil {
		termAddr = *b.start
	}
	writeRecord(&buf, termTag, termAddr, nil, addrWidthBytes(maxWidth))

	return ioutil.WriteFile(b.path, buf.Bytes(), 0o644)
}

func addrWidthBytes(idx int) int { return map[int]int{1: 2, 2: 3, 3: 4}[idx] }
func addrWidthIndex(bytes int) int {
	return map[int]int{2: 1, 3: 2, 4: 3}[bytes]
}

// writeRecord emits one S-record. addrWidth is the address field width in
// bytes (0 for S0's 2-byte fixed field).
func writeRecord(buf *bytes.Buffer, tag string, addr uint64, data []byte, addrWidth int) {
	width := addrWidth
	if tag == "S0" {
		width = 2
	}
	count := width + len(data) + 1
	sum := count
	for i := width - 1; i >= 0; i-- {
		sum += int((addr >> uint(8*i)) & 0xff)
	}
	for _, b := range data {
		sum += int(b)
	}
	fmt.Fprintf(buf, "%s%02X%0*X", tag, count, width*2, addr)
	for _, b := range data {
		fmt.Fprintf(buf, "%02X", b)
	}
	fmt.Fprintf(buf, "%02X\n", onesComplementChecksum(sum))
}
