package builtin

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/ioplug"
)

// wrapBytes maps a value width (in bits) to the number of data bytes after
// which a CSV row wraps to a new line, matching the fixed line widths of
// the reference renderer this command was modeled on.
var wrapBytes = map[int]int{8: 16, 16: 24, 32: 32, 64: 32, 128: 32, 256: 64, 512: 64}

func parseBitsAndCount(args []string) (bits, count int, err error) {
	b, err := parseNum(args[0])
	if err != nil {
		return 0, 0, err
	}
	n, err := parseNum(args[1])
	if err != nil {
		return 0, 0, err
	}
	return int(b), int(n), nil
}

// csvUnsigned renders data as comma-separated hex values of unitBytes each,
// most-significant byte first, wrapping every wrap bytes.
func csvUnsigned(data []byte, unitBytes, wrap int) string {
	var b strings.Builder
	for i := 0; i < len(data); i += unitBytes {
		b.WriteString("0x")
		for j := unitBytes - 1; j >= 0; j-- {
			fmt.Fprintf(&b, "%02x", data[i+j])
		}
		writeTerminal(&b, i, unitBytes, len(data), wrap)
	}
	return b.String()
}

// csvSigned renders data as comma-separated signed decimal values of
// unitBytes each (little-endian, two's complement), wrapping every wrap
// bytes.
func csvSigned(data []byte, unitBytes, wrap int) string {
	var b strings.Builder
	for i := 0; i < len(data); i += unitBytes {
		b.WriteString(signedDecimal(data[i : i+unitBytes]))
		writeTerminal(&b, i, unitBytes, len(data), wrap)
	}
	return b.String()
}

func writeTerminal(b *strings.Builder, i, unitBytes, total, wrap int) {
	switch {
	case i+unitBytes >= total:
	case (i+unitBytes)%wrap != 0:
		b.WriteString(", ")
	default:
		b.WriteString(",\n")
	}
}

func signedDecimal(le []byte) string {
	switch len(le) {
	case 1:
		return strconv.FormatInt(int64(int8(le[0])), 10)
	case 2:
		v := uint16(le[0]) | uint16(le[1])<<8
		return strconv.FormatInt(int64(int16(v)), 10)
	case 4:
		var v uint32
		for j := 3; j >= 0; j-- {
			v = v<<8 | uint32(le[j])
		}
		return strconv.FormatInt(int64(int32(v)), 10)
	case 8:
		var v uint64
		for j := 7; j >= 0; j-- {
			v = v<<8 | uint64(le[j])
		}
		return strconv.FormatInt(int64(v), 10)
	default:
		be := make([]byte, len(le))
		for i, v := range le {
			be[len(le)-1-i] = v
		}
		mag := new(big.Int).SetBytes(be)
		// Two's complement: if the top bit is set, subtract 2^(8*len).
		if be[0]&0x80 != 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), uint(len(le)*8))
			mag.Sub(mag, mod)
		}
		return mag.String()
	}
}

// PrintCSV implements "printCSV"/"pcsv": a dense read of bits/8*count bytes
// at the current location, emitted as comma-separated unsigned
// little-endian values.
type PrintCSV struct{}

func (*PrintCSV) Names() []string { return []string{"printCSV", "pcsv"} }
func (*PrintCSV) MinArgs() int    { return 2 }
func (*PrintCSV) MaxArgs() int    { return 2 }

func (*PrintCSV) Run(c command.Core, args []string) error {
	bits, count, err := parseBitsAndCount(args)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	wrap, ok := wrapBytes[bits]
	if !ok {
		return ioplug.NewCustomError("Invalid size %d, supported sizes are 8, 16, 32, 64, 128, 256, 512", bits)
	}
	size := bits / 8 * count
	data, err := readDense(c, uint64(size))
	if err != nil {
		return err
	}
	out := csvUnsigned(data, bits/8, wrap)
	_, werr := c.Stdout().WriteString(out + "\n")
	return werr
}

func (*PrintCSV) Help(command.Core) string {
	return "Commands: [printCSV | pcsv]\nUsage:\npcsv [bits] [count]\tPrint unsigned comma-separated values. " +
		"Supported sizes: 8, 16, 32, 64, 128, 256, 512.\n"
}

// PrintSCSV implements "printSCSV"/"pscsv": the signed counterpart of
// PrintCSV, supporting widths up to 128 bits.
type PrintSCSV struct{}

func (*PrintSCSV) Names() []string { return []string{"printSCSV", "pscsv"} }
func (*PrintSCSV) MinArgs() int    { return 2 }
func (*PrintSCSV) MaxArgs() int    { return 2 }

func (*PrintSCSV) Run(c command.Core, args []string) error {
	bits, count, err := parseBitsAndCount(args)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	wrap, ok := wrapBytes[bits]
	if !ok || bits > 128 {
		return ioplug.NewCustomError("Invalid size %d, supported sizes are 8, 16, 32, 64, 128", bits)
	}
	size := bits / 8 * count
	data, err := readDense(c, uint64(size))
	if err != nil {
		return err
	}
	out := csvSigned(data, bits/8, wrap)
	_, werr := c.Stdout().WriteString(out + "\n")
	return werr
}

func (*PrintSCSV) Help(command.Core) string {
	return "Commands: [printSCSV | pscsv]\nUsage:\npscsv [bits] [count]\tPrint signed comma-separated values. " +
		"Supported sizes: 8, 16, 32, 64, 128.\n"
}
