package builtin

import (
	"fmt"
	"strings"

	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/ioplug"
)

// PrintBase implements "printBase"/"pb": a dense read of size bytes at the
// current location, emitted as one contiguous digit string in base 2 or
// base 16.
type PrintBase struct{}

func (*PrintBase) Names() []string { return []string{"printBase", "pb"} }
func (*PrintBase) MinArgs() int    { return 2 }
func (*PrintBase) MaxArgs() int    { return 2 }

func (*PrintBase) Run(c command.Core, args []string) error {
	size, err := parseNum(args[1])
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	data, err := readDense(c, size)
	if err != nil {
		return err
	}
	var out string
	switch args[0] {
	case "2":
		out = encodeBin(data)
	case "16":
		out = encodeHex(data)
	default:
		return ioplug.NewCustomError("Invalid base %q, supported bases are 2 and 16", args[0])
	}
	_, werr := c.Stdout().WriteString(out + "\n")
	return werr
}

func (*PrintBase) Help(command.Core) string {
	return "Commands: [printBase | pb]\nUsage:\npb [base] [size]\tPrint data at current location in the given base (2 or 16).\n"
}

func encodeBin(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 8)
	for _, by := range data {
		fmt.Fprintf(&b, "%08b", by)
	}
	return b.String()
}

func encodeHex(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 2)
	for _, by := range data {
		fmt.Fprintf(&b, "%02x", by)
	}
	return b.String()
}
