package builtin

import (
	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/dump"
)

const dumpBanner = "- offset -  0 1  2 3  4 5  6 7  8 9  A B  C D  E F  0123456789ABCDEF"

// PrintHex implements "printHex"/"px": a sparse read of size bytes at the
// current location, rendered as 16-byte hex+ASCII rows. A size of 0 is a
// silent no-op.
type PrintHex struct{}

func (*PrintHex) Names() []string { return []string{"printHex", "px"} }
func (*PrintHex) MinArgs() int    { return 1 }
func (*PrintHex) MaxArgs() int    { return 1 }

func (*PrintHex) Run(c command.Core, args []string) error {
	size, err := parseNum(args[0])
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	data, present := readSparse(c, size)
	r := dump.New(c.Env())
	w := c.Stdout()
	if _, err := w.WriteString(dumpBanner + "\n"); err != nil {
		return err
	}
	width := uint64(c.Env().RowWidth())
	loc := c.Loc()
	for off := uint64(0); off < size; off += width {
		end := off + width
		if end > size {
			end = size
		}
		row := r.Row(loc+off, data[off:end], present[off:end], nil)
		if _, err := w.WriteString(row + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (*PrintHex) Help(command.Core) string {
	return "Commands: [printHex | px]\nUsage:\npx [size]\tView data at current location in hex format.\n"
}
