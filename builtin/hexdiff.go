package builtin

import (
	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/dump"
)

// HexDiff implements "hexDiff"/"hd": a side-by-side hex+ASCII diff of two
// equally sized ranges, highlighting differing bytes. With two arguments
// (addr1, size) the second range starts at the core's current location;
// with three (addr1, addr2, size) both are explicit.
type HexDiff struct{}

func (*HexDiff) Names() []string { return []string{"hexDiff", "hd"} }
func (*HexDiff) MinArgs() int    { return 2 }
func (*HexDiff) MaxArgs() int    { return 3 }

func (*HexDiff) Run(c command.Core, args []string) error {
	addrA, err := parseNum(args[0])
	if err != nil {
		return err
	}
	addrB := c.Loc()
	sizeArg := args[1]
	if len(args) == 3 {
		addrB, err = parseNum(args[1])
		if err != nil {
			return err
		}
		sizeArg = args[2]
	}
	size, err := parseNum(sizeArg)
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	var dataA, dataB []byte
	var presentA, presentB []bool
	if err := c.RunAt(addrA, func() error {
		dataA, presentA = readSparse(c, size)
		return nil
	}); err != nil {
		return err
	}
	if err := c.RunAt(addrB, func() error {
		dataB, presentB = readSparse(c, size)
		return nil
	}); err != nil {
		return err
	}

	r := dump.New(c.Env())
	w := c.Stdout()
	width := uint64(c.Env().RowWidth())
	for off := uint64(0); off < size; off += width {
		end := off + width
		if end > size {
			end = size
		}
		rowA, rowB := r.DiffRows(
			addrA+off, dataA[off:end], presentA[off:end],
			addrB+off, dataB[off:end], presentB[off:end],
		)
		if _, err := w.WriteString(rowA + "\n"); err != nil {
			return err
		}
		if _, err := w.WriteString(dump.DiffBanner + "\n"); err != nil {
			return err
		}
		if _, err := w.WriteString(rowB + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (*HexDiff) Help(command.Core) string {
	return "Commands: [hexDiff | hd]\nUsage:\nhd [addr1] [addr2] [size]\tSide-by-side hex+ASCII diff of two ranges, " +
		"highlighting differing bytes. addr2 defaults to the current location.\n"
}
