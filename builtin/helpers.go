package builtin

import (
	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/ioplug"
)

// parseNum parses s using the shared numeric grammar, wrapping any
// failure as a CustomError so it prints under its own title with no
// arguments-error noise.
func parseNum(s string) (uint64, error) {
	return ioplug.ParseNumeric(s)
}

// readDense reads size bytes at the core's current location, honoring its
// address mode.
func readDense(c command.Core, size uint64) ([]byte, error) {
	buf := make([]byte, size)
	var err error
	if c.AddrMode() == command.Vir {
		err = c.RIO().VRead(c.Loc(), buf)
	} else {
		err = c.RIO().PRead(c.Loc(), buf)
	}
	return buf, err
}

// readSparse reads size bytes at the core's current location, zero-filling
// gaps rather than failing, and reports which bytes were actually present.
func readSparse(c command.Core, size uint64) (data []byte, present []bool) {
	data = make([]byte, size)
	present = make([]bool, size)
	if c.AddrMode() == command.Vir {
		c.RIO().VReadSparse(c.Loc(), data, present)
	} else {
		c.RIO().PReadSparse(c.Loc(), data, present)
	}
	return data, present
}

// writeDense writes data at the core's current location, honoring its
// address mode.
func writeDense(c command.Core, data []byte) error {
	if c.AddrMode() == command.Vir {
		return c.RIO().VWrite(c.Loc(), data)
	}
	return c.RIO().PWrite(c.Loc(), data)
}
