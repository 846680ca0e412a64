package builtin

import (
	"encoding/hex"

	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/ioplug"
)

// WriteHex implements "writeHex"/"wx": parse an even-length hex string and
// write it at the current location.
type WriteHex struct{}

func (*WriteHex) Names() []string { return []string{"writeHex", "wx"} }
func (*WriteHex) MinArgs() int    { return 1 }
func (*WriteHex) MaxArgs() int    { return 1 }

func (*WriteHex) Run(c command.Core, args []string) error {
	if len(args[0])%2 != 0 {
		return ioplug.NewCustomError("Failed to parse data\nData can't have an odd number of digits.")
	}
	data, err := hex.DecodeString(args[0])
	if err != nil {
		return ioplug.NewCustomError("Failed to parse data\n%v", err)
	}
	return writeDense(c, data)
}

func (*WriteHex) Help(command.Core) string {
	return "Commands: [writeHex | wx]\nUsage:\nwx [hexpairs]\tWrite the given hex pairs at the current location.\n"
}

// WriteToFile implements "writeToFile"/"wtf": read size bytes at the
// current location and write them to a filesystem path.
type WriteToFile struct{}

func (*WriteToFile) Names() []string { return []string{"writeToFile", "wtf"} }
func (*WriteToFile) MinArgs() int    { return 2 }
func (*WriteToFile) MaxArgs() int    { return 2 }

func (*WriteToFile) Run(c command.Core, args []string) error {
	size, err := parseNum(args[0])
	if err != nil {
		return err
	}
	data, err := readDense(c, size)
	if err != nil {
		return err
	}
	if err := writeFile(args[1], data); err != nil {
		return ioplug.NewCustomError("Failed to write data to file\n%v", err)
	}
	return nil
}

func (*WriteToFile) Help(command.Core) string {
	return "Commands: [writeToFile | wtf]\nUsage:\nwtf [size] [path]\tWrite size bytes at the current location to path.\n"
}
