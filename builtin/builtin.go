// Package builtin implements the built-in command set: opening and
// closing files, mapping and unmapping address ranges, the
// various print/write/diff commands, and seeking. Every handler here
// implements command.Handler and is grounded on the argument-sniffing and
// formatting style of the project this core's command layer was modeled
// after, adapted to the Go dispatcher's Handler interface.
package builtin

import "github.com/rair-go/rair/command"

// Register adds every built-in handler to table.
func Register(table *command.Table) {
	table.Register(&OpenFile{})
	table.Register(&CloseFile{})
	table.Register(&ListFiles{})
	table.Register(&Map{})
	table.Register(&Unmap{})
	table.Register(&ListMaps{})
	table.Register(&PrintHex{})
	table.Register(&PrintBase{})
	table.Register(&PrintCSV{})
	table.Register(&PrintSCSV{})
	table.Register(&WriteHex{})
	table.Register(&WriteToFile{})
	table.Register(&HexDiff{})
	table.Register(&Seek{})
	table.Register(&Quit{})
	table.Register(&PanicMsg{})
}

// Names collects every name every registered handler answers to, suitable
// for building a suggest.Suggester index.
func Names() []string {
	var t command.Table
	Register(&t)
	var out []string
	t.Do(func(name string, _ command.Handler) bool {
		out = append(out, name)
		return true
	})
	return out
}
