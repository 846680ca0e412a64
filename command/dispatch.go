package command

import (
	"fmt"
	"strings"

	"github.com/rair-go/rair/suggest"
)

// Dispatcher parses a command line, resolves it against a Table, checks its
// argument-count contract, and runs it, formatting any returned error as a
// two-line "Error: <title>\n<detail>\n" message. The suggest collaborator
// is optional; a nil Suggester simply means no candidates are offered for
// an unrecognized name.
type Dispatcher struct {
	Table     *Table
	Suggester *suggest.Suggester
}

// NewDispatcher returns a Dispatcher over table. sugg may be nil.
func NewDispatcher(table *Table, sugg *suggest.Suggester) *Dispatcher {
	return &Dispatcher{Table: table, Suggester: sugg}
}

// Dispatch tokenizes line, finds its handler, enforces the handler's
// argument-count contract, and runs it. Any error is both returned AND
// written to c's stderr in the two-line "Error: <title>\n<detail>\n" form;
// a caller that only cares about output (e.g. a batch runner) can ignore
// the return value.
func (d *Dispatcher) Dispatch(c Core, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	h, ok := d.Table.Lookup(name)
	if !ok {
		err := &NotFoundError{Name: name, Suggestions: d.suggestions(name)}
		d.report(c, err)
		return err
	}

	if err := ExpectRange(args, h.MinArgs(), h.MaxArgs()); err != nil {
		d.report(c, err)
		return err
	}

	if err := h.Run(c, args); err != nil {
		d.report(c, err)
		return err
	}
	return nil
}

func (d *Dispatcher) suggestions(name string) []string {
	if d.Suggester == nil {
		return nil
	}
	return d.Suggester.Rank(name, 3)
}

// report writes err in the two-line "Error: <title>\n<detail>\n" form; the
// title is whatever the error's own Error() leads with.
func (d *Dispatcher) report(c Core, err error) {
	if c == nil {
		return
	}
	fmt.Fprintf(writerAdapter{c.Stderr()}, "Error: %v\n", err)
}

// writerAdapter lets fmt.Fprintf target a StringWriter.
type writerAdapter struct{ w StringWriter }

func (a writerAdapter) Write(p []byte) (int, error) {
	return a.w.WriteString(string(p))
}
