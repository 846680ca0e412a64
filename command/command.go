// Package command implements the command dispatcher: an ordered
// name->handler table, argument-count contract helpers, and the Core
// interface every built-in command runs against. The numeric literal
// parser the built-ins share lives in package ioplug (ParseNumeric).
package command

import (
	"strings"

	"github.com/biogo/store/llrb"

	"github.com/rair-go/rair/env"
	"github.com/rair-go/rair/registry"
	"github.com/rair-go/rair/rio"
	"github.com/rair-go/rair/vmap"
)

// AddrMode selects whether reads/writes address the physical or virtual
// view of the address space.
type AddrMode int

const (
	Phy AddrMode = iota
	Vir
)

func (m AddrMode) String() string {
	if m == Vir {
		return "vir"
	}
	return "phy"
}

// Core is the slice of core.Core that a Handler needs. It is declared here,
// not in package core, so that command (and builtin, which depends on it)
// never import core and create a cycle; core.Core satisfies this
// interface.
type Core interface {
	Registry() *registry.Registry
	VMap() *vmap.Engine
	RIO() *rio.Rio
	Env() env.Config

	Stdout() StringWriter
	Stderr() StringWriter

	Loc() uint64
	SetLoc(uint64)
	AddrMode() AddrMode
	SetAddrMode(AddrMode)

	// SeekTo performs an absolute move, pushing the prior (mode, loc) onto
	// the back history stack and clearing the front stack.
	SeekTo(loc uint64)
	// SeekRelative performs a relative move, with the same history effect
	// as SeekTo.
	SeekRelative(delta int64)
	// SeekUndo pops the back stack (pushing the current state onto front)
	// and jumps to it. Returns an error if the back stack is empty.
	SeekUndo() error
	// SeekRedo is SeekUndo's inverse.
	SeekRedo() error
}

// StringWriter is the narrow sink every command prints through (satisfied
// by outwriter.Writer).
type StringWriter interface {
	WriteString(s string) (int, error)
}

// Handler is one registered command. Names returns every alias it answers
// to (long form first); MinArgs/MaxArgs bound its argument count (MaxArgs
// == -1 means unbounded).
type Handler interface {
	Names() []string
	MinArgs() int
	MaxArgs() int
	Run(c Core, args []string) error
	Help(c Core) string
}

// entry is the llrb.Comparable stored in the table, keyed by one of a
// handler's names.
type entry struct {
	name    string
	handler Handler
}

func (e *entry) Compare(other llrb.Comparable) int {
	return strings.Compare(e.name, other.(*entry).name)
}

// Table is the ordered name->handler map. The zero value is empty and
// usable.
type Table struct {
	tree llrb.Tree
}

// Register adds h under every name it answers to.
func (t *Table) Register(h Handler) {
	for _, name := range h.Names() {
		t.tree.Insert(&entry{name: name, handler: h})
	}
}

// Lookup finds the handler registered under the exact name.
func (t *Table) Lookup(name string) (Handler, bool) {
	found := t.tree.Get(&entry{name: name})
	if found == nil {
		return nil, false
	}
	return found.(*entry).handler, true
}

// WithPrefix returns every distinct handler with at least one name
// beginning with prefix, in name order, deduplicated across aliases.
func (t *Table) WithPrefix(prefix string) []Handler {
	var out []Handler
	seen := make(map[Handler]bool)
	from := &entry{name: prefix}
	to := &entry{name: prefix + "\xff"}
	t.tree.DoRange(func(c llrb.Comparable) bool {
		h := c.(*entry).handler
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
		return false
	}, from, to)
	return out
}

// Do visits every (name, handler) pair in order.
func (t *Table) Do(fn func(name string, h Handler) bool) {
	t.tree.Do(func(c llrb.Comparable) bool {
		e := c.(*entry)
		return !fn(e.name, e.handler)
	})
}

// Len returns the number of registered names (not distinct handlers).
func (t *Table) Len() int {
	return t.tree.Len()
}
