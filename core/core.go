// Package core ties the I/O substrate, the virtual-address overlay, the
// command dispatcher, and the seek history together into a single
// process-wide state object.
package core

import (
	"fmt"
	"io"

	"github.com/rair-go/rair/command"
	"github.com/rair-go/rair/env"
	"github.com/rair-go/rair/outwriter"
	"github.com/rair-go/rair/registry"
	"github.com/rair-go/rair/rio"
	"github.com/rair-go/rair/vmap"
)

// SeekError is returned by SeekUndo/SeekRedo when the requested history
// stack is empty.
type SeekError struct{ Msg string }

func (e *SeekError) Error() string { return fmt.Sprintf("Seek Error\n%s", e.Msg) }

type histEntry struct {
	mode command.AddrMode
	loc  uint64
}

// Core is the single-threaded, process-wide owner of every live resource:
// the registry, the map engine, the facade over both, the command table,
// the output writers, and the seek history. Construct one with New;
// nothing here is safe for concurrent use by multiple writers.
type Core struct {
	reg *registry.Registry
	vm  *vmap.Engine
	rio *rio.Rio

	env env.Config

	stdout, stderr *outwriter.Writer

	loc  uint64
	mode command.AddrMode

	back, front []histEntry

	Table *command.Table
}

// New constructs a Core over reg and vm, rendering to stdout/stderr and
// reading formatting config from envCfg.
func New(reg *registry.Registry, vm *vmap.Engine, stdout, stderr io.Writer, envCfg env.Config) *Core {
	return &Core{
		reg:    reg,
		vm:     vm,
		rio:    rio.New(reg, vm),
		env:    envCfg,
		stdout: outwriter.New(stdout),
		stderr: outwriter.New(stderr),
		Table:  &command.Table{},
	}
}

func (c *Core) Registry() *registry.Registry { return c.reg }
func (c *Core) VMap() *vmap.Engine            { return c.vm }
func (c *Core) RIO() *rio.Rio                 { return c.rio }
func (c *Core) Env() env.Config               { return c.env }

func (c *Core) Stdout() command.StringWriter { return c.stdout }
func (c *Core) Stderr() command.StringWriter { return c.stderr }

func (c *Core) Loc() uint64               { return c.loc }
func (c *Core) SetLoc(v uint64)           { c.loc = v }
func (c *Core) AddrMode() command.AddrMode { return c.mode }
func (c *Core) SetAddrMode(m command.AddrMode) { c.mode = m }

func (c *Core) pushBack() {
	c.back = append(c.back, histEntry{mode: c.mode, loc: c.loc})
	c.front = nil
}

// SeekTo performs an absolute move to loc, recording history.
func (c *Core) SeekTo(loc uint64) {
	c.pushBack()
	c.loc = loc
}

// SeekRelative performs a relative move by delta (which may be negative),
// recording history. A delta that would underflow clamps to 0.
func (c *Core) SeekRelative(delta int64) {
	c.pushBack()
	if delta < 0 && uint64(-delta) > c.loc {
		c.loc = 0
		return
	}
	c.loc = uint64(int64(c.loc) + delta)
}

// SeekUndo pops the back stack, pushes the current state onto front, and
// jumps to the popped state ("s -").
func (c *Core) SeekUndo() error {
	if len(c.back) == 0 {
		return &SeekError{Msg: "History is empty."}
	}
	n := len(c.back) - 1
	prev := c.back[n]
	c.back = c.back[:n]
	c.front = append(c.front, histEntry{mode: c.mode, loc: c.loc})
	c.mode, c.loc = prev.mode, prev.loc
	return nil
}

// SeekRedo is SeekUndo's inverse ("s +").
func (c *Core) SeekRedo() error {
	if len(c.front) == 0 {
		return &SeekError{Msg: "History is empty."}
	}
	n := len(c.front) - 1
	next := c.front[n]
	c.front = c.front[:n]
	c.back = append(c.back, histEntry{mode: c.mode, loc: c.loc})
	c.mode, c.loc = next.mode, next.loc
	return nil
}

// RunAt runs fn with loc temporarily set to addr, restoring the prior loc
// afterward even if fn fails. It does not touch or consult the seek
// history; it is a scoped override, not a navigational move.
func (c *Core) RunAt(addr uint64, fn func() error) error {
	saved := c.loc
	c.loc = addr
	defer func() { c.loc = saved }()
	return fn()
}
