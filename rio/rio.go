// Package rio implements the RIO facade: the single entry point command
// handlers use to move bytes, composing the file registry's physical
// address space with the map engine's virtual overlay. "rio" stands for
// rad i/o, after the project's own naming for this layer.
package rio

import (
	"github.com/rair-go/rair/ioplug"
	"github.com/rair-go/rair/registry"
	"github.com/rair-go/rair/vmap"
)

// Rio ties a Registry and a map Engine together behind one read/write API.
type Rio struct {
	Reg *registry.Registry
	VM  *vmap.Engine
}

// New returns a facade over reg and vm.
func New(reg *registry.Registry, vm *vmap.Engine) *Rio {
	return &Rio{Reg: reg, VM: vm}
}

// PRead reads len(buf) bytes starting at the physical address paddr.
// Fragments straddling more than one open file are stitched together in
// address order; any gap fails with AddressNotFoundError.
func (r *Rio) PRead(paddr uint64, buf []byte) error {
	return r.pTransfer(paddr, buf, func(f *registry.File, raddr uint64, frag []byte) error {
		return f.Ops.ReadAt(raddr, frag)
	})
}

// PWrite writes buf starting at the physical address paddr, stitching
// across descriptor boundaries the same way PRead does.
func (r *Rio) PWrite(paddr uint64, buf []byte) error {
	return r.pTransfer(paddr, buf, func(f *registry.File, raddr uint64, frag []byte) error {
		return f.Ops.WriteAt(raddr, frag)
	})
}

// pTransfer decomposes [paddr, paddr+len(buf)-1] into the runs of live
// descriptors that back it and invokes xfer on each fragment, in ascending
// address order. A gap anywhere in the range fails the whole transfer.
func (r *Rio) pTransfer(paddr uint64, buf []byte, xfer func(f *registry.File, raddr uint64, frag []byte) error) error {
	if len(buf) == 0 {
		return nil
	}
	hi := paddr + uint64(len(buf)) - 1
	for _, run := range r.Reg.PaddrSparseRangeToHandles(paddr, hi) {
		if !run.OK {
			return &ioplug.AddressNotFoundError{Lo: run.Lo, Hi: run.Hi}
		}
		f, err := r.Reg.Get(run.Handle)
		if err != nil {
			return err
		}
		off := run.Lo - paddr
		width := run.Hi - run.Lo + 1
		if err := xfer(f, f.RaddrOf(run.Lo), buf[off:off+width]); err != nil {
			return err
		}
	}
	return nil
}

// PReadSparse reads [paddr, paddr+len(buf)-1], zero-filling any gap not
// covered by a live file rather than failing. present, if non-nil, must be
// the same length as buf; it is set to false for every gap byte and true
// otherwise, so a renderer can distinguish a real zero byte from a gap.
func (r *Rio) PReadSparse(paddr uint64, buf []byte, present []bool) {
	if len(buf) == 0 {
		return
	}
	hi := paddr + uint64(len(buf)) - 1
	for _, run := range r.Reg.PaddrSparseRangeToHandles(paddr, hi) {
		lo := run.Lo - paddr
		width := run.Hi - run.Lo + 1
		if !run.OK {
			for i := uint64(0); i < width; i++ {
				buf[lo+i] = 0
				if present != nil {
					present[lo+i] = false
				}
			}
			continue
		}
		f, err := r.Reg.Get(run.Handle)
		if err != nil {
			continue
		}
		_ = f.Ops.ReadAt(f.RaddrOf(run.Lo), buf[lo:lo+width])
		if present != nil {
			for i := uint64(0); i < width; i++ {
				present[lo+i] = true
			}
		}
	}
}

// VRead reads [vaddr, vaddr+len(buf)-1] through the virtual map, failing if
// any byte in the range is unmapped.
func (r *Rio) VRead(vaddr uint64, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	hi := vaddr + uint64(len(buf)) - 1
	for _, seg := range r.VM.SplitVaddrRange(vaddr, hi) {
		if seg.Map == nil {
			return &ioplug.AddressNotFoundError{Lo: seg.Lo, Hi: seg.Hi}
		}
		paddr := seg.Map.Paddr + (seg.Lo - seg.Map.Vaddr)
		off := seg.Lo - vaddr
		if err := r.PRead(paddr, buf[off:off+(seg.Hi-seg.Lo+1)]); err != nil {
			return err
		}
	}
	return nil
}

// VWrite writes buf at [vaddr, vaddr+len(buf)-1], failing if any byte in
// the range is unmapped.
func (r *Rio) VWrite(vaddr uint64, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	hi := vaddr + uint64(len(buf)) - 1
	for _, seg := range r.VM.SplitVaddrRange(vaddr, hi) {
		if seg.Map == nil {
			return &ioplug.AddressNotFoundError{Lo: seg.Lo, Hi: seg.Hi}
		}
		paddr := seg.Map.Paddr + (seg.Lo - seg.Map.Vaddr)
		off := seg.Lo - vaddr
		if err := r.PWrite(paddr, buf[off:off+(seg.Hi-seg.Lo+1)]); err != nil {
			return err
		}
	}
	return nil
}

// VReadSparse reads [vaddr, vaddr+len(buf)-1], zero-filling any address
// that is unmapped, or mapped but backed by a physical gap. present, if
// non-nil, must be the same length as buf and is populated the same way as
// in PReadSparse.
func (r *Rio) VReadSparse(vaddr uint64, buf []byte, present []bool) {
	if len(buf) == 0 {
		return
	}
	hi := vaddr + uint64(len(buf)) - 1
	for _, seg := range r.VM.SplitVaddrRange(vaddr, hi) {
		off := seg.Lo - vaddr
		width := seg.Hi - seg.Lo + 1
		if seg.Map == nil {
			for i := uint64(0); i < width; i++ {
				buf[off+i] = 0
				if present != nil {
					present[off+i] = false
				}
			}
			continue
		}
		paddr := seg.Map.Paddr + (seg.Lo - seg.Map.Vaddr)
		var sub []bool
		if present != nil {
			sub = present[off : off+width]
		}
		r.PReadSparse(paddr, buf[off:off+width], sub)
	}
}

// PhyToHndl returns the handle backing paddr, if any.
func (r *Rio) PhyToHndl(paddr uint64) (int, bool) {
	return r.Reg.PaddrToHandle(paddr)
}
