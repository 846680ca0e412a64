// Package registry implements the file registry: the dense, handle-indexed
// table of open sources, backed by a pluggable set of I/O backends
// (ioplug.Plugin) and a secondary interval-tree index from physical address
// to handle.
package registry

import (
	"container/heap"

	"github.com/grailbio/base/log"

	"github.com/rair-go/rair/intervaltree"
	"github.com/rair-go/rair/ioplug"
)

// File is one entry in the registry: an open source, its backing plugin,
// and the non-overlapping physical address range it occupies.
type File struct {
	Handle int
	URI    string
	Perm   ioplug.Perm
	Plugin ioplug.Plugin
	Ops    ioplug.Ops
	// Raddr is the backend's own internal base address; ReadAt/WriteAt on
	// Ops are relative to it, not to Paddr.
	Raddr uint64
	Paddr uint64
	Size  uint64
}

// RaddrOf translates a physical address within f's range to the backend's
// internal address space.
func (f *File) RaddrOf(paddr uint64) uint64 {
	return f.Raddr + (paddr - f.Paddr)
}

// Hi returns the last physical address occupied by f, inclusive. An empty
// file (Size == 0) occupies no addresses and Hi equals Paddr.
func (f *File) Hi() uint64 {
	if f.Size == 0 {
		return f.Paddr
	}
	return f.Paddr + f.Size - 1
}

// Registry is the handle table. The zero value is not usable; construct
// one with New.
type Registry struct {
	plugins []ioplug.Plugin

	files []*File // dense; files[h] == nil means handle h is free
	free  handleHeap
	pToH  intervaltree.Tree // physical Interval -> []interface{}{handle}
}

// New returns a Registry that resolves URIs against plugins in order; the
// first plugin whose AcceptURI matches wins, so a catch-all plugin (e.g.
// the raw file:// backend) must be registered last.
func New(plugins ...ioplug.Plugin) *Registry {
	return &Registry{plugins: plugins}
}

func (r *Registry) resolve(uri string) (ioplug.Plugin, error) {
	for _, p := range r.plugins {
		if p.AcceptURI(uri) {
			return p, nil
		}
	}
	return nil, &ioplug.IoPluginNotFoundError{URI: uri}
}

func (r *Registry) nextHandle() int {
	if len(r.free) > 0 {
		return heap.Pop(&r.free).(int)
	}
	return len(r.files)
}

func (r *Registry) place(h int, f *File) {
	if len(r.pToH.Overlap(f.Paddr, f.Hi())) > 0 {
		// Every caller of place already checked disjointness; reaching
		// here means the registry's own bookkeeping is broken, not a bad
		// request, so this is a panic rather than a returned error.
		log.Panicf("registry: placing handle %d at [0x%x,0x%x] violates disjointness invariant", h, f.Paddr, f.Hi())
	}
	for h >= len(r.files) {
		r.files = append(r.files, nil)
	}
	r.files[h] = f
	r.pToH.Insert(f.Paddr, f.Hi(), h)
}

// lowestFreePaddr finds the smallest address lo such that [lo, lo+size-1]
// overlaps no live range: start at 0 and, while something overlaps, jump
// past the highest endpoint of whatever it hit.
func (r *Registry) lowestFreePaddr(size uint64) uint64 {
	lo := uint64(0)
	for {
		hi := lo
		if size > 0 {
			hi = lo + size - 1
		}
		matches := r.pToH.Overlap(lo, hi)
		if len(matches) == 0 {
			return lo
		}
		next := lo
		for _, m := range matches {
			if f := r.files[m.(int)]; f.Hi() >= next {
				next = f.Hi() + 1
			}
		}
		lo = next
	}
}

// Open opens uri and places it at the lowest physical address that leaves
// every existing range undisturbed.
func (r *Registry) Open(uri string, perm ioplug.Perm) (int, error) {
	plugin, err := r.resolve(uri)
	if err != nil {
		return 0, err
	}
	res, err := plugin.Open(uri, perm)
	if err != nil {
		return 0, err
	}
	paddr := r.lowestFreePaddr(res.Size)
	return r.place2(uri, perm, plugin, res, paddr), nil
}

// OpenDefault opens uri and places it at the backend-reported raddr,
// failing with AddressesOverlapError on intersection.
func (r *Registry) OpenDefault(uri string, perm ioplug.Perm) (int, error) {
	plugin, err := r.resolve(uri)
	if err != nil {
		return 0, err
	}
	res, err := plugin.Open(uri, perm)
	if err != nil {
		return 0, err
	}
	return r.placeChecked(uri, perm, plugin, res, res.Raddr)
}

// OpenAt opens uri at an explicit physical base address, failing with
// AddressesOverlapError on intersection.
func (r *Registry) OpenAt(uri string, perm ioplug.Perm, paddr uint64) (int, error) {
	plugin, err := r.resolve(uri)
	if err != nil {
		return 0, err
	}
	res, err := plugin.Open(uri, perm)
	if err != nil {
		return 0, err
	}
	return r.placeChecked(uri, perm, plugin, res, paddr)
}

func (r *Registry) placeChecked(uri string, perm ioplug.Perm, plugin ioplug.Plugin, res *ioplug.OpenResult, paddr uint64) (int, error) {
	hi := paddr
	if res.Size > 0 {
		hi = paddr + res.Size - 1
	}
	if len(r.pToH.Overlap(paddr, hi)) > 0 {
		return 0, &ioplug.AddressesOverlapError{Lo: paddr, Hi: hi}
	}
	return r.place2(uri, perm, plugin, res, paddr), nil
}

func (r *Registry) place2(uri string, perm ioplug.Perm, plugin ioplug.Plugin, res *ioplug.OpenResult, paddr uint64) int {
	h := r.nextHandle()
	f := &File{
		Handle: h,
		URI:    uri,
		Perm:   perm,
		Plugin: plugin,
		Ops:    res.Ops,
		Raddr:  res.Raddr,
		Paddr:  paddr,
		Size:   res.Size,
	}
	r.place(h, f)
	return h
}

// Get returns the descriptor for handle, or HandleNotFoundError.
func (r *Registry) Get(handle int) (*File, error) {
	if handle < 0 || handle >= len(r.files) || r.files[handle] == nil {
		return nil, &ioplug.HandleNotFoundError{Handle: handle}
	}
	return r.files[handle], nil
}

// Close closes and unregisters handle, releasing it for reuse.
func (r *Registry) Close(handle int) error {
	f, err := r.Get(handle)
	if err != nil {
		return err
	}
	if err := f.Ops.Close(); err != nil {
		return err
	}
	r.pToH.DeleteAt(f.Paddr)
	r.files[handle] = nil
	heap.Push(&r.free, handle)
	return nil
}

// Files returns every currently open descriptor, ordered by handle.
func (r *Registry) Files() []*File {
	out := make([]*File, 0, len(r.files))
	for _, f := range r.files {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// PaddrToHandle returns the handle of the file covering paddr, if any.
func (r *Registry) PaddrToHandle(paddr uint64) (int, bool) {
	matches := r.pToH.At(paddr)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].(int), true
}

// PaddrRangeToHandles returns every handle whose physical range overlaps
// [lo, hi], in tree order.
func (r *Registry) PaddrRangeToHandles(lo, hi uint64) []int {
	matches := r.pToH.Overlap(lo, hi)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.(int)
	}
	return out
}

// PaddrRun is one contiguous run reported by PaddrSparseRangeToHandles:
// either backed by the file with the given Handle (OK == true) or a gap.
type PaddrRun struct {
	Lo, Hi uint64
	Handle int
	OK     bool
}

// PaddrSparseRangeToHandles walks [lo, hi] and reports the handle (or none)
// backing each contiguous run, in ascending address order. It is the
// physical-address counterpart of a sparse virtual read: gaps between
// files are reported with OK == false so a caller can zero-fill them.
func (r *Registry) PaddrSparseRangeToHandles(lo, hi uint64) []PaddrRun {
	var runs []PaddrRun
	addr := lo
	for addr <= hi {
		matches := r.pToH.At(addr)
		if len(matches) == 0 {
			end := addr
			for end < hi {
				if len(r.pToH.At(end+1)) > 0 {
					break
				}
				end++
			}
			runs = append(runs, PaddrRun{Lo: addr, Hi: end, OK: false})
			addr = end + 1
			continue
		}
		h := matches[0].(int)
		f := r.files[h]
		end := f.Hi()
		if end > hi {
			end = hi
		}
		runs = append(runs, PaddrRun{Lo: addr, Hi: end, Handle: h, OK: true})
		addr = end + 1
	}
	return runs
}

// IsFullyCovered reports whether every address in [lo, hi] is backed by a
// live descriptor, with no gaps.
func (r *Registry) IsFullyCovered(lo, hi uint64) bool {
	for _, run := range r.PaddrSparseRangeToHandles(lo, hi) {
		if !run.OK {
			return false
		}
	}
	return true
}
