// Package vmap implements the map engine: the virtual-address overlay atop
// the file registry's physical address space. A Map binds a virtual range
// to a physical range of equal size; the engine indexes live maps by both
// addresses so that v->p translation and p->v reverse lookups are both
// O(log n).
package vmap

import (
	"github.com/rair-go/rair/intervaltree"
	"github.com/rair-go/rair/ioplug"
)

// Map is one binding from a virtual range to a physical range of the same
// size. The v-tree and p-tree hold pointers to the SAME Map record, so a
// lookup via either address space observes the same object.
type Map struct {
	Vaddr, Paddr uint64
	Size         uint64
}

// Hi returns the last virtual address covered by m.
func (m *Map) Hi() uint64 {
	if m.Size == 0 {
		return m.Vaddr
	}
	return m.Vaddr + m.Size - 1
}

// PHi returns the last physical address covered by m.
func (m *Map) PHi() uint64 {
	if m.Size == 0 {
		return m.Paddr
	}
	return m.Paddr + m.Size - 1
}

// Engine is the live set of virtual mappings. The zero value is an empty,
// usable engine.
type Engine struct {
	vTree intervaltree.Tree
	pTree intervaltree.Tree
}

// Map binds size bytes starting at vaddr to size bytes starting at paddr,
// failing if the virtual range is already (partially) mapped.
func (e *Engine) Map(vaddr, paddr, size uint64) (*Map, error) {
	if size == 0 {
		return nil, ioplug.NewCustomError("cannot map a zero-length range")
	}
	vhi := vaddr + size - 1
	if len(e.vTree.Overlap(vaddr, vhi)) > 0 {
		return &Map{}, &ioplug.AddressesOverlapError{Lo: vaddr, Hi: vhi}
	}
	m := &Map{Vaddr: vaddr, Paddr: paddr, Size: size}
	e.vTree.Insert(vaddr, vhi, m)
	e.pTree.Insert(paddr, paddr+size-1, m)
	return m, nil
}

// Unmap removes every mapping overlapping [vaddr, vaddr+size-1]. A map that
// only partially overlaps the unmapped range is split: the portion outside
// the unmapped range is reinserted as a new, smaller map, with its
// physical range trimmed by the same offset as its virtual range.
func (e *Engine) Unmap(vaddr, size uint64) []*Map {
	if size == 0 {
		return nil
	}
	hi := vaddr + size - 1
	overlapping := e.vTree.Overlap(vaddr, hi)
	removed := make([]*Map, 0, len(overlapping))
	for _, p := range overlapping {
		m := p.(*Map)
		removed = append(removed, m)
		e.removeFromTrees(m)

		if m.Vaddr < vaddr {
			left := &Map{Vaddr: m.Vaddr, Paddr: m.Paddr, Size: vaddr - m.Vaddr}
			e.vTree.Insert(left.Vaddr, left.Hi(), left)
			e.pTree.Insert(left.Paddr, left.PHi(), left)
		}
		if m.Hi() > hi {
			trimmed := hi + 1 - m.Vaddr
			right := &Map{Vaddr: hi + 1, Paddr: m.Paddr + trimmed, Size: m.Hi() - hi}
			e.vTree.Insert(right.Vaddr, right.Hi(), right)
			e.pTree.Insert(right.Paddr, right.PHi(), right)
		}
	}
	return removed
}

// removeFromTrees deletes m from both trees. Live maps never overlap in
// virtual space (Map enforces this on insert), so the v-interval at m.Vaddr
// belongs to m alone. Several maps may share physical addresses, so any
// other map removed from the p-tree alongside m is inserted again.
func (e *Engine) removeFromTrees(m *Map) {
	e.vTree.DeleteAt(m.Vaddr)
	for _, p := range e.pTree.DeleteAt(m.Paddr) {
		if other := p.(*Map); other != m {
			e.pTree.Insert(other.Paddr, other.PHi(), other)
		}
	}
}

// VToP translates a single virtual address to its physical address, if
// mapped.
func (e *Engine) VToP(vaddr uint64) (uint64, bool) {
	matches := e.vTree.At(vaddr)
	if len(matches) == 0 {
		return 0, false
	}
	m := matches[0].(*Map)
	return m.Paddr + (vaddr - m.Vaddr), true
}

// IsVir reports whether vaddr falls within a live virtual mapping.
func (e *Engine) IsVir(vaddr uint64) bool {
	return len(e.vTree.At(vaddr)) > 0
}

// IsPhy reports whether paddr is the target of a live virtual mapping.
func (e *Engine) IsPhy(paddr uint64) bool {
	return len(e.pTree.At(paddr)) > 0
}

// Maps returns every live mapping in virtual-address order.
func (e *Engine) Maps() []*Map {
	var out []*Map
	e.vTree.Do(func(_ intervaltree.Interval, payloads []interface{}) bool {
		for _, p := range payloads {
			out = append(out, p.(*Map))
		}
		return true
	})
	return out
}

// Segment is one contiguous run of a virtual-address scan: either backed by
// a live Map, or a gap.
type Segment struct {
	Lo, Hi uint64
	Map    *Map
}

// SplitVaddrRange walks [lo, hi] and reports the map (or lack of one)
// backing each contiguous run, in ascending address order. This is how a
// sparse virtual read finds which physical ranges (and which gaps) a
// request spans.
func (e *Engine) SplitVaddrRange(lo, hi uint64) []Segment {
	var segs []Segment
	addr := lo
	for addr <= hi {
		matches := e.vTree.At(addr)
		if len(matches) == 0 {
			end := addr
			for end < hi && len(e.vTree.At(end+1)) == 0 {
				end++
			}
			segs = append(segs, Segment{Lo: addr, Hi: end})
			addr = end + 1
			continue
		}
		m := matches[0].(*Map)
		end := m.Hi()
		if end > hi {
			end = hi
		}
		segs = append(segs, Segment{Lo: addr, Hi: end, Map: m})
		addr = end + 1
	}
	return segs
}
