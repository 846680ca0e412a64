// Package sparse implements the shared sparse byte image used by the
// encoded-file plugins (ihex, srec, b64): a key->byte map whose domain is
// the union of decoded bytes. Addresses absent from the image read as
// zero.
package sparse

import "sort"

// Image is a sparse byte map keyed by absolute decoded address.
type Image struct {
	bytes map[uint64]byte
	// sortedKeys is a cache of bytes' keys in ascending order, invalidated
	// (set to nil) on every Set of a previously-absent key.
	sortedKeys []uint64
}

// NewImage returns an empty image.
func NewImage() *Image {
	return &Image{bytes: make(map[uint64]byte)}
}

// Set records the byte at addr, marking it present.
func (im *Image) Set(addr uint64, b byte) {
	if _, ok := im.bytes[addr]; !ok {
		im.sortedKeys = nil
	}
	im.bytes[addr] = b
}

// Get returns the byte at addr and whether it is present.
func (im *Image) Get(addr uint64) (byte, bool) {
	b, ok := im.bytes[addr]
	return b, ok
}

// Len returns the number of present addresses.
func (im *Image) Len() int {
	return len(im.bytes)
}

// MinMax returns the lowest and highest present addresses, which bound the
// decoded image's domain. ok is false for an empty image.
func (im *Image) MinMax() (lo, hi uint64, ok bool) {
	keys := im.keys()
	if len(keys) == 0 {
		return 0, 0, false
	}
	return keys[0], keys[len(keys)-1], true
}

func (im *Image) keys() []uint64 {
	if im.sortedKeys == nil {
		im.sortedKeys = make([]uint64, 0, len(im.bytes))
		for k := range im.bytes {
			im.sortedKeys = append(im.sortedKeys, k)
		}
		sort.Slice(im.sortedKeys, func(i, j int) bool { return im.sortedKeys[i] < im.sortedKeys[j] })
	}
	return im.sortedKeys
}

// ReadAt reads len(buf) bytes starting at addr, zero-filling any absent
// address.
func (im *Image) ReadAt(addr uint64, buf []byte) {
	for i := range buf {
		b, ok := im.bytes[addr+uint64(i)]
		if ok {
			buf[i] = b
		} else {
			buf[i] = 0
		}
	}
}

// WriteAt records buf starting at addr, marking every touched address
// present.
func (im *Image) WriteAt(addr uint64, buf []byte) {
	for i, b := range buf {
		im.Set(addr+uint64(i), b)
	}
}

// Do calls fn for every present address in ascending order, stopping early
// if fn returns false.
func (im *Image) Do(fn func(addr uint64, b byte) bool) {
	for _, k := range im.keys() {
		if !fn(k, im.bytes[k]) {
			return
		}
	}
}
