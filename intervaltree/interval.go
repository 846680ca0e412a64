// Package intervaltree implements a self-balancing augmented interval tree
// keyed on closed integer intervals, where each distinct interval carries an
// ordered sequence of opaque payloads rather than a single value.
//
// The balancing scheme is an AVL tree (rotations adapted from the recursive
// insertion style used elsewhere in this tree of packages for the log
// compaction structure), augmented at every node with the subtree's minimum
// lo, maximum hi, and payload count so that At/Envelop/InverseEnvelop/Overlap
// queries and their Delete* counterparts can prune whole subtrees instead of
// visiting every node.
package intervaltree

import "fmt"

// Interval is a closed range [Lo, Hi]. Lo must be <= Hi.
type Interval struct {
	Lo, Hi uint64
}

// Less orders intervals first by Lo, then by Hi.
func (a Interval) Less(b Interval) bool {
	if a.Lo != b.Lo {
		return a.Lo < b.Lo
	}
	return a.Hi < b.Hi
}

func (a Interval) equal(b Interval) bool {
	return a.Lo == b.Lo && a.Hi == b.Hi
}

// Overlaps reports whether a and b share at least one point.
func (a Interval) Overlaps(b Interval) bool {
	return max64(a.Lo, b.Lo) <= min64(a.Hi, b.Hi)
}

// Envelops reports whether a fully contains b.
func (a Interval) Envelops(b Interval) bool {
	return a.Lo <= b.Lo && b.Hi <= a.Hi
}

func (a Interval) String() string {
	return fmt.Sprintf("[%d,%d]", a.Lo, a.Hi)
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

type node struct {
	key      Interval
	payloads []interface{}

	left, right *node
	height      int

	// Augmentation, recomputed bottom-up on every structural edit.
	minLo, maxHi uint64
	size         int // total payload count in this subtree
}

func (n *node) getHeight() int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node) getMinLo() uint64 {
	if n == nil {
		return ^uint64(0)
	}
	return n.minLo
}

func (n *node) getMaxHi() uint64 {
	if n == nil {
		return 0
	}
	return n.maxHi
}

func (n *node) getSize() int {
	if n == nil {
		return 0
	}
	return n.size
}

// refresh recomputes n's augmentation from its children and own key/payload
// count. Must be called bottom-up after any structural change to n.
func (n *node) refresh() {
	n.height = 1 + maxInt(n.left.getHeight(), n.right.getHeight())
	n.minLo = min64(n.key.Lo, min64(n.left.getMinLo(), n.right.getMinLo()))
	n.maxHi = max64(n.key.Hi, max64(n.left.getMaxHi(), n.right.getMaxHi()))
	n.size = len(n.payloads) + n.left.getSize() + n.right.getSize()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func balanceFactor(n *node) int {
	if n == nil {
		return 0
	}
	return n.left.getHeight() - n.right.getHeight()
}

func rightRotate(root *node) *node {
	son := root.left
	gson := son.right

	son.right = root
	root.left = gson

	root.refresh()
	son.refresh()
	return son
}

func leftRotate(root *node) *node {
	son := root.right
	gson := son.left

	son.left = root
	root.right = gson

	root.refresh()
	son.refresh()
	return son
}

// rebalance assumes root's children are already balanced and root's own
// height/augmentation have NOT yet been refreshed for this level.
func rebalance(root *node) *node {
	root.refresh()
	bf := balanceFactor(root)

	if bf > 1 {
		if balanceFactor(root.left) < 0 {
			root.left = leftRotate(root.left)
		}
		return rightRotate(root)
	}
	if bf < -1 {
		if balanceFactor(root.right) > 0 {
			root.right = rightRotate(root.right)
		}
		return leftRotate(root)
	}
	return root
}

// Tree is an augmented interval tree. The zero value is an empty, usable
// tree.
type Tree struct {
	root *node
}

// Len returns the total number of payloads stored across every interval.
func (t *Tree) Len() int {
	return t.root.getSize()
}

// Insert adds value under [lo,hi], appending to that interval's payload list
// if the interval is already present. Panics if lo > hi.
func (t *Tree) Insert(lo, hi uint64, value interface{}) {
	if lo > hi {
		panic(fmt.Sprintf("intervaltree: invalid interval [%d,%d]", lo, hi))
	}
	t.root = t.insert(t.root, Interval{lo, hi}, value)
}

func (t *Tree) insert(root *node, key Interval, value interface{}) *node {
	if root == nil {
		n := &node{key: key, payloads: []interface{}{value}}
		n.refresh()
		return n
	}
	switch {
	case key.Less(root.key):
		root.left = t.insert(root.left, key, value)
	case root.key.Less(key):
		root.right = t.insert(root.right, key, value)
	default:
		root.payloads = append(root.payloads, value)
		root.refresh()
		return root
	}
	return rebalance(root)
}

// descendPredicate decides whether a query must descend into a given child
// subtree, based on that child's augmentation and the query bounds.
type descendPredicate func(child *node, lo, hi uint64) bool
type acceptPredicate func(key Interval, lo, hi uint64) bool

func (t *Tree) collect(n *node, lo, hi uint64, descend descendPredicate, accept acceptPredicate, visit func(*node)) {
	if n == nil {
		return
	}
	if descend(n.left, lo, hi) {
		t.collect(n.left, lo, hi, descend, accept, visit)
	}
	if accept(n.key, lo, hi) {
		visit(n)
	}
	if descend(n.right, lo, hi) {
		t.collect(n.right, lo, hi, descend, accept, visit)
	}
}

func overlapDescend(child *node, lo, hi uint64) bool {
	if child == nil {
		return false
	}
	return child.maxHi >= lo && child.minLo <= hi
}

func overlapAccept(key Interval, lo, hi uint64) bool {
	return key.Overlaps(Interval{lo, hi})
}

func envelopDescend(child *node, lo, hi uint64) bool {
	if child == nil {
		return false
	}
	return child.minLo <= lo && child.maxHi >= hi
}

func envelopAccept(key Interval, lo, hi uint64) bool {
	return key.Lo <= lo && hi <= key.Hi
}

func inverseEnvelopAccept(key Interval, lo, hi uint64) bool {
	return lo <= key.Lo && key.Hi <= hi
}

func appendPayloads(n *node, out *[]interface{}) {
	*out = append(*out, n.payloads...)
}

// At returns the payloads of every interval containing point, in
// total-interval order.
func (t *Tree) At(point uint64) []interface{} {
	return t.Overlap(point, point)
}

// Overlap returns the payloads of every interval overlapping [lo,hi].
func (t *Tree) Overlap(lo, hi uint64) []interface{} {
	var out []interface{}
	t.collect(t.root, lo, hi, overlapDescend, overlapAccept, func(n *node) { appendPayloads(n, &out) })
	return out
}

// Envelop returns the payloads of every interval that envelops [lo,hi].
func (t *Tree) Envelop(lo, hi uint64) []interface{} {
	var out []interface{}
	t.collect(t.root, lo, hi, envelopDescend, envelopAccept, func(n *node) { appendPayloads(n, &out) })
	return out
}

// InverseEnvelop returns the payloads of every interval enveloped BY
// [lo,hi].
func (t *Tree) InverseEnvelop(lo, hi uint64) []interface{} {
	var out []interface{}
	t.collect(t.root, lo, hi, overlapDescend, inverseEnvelopAccept, func(n *node) { appendPayloads(n, &out) })
	return out
}

// Do performs an in-order traversal, invoking fn with each distinct
// interval's key and payload list (in insertion order). Traversal stops
// early if fn returns false.
func (t *Tree) Do(fn func(key Interval, payloads []interface{}) bool) {
	t.doNode(t.root, fn)
}

func (t *Tree) doNode(n *node, fn func(key Interval, payloads []interface{}) bool) bool {
	if n == nil {
		return true
	}
	if !t.doNode(n.left, fn) {
		return false
	}
	if !fn(n.key, n.payloads) {
		return false
	}
	return t.doNode(n.right, fn)
}

// matchingKeys collects the distinct interval keys accepted by the given
// predicate pair, in total-interval order.
func (t *Tree) matchingKeys(lo, hi uint64, descend descendPredicate, accept acceptPredicate) []Interval {
	var keys []Interval
	t.collect(t.root, lo, hi, descend, accept, func(n *node) { keys = append(keys, n.key) })
	return keys
}

func (t *Tree) deleteKeys(keys []Interval) []interface{} {
	var out []interface{}
	for _, k := range keys {
		var removed []interface{}
		t.root = t.deleteKey(t.root, k, &removed)
		out = append(out, removed...)
	}
	return out
}

// DeleteAt removes every interval containing point, returning their
// payloads in total-interval order.
func (t *Tree) DeleteAt(point uint64) []interface{} {
	return t.DeleteOverlap(point, point)
}

// DeleteOverlap removes every interval overlapping [lo,hi].
func (t *Tree) DeleteOverlap(lo, hi uint64) []interface{} {
	keys := t.matchingKeys(lo, hi, overlapDescend, overlapAccept)
	return t.deleteKeys(keys)
}

// DeleteEnvelop removes every interval that envelops [lo,hi].
func (t *Tree) DeleteEnvelop(lo, hi uint64) []interface{} {
	keys := t.matchingKeys(lo, hi, envelopDescend, envelopAccept)
	return t.deleteKeys(keys)
}

func (t *Tree) deleteKey(root *node, key Interval, removed *[]interface{}) *node {
	if root == nil {
		return nil
	}
	switch {
	case key.Less(root.key):
		root.left = t.deleteKey(root.left, key, removed)
	case root.key.Less(key):
		root.right = t.deleteKey(root.right, key, removed)
	default:
		*removed = append(*removed, root.payloads...)
		if root.left == nil || root.right == nil {
			if root.left != nil {
				return root.left
			}
			return root.right
		}
		succ := minNode(root.right)
		root.key = succ.key
		root.payloads = succ.payloads
		var discard []interface{}
		root.right = t.deleteKey(root.right, succ.key, &discard)
	}
	return rebalance(root)
}

func minNode(n *node) *node {
	for n.left != nil {
		n = n.left
	}
	return n
}
