package registry

// handleHeap is a min-heap of released handles, so that open() reuses the
// smallest available handle rather than growing the descriptor vector
// forever.
type handleHeap []int

func (h handleHeap) Len() int            { return len(h) }
func (h handleHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h handleHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *handleHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *handleHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
