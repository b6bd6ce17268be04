package bvh

// Reorder items so that the item at index n is the one that would occupy
// that position if the list was sorted using less. Items ordered before it
// end up to its left and items ordered after it end up to its right.
func selectNth(items []BoundingBox, n int, less func(a, b *BoundingBox) bool) {
	lo, hi := 0, len(items)-1
	for lo < hi {
		lt, gt := partition3(items, lo, hi, less)
		switch {
		case n < lt:
			hi = lt - 1
		case n > gt:
			lo = gt + 1
		default:
			return
		}
	}
}

// Three-way partition of items[lo:hi+1] around its middle item. When it
// returns, items[lt:gt+1] compare equal to the pivot.
func partition3(items []BoundingBox, lo, hi int, less func(a, b *BoundingBox) bool) (lt, gt int) {
	pivot := items[lo+(hi-lo)/2]
	lt, gt = lo, hi
	for i := lo; i <= gt; {
		switch {
		case less(&items[i], &pivot):
			items[lt], items[i] = items[i], items[lt]
			lt++
			i++
		case less(&pivot, &items[i]):
			items[i], items[gt] = items[gt], items[i]
			gt--
		default:
			i++
		}
	}
	return lt, gt
}
