// ABOUTME: In-place quickselect for order statistics
// ABOUTME: Three-way partitioning keeps runs of equal values linear

package summary

// Select returns the k-th smallest value (0-based) of values, reordering
// values in place. It panics if k is out of range, like an index expression.
func Select(values []float64, k int) float64 {
	if k < 0 || k >= len(values) {
		panic("summary: select rank out of range")
	}

	left, right := 0, len(values)-1
	for left < right {
		lt, gt := partition(values, left, right, left+(right-left)/2)
		switch {
		case k < lt:
			right = lt - 1
		case k > gt:
			left = gt + 1
		default:
			return values[k]
		}
	}
	return values[left]
}

// partition rearranges values[left:right+1] around the pivot so that
// values[lt:gt+1] all equal it, smaller values precede and larger follow.
func partition(values []float64, left, right, pivotIndex int) (int, int) {
	pivot := values[pivotIndex]
	lt, i, gt := left, left, right
	for i <= gt {
		switch {
		case values[i] < pivot:
			values[lt], values[i] = values[i], values[lt]
			lt++
			i++
		case values[i] > pivot:
			values[i], values[gt] = values[gt], values[i]
			gt--
		default:
			i++
		}
	}
	return lt, gt
}

// Median returns the element at rank len(values)/2 without modifying values.
// For even lengths this is the upper of the two middle elements.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	scratch := make([]float64, len(values))
	copy(scratch, values)
	return Select(scratch, len(scratch)/2), true
}
