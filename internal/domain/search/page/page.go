package page

import "math"

// Window is a normalized pagination request.
type Window struct {
	number int
	size   int
}

// Normalize clamps a requested page into a valid window.
// Page numbers below 1 become 1. A nil size takes defaultSize;
// sizes are then clamped to [1, maxSize].
func Normalize(number int, size *int, defaultSize, maxSize int) Window {
	if number < 1 {
		number = 1
	}
	s := defaultSize
	if size != nil {
		s = *size
	}
	if maxSize < 1 {
		maxSize = 1
	}
	s = max(1, min(s, maxSize))
	return Window{number: number, size: s}
}

// Number returns the 1-based page number.
func (w Window) Number() int { return w.number }

// Size returns the page size.
func (w Window) Size() int { return w.size }

// Skip returns how many matches precede this page.
// Saturates at math.MaxInt64 for page numbers too large to address.
func (w Window) Skip() int64 {
	n, s := int64(w.number-1), int64(w.size)
	if n > math.MaxInt64/s {
		return math.MaxInt64
	}
	return n * s
}

// Limit returns the page size as a fetch limit.
func (w Window) Limit() int64 { return int64(w.size) }

// Count returns ceil(total/size), floored at 1 so an empty result still has one page.
func Count(total int64, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(float64(total)/float64(size))))
}
