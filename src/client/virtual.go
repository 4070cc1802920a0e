package client

// Virtualizer computes which slice of a long list is worth materializing:
// the items covering the viewport plus an overscan margin on both sides.
// Sizes are in the same unit (pixels, rows); items are fixed-size.
type Virtualizer struct {
	ItemSize int
	Viewport int
	Overscan int
}

// Window returns the [start, end) index range to render for the given
// scroll offset, clamped to [0, count).
func (v Virtualizer) Window(scrollOffset, count int) (start, end int) {
	if count <= 0 || v.ItemSize <= 0 {
		return 0, 0
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	start = scrollOffset/v.ItemSize - v.Overscan
	if start < 0 {
		start = 0
	}
	end = (scrollOffset+v.Viewport-1)/v.ItemSize + 1 + v.Overscan
	if end > count {
		end = count
	}
	if start > end {
		start = end
	}
	return start, end
}

// LoadTrigger decides when an infinite list should request its next page:
// when the last visible item comes within Threshold items of the end of
// what is loaded. It fires at most once per item count, so a crossing
// triggers exactly one fetch until more items arrive.
type LoadTrigger struct {
	Threshold int

	lastTriggered int
	armed         bool
}

// ShouldLoad reports whether a next-page fetch should start. Never true
// while a fetch is in flight, and never twice for the same total count.
func (t *LoadTrigger) ShouldLoad(lastVisible, count int, inFlight bool) bool {
	if inFlight || count <= 0 {
		return false
	}
	if t.armed && t.lastTriggered == count {
		return false
	}
	if lastVisible >= count-1-t.Threshold {
		t.lastTriggered = count
		t.armed = true
		return true
	}
	return false
}
