package client

import "strconv"

// Ellipsis marks a gap in a pagination control range.
const Ellipsis = "..."

// PageRange builds the display sequence for a pagination control: the
// first and last page are always shown, plus a one-page window around the
// current page, with gaps collapsed to an ellipsis. For 10 pages with page
// 5 current: 1 ... 4 5 6 ... 10.
func PageRange(current, totalPages int) []string {
	if totalPages <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	var out []string
	prev := 0
	for p := 1; p <= totalPages; p++ {
		if p != 1 && p != totalPages && (p < current-1 || p > current+1) {
			continue
		}
		if prev != 0 && p-prev > 1 {
			out = append(out, Ellipsis)
		}
		out = append(out, strconv.Itoa(p))
		prev = p
	}
	return out
}
