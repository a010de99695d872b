package view

import (
	"fmt"

	"fintrack/internal/core"
)

// PageSizes are the selectable page sizes, smallest first.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is used until the user picks a size.
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of the selectable sizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// TotalPages returns the page count for n items at the given size,
// never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage pins page into [1, TotalPages(n, size)].
func ClampPage(page, n, size int) int {
	total := TotalPages(n, size)
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Paginate returns the window of seq for the given 1-based page. The
// page is clamped, never rejected.
func Paginate(seq []core.Transaction, page, size int) []core.Transaction {
	if size <= 0 {
		return seq
	}
	page = ClampPage(page, len(seq), size)
	start := (page - 1) * size
	if start >= len(seq) {
		return nil
	}
	end := start + size
	if end > len(seq) {
		end = len(seq)
	}
	return seq[start:end]
}

// PageInfo renders the "Page X of Y" label.
func PageInfo(page, totalPages int) string {
	return fmt.Sprintf("Page %d of %d", page, totalPages)
}

// ShowingRange renders the "start-end of total" label. With no items
// both bounds are zero.
func ShowingRange(page, size, total int) string {
	if total == 0 {
		return fmt.Sprintf("0-0 of %d", total)
	}
	start := (page-1)*size + 1
	end := page * size
	if end > total {
		end = total
	}
	return fmt.Sprintf("%d-%d of %d", start, end, total)
}
