package listing

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// PageSize is the fixed number of products per listing page
	PageSize = 20
	// PageWindow is how many pages are linked on each side of the current one
	PageWindow = 3
)

// ParsePage normalizes a client supplied page number. Missing, non-numeric
// and non-positive values all become 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// TotalPages returns how many pages total items span
func TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + PageSize - 1) / PageSize)
}

// PageLink is one entry of the pagination bar. Gap entries stand for a run
// of omitted pages.
type PageLink struct {
	Page    int
	Current bool
	Gap     bool
}

// PageLinks returns the links for current out of total pages: the first and
// last page, PageWindow pages either side of current, and a gap wherever
// pages are skipped. It returns nil when there is at most one page.
func PageLinks(current, total int) []PageLink {
	if total <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	pages := map[int]struct{}{1: {}, total: {}}
	for p := current - PageWindow; p <= current+PageWindow; p++ {
		if p >= 1 && p <= total {
			pages[p] = struct{}{}
		}
	}
	ordered := make([]int, 0, len(pages))
	for p := range pages {
		ordered = append(ordered, p)
	}
	sort.Ints(ordered)

	links := make([]PageLink, 0, len(ordered)+2)
	prev := 0
	for _, p := range ordered {
		if prev != 0 && p > prev+1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, PageLink{Page: p, Current: p == current})
		prev = p
	}
	return links
}
