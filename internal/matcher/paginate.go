package matcher

import "internHubAPI/internal/types/internship"

// Page is one window of ranked results.
type Page struct {
	Results []internship.MatchResult
	Total   int
	HasMore bool
}

// Paginate returns the window [(page-1)*limit, (page-1)*limit+limit) of
// results. A page past the end, or a non-positive page or limit, yields an
// empty window. Offsets are never multiplied out past len(results), so huge
// page numbers cannot overflow.
func Paginate(results []internship.MatchResult, page, limit int) Page {
	total := len(results)
	p := Page{Results: make([]internship.MatchResult, 0), Total: total}
	if page < 1 || limit < 1 || total == 0 {
		return p
	}

	skipped := page - 1
	if skipped > (total-1)/limit {
		return p
	}

	offset := skipped * limit
	remaining := total - offset
	if remaining > limit {
		p.Results = results[offset : offset+limit]
		p.HasMore = true
	} else {
		p.Results = results[offset:]
	}
	return p
}
