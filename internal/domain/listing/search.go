package listing

import (
	"math"
	"strings"
)

// Sort defines a supported result ordering.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"

	defaultPageLimit = 10
	maxPageLimit     = 100
)

// SearchParams describe catalog filters and paging. All filters are optional
// and combined with AND; the keyword matches name, address or description as a
// case-insensitive substring (single OR-group).
type SearchParams struct {
	Keyword       string
	PriceMinCents int64
	PriceMaxCents int64
	Status        Status
	Sort          Sort
	Page          int
	Limit         int
}

// Normalized returns a sanitized copy of params with paging clamped to the
// supported bounds.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.Keyword = strings.TrimSpace(strings.ToLower(normalized.Keyword))
	if normalized.PriceMinCents < 0 {
		normalized.PriceMinCents = 0
	}
	if normalized.PriceMaxCents < 0 {
		normalized.PriceMaxCents = 0
	}
	if normalized.PriceMaxCents > 0 && normalized.PriceMaxCents < normalized.PriceMinCents {
		normalized.PriceMaxCents = 0
	}
	if normalized.Page < 1 {
		normalized.Page = 1
	}
	if normalized.Limit < 1 {
		normalized.Limit = defaultPageLimit
	}
	if normalized.Limit > maxPageLimit {
		normalized.Limit = maxPageLimit
	}
	switch normalized.Sort {
	case SortNewest, SortPriceAsc, SortPriceDesc:
	default:
		normalized.Sort = SortNewest
	}
	return normalized
}

// Offset is the row offset implied by the normalized page and limit.
func (p SearchParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MatchesKeyword applies the normalized keyword clause to a listing.
func (p SearchParams) MatchesKeyword(l *Listing) bool {
	if p.Keyword == "" {
		return true
	}
	if l == nil {
		return false
	}
	return strings.Contains(strings.ToLower(l.Name), p.Keyword) ||
		strings.Contains(strings.ToLower(l.Address), p.Keyword) ||
		strings.Contains(strings.ToLower(l.Description), p.Keyword)
}

// SearchResult wraps one page of hits with the total count under the same
// predicate.
type SearchResult struct {
	Items []*Listing
	Total int64
}

// TotalPages computes the page count from the total and a normalized limit.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
