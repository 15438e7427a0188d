package domain

import "fmt"

// SortField enumerates the columns a trip listing may be ordered by.
// Values match the public query-parameter vocabulary, not column names.
type SortField string

const (
	SortByLastUpdated SortField = "lastUpdated"
	SortByTitle       SortField = "title"
	SortByCreatedAt   SortField = "createdAt"
)

// SortDirection is the listing order direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Listing defaults and bounds. Limit is a hard cap, not a clamp: callers
// asking for more than MaxListLimit get a validation error, not a silent
// truncation.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListParams carries a validated trip listing request from the HTTP layer
// to the repo layer. Build it with NewListParams; a hand-built value
// bypasses validation.
type ListParams struct {
	// Requester scopes the listing: an authenticated requester sees only
	// records they own, an anonymous requester sees only public records.
	Requester Identity

	// Search, when non-empty, filters records by case-insensitive
	// substring match over title, location, and the plan's query string.
	Search string

	SortBy  SortField
	SortDir SortDirection
	Limit   int
	Offset  int
}

// NewListParams validates raw listing parameters. Nil pointers fall back
// to defaults (limit=20, offset=0, sortBy=lastUpdated, sortOrder=desc).
// Out-of-range limit or offset and unknown sort fields are rejected with
// ErrValidation rather than silently corrected.
func NewListParams(limit, offset *int, sortBy, sortOrder, search *string) (ListParams, error) {
	p := ListParams{
		SortBy:  SortByLastUpdated,
		SortDir: SortDesc,
		Limit:   DefaultListLimit,
	}

	if limit != nil {
		if *limit < 1 || *limit > MaxListLimit {
			return ListParams{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxListLimit)
		}
		p.Limit = *limit
	}
	if offset != nil {
		if *offset < 0 {
			return ListParams{}, fmt.Errorf("%w: offset must not be negative", ErrValidation)
		}
		p.Offset = *offset
	}
	if sortBy != nil {
		switch SortField(*sortBy) {
		case SortByLastUpdated, SortByTitle, SortByCreatedAt:
			p.SortBy = SortField(*sortBy)
		default:
			return ListParams{}, fmt.Errorf("%w: unknown sort field %q", ErrValidation, *sortBy)
		}
	}
	if sortOrder != nil {
		switch SortDirection(*sortOrder) {
		case SortAsc, SortDesc:
			p.SortDir = SortDirection(*sortOrder)
		default:
			return ListParams{}, fmt.Errorf("%w: sort order must be asc or desc", ErrValidation)
		}
	}
	if search != nil {
		p.Search = *search
	}

	return p, nil
}

// Page describes one page of a listing result. Total counts all records
// matching the filter, not just the returned page.
type Page struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// HasMore reports whether records exist beyond this page.
func (p Page) HasMore() bool {
	return p.Offset+p.Limit < p.Total
}

// NextOffset returns the offset of the next page, or false when this is
// the last page.
func (p Page) NextOffset() (int, bool) {
	if !p.HasMore() {
		return 0, false
	}
	return p.Offset + p.Limit, true
}
