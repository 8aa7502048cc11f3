// Package pagination slices ordered result sets into fixed-size pages.
package pagination

// DefaultLimit is used when a caller passes a non-positive limit.
const DefaultLimit = 10

// Page is the wire shape of a paginated list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Normalize clamps page to at least 1 and replaces a non-positive limit with fallback
// (or DefaultLimit when fallback is not positive either).
func Normalize(page, limit, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = fallback
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return page, limit
}

// TotalPages returns ceil(total/limit), 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total-1)/limit + 1
}

// Paginate returns the [(page-1)*limit, page*limit) window of items clamped to the
// available range. An out-of-range page yields empty Items with Total and TotalPages intact.
// Items is never nil so it always encodes as a JSON array.
func Paginate[T any](items []T, page, limit int) Page[T] {
	page, limit = Normalize(page, limit, DefaultLimit)
	total := len(items)

	out := Page[T]{
		Items:      []T{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}

	if page > out.TotalPages {
		return out
	}
	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}
	out.Items = append(out.Items, items[start:end]...)
	return out
}
