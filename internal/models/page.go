package models

const (
	// DefaultPageLimit is used when the caller does not pass a limit
	DefaultPageLimit = 20
	// MaxPageLimit caps the number of items returned in one page
	MaxPageLimit = 100
)

// Page описывает окно выборки для списков
type Page struct {
	Limit  int
	Offset int
}

// NewPage clamps limit and offset into valid bounds.
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}
