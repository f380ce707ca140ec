package model

// CategoryAll disables category filtering.
const CategoryAll = "all"

// SortOrder selects the price ordering of the product grid.
type SortOrder string

const (
	SortDefault    SortOrder = "default"
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Valid reports whether o is a known sort order.
func (o SortOrder) Valid() bool {
	switch o {
	case SortDefault, SortAscending, SortDescending:
		return true
	}
	return false
}

// FilterState is the transient view state of the product grid.
type FilterState struct {
	Category   string    `json:"category"`
	SearchText string    `json:"search"`
	SortOrder  SortOrder `json:"sort"`
	Page       int       `json:"page"`
}

// DefaultFilterState returns the initial unfiltered state on page 1.
func DefaultFilterState() FilterState {
	return FilterState{
		Category:  CategoryAll,
		SortOrder: SortDefault,
		Page:      1,
	}
}
