package pagination

// DefaultPageSize is the number of products per grid page.
const DefaultPageSize = 6

// Page is one slice of a longer list.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// Paginate returns page pageNumber (1-based) of items. Out-of-range pages
// yield no items; callers clamp with Clamp when they need a valid page.
func Paginate[T any](items []T, pageSize, pageNumber int) Page[T] {
	if pageSize <= 0 {
		return Page[T]{Items: []T{}}
	}

	total := (len(items) + pageSize - 1) / pageSize
	page := Page[T]{Items: []T{}, TotalPages: total}

	if pageNumber < 1 || pageNumber > total {
		return page
	}

	start := (pageNumber - 1) * pageSize
	end := min(start+pageSize, len(items))
	page.Items = items[start:end:end]

	return page
}

// Clamp moves page into [1, totalPages]. With no pages it returns 1.
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Controls is the state of the pager under the grid.
type Controls struct {
	Visible      bool
	Current      int
	TotalPages   int
	Pages        []int
	PrevDisabled bool
	NextDisabled bool
}

// NewControls computes the pager for the current page. The pager is hidden
// when there is at most one page.
func NewControls(current, totalPages int) Controls {
	c := Controls{
		Current:    current,
		TotalPages: totalPages,
	}
	if totalPages <= 1 {
		return c
	}

	c.Visible = true
	c.Pages = make([]int, totalPages)
	for i := range c.Pages {
		c.Pages[i] = i + 1
	}
	c.PrevDisabled = current <= 1
	c.NextDisabled = current >= totalPages

	return c
}
