package catalog

import (
	"slices"
	"strings"

	"storefront/internal/model"
)

// AvailableOnly drops products explicitly marked unavailable.
func AvailableOnly(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.IsAvailable() {
			out = append(out, p)
		}
	}
	return out
}

// ApplyFilters keeps available products that match both the category and
// the search text. Search is a case-insensitive substring test on name,
// description or category.
func ApplyFilters(products []model.Product, filter model.FilterState) []model.Product {
	search := strings.ToLower(filter.SearchText)

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.IsAvailable() && matchesCategory(p, filter.Category) && matchesSearch(p, search) {
			out = append(out, p)
		}
	}
	return out
}

func matchesCategory(p model.Product, category string) bool {
	return category == "" || category == model.CategoryAll || p.Category == category
}

func matchesSearch(p model.Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}

// ApplySort returns a new slice ordered by price. Ties keep their input
// order. SortDefault and unknown orders return an unchanged copy.
func ApplySort(products []model.Product, order model.SortOrder) []model.Product {
	out := slices.Clone(products)
	if out == nil {
		out = []model.Product{}
	}

	switch order {
	case model.SortAscending:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case model.SortDescending:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return b.Price.Cmp(a.Price)
		})
	}

	return out
}

// Pipeline derives the ordered product list shown for filter, before
// pagination.
func Pipeline(products []model.Product, filter model.FilterState) []model.Product {
	return ApplySort(ApplyFilters(products, filter), filter.SortOrder)
}

// Categories lists the distinct categories of available products in the
// order they first appear.
func Categories(products []model.Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		if !p.IsAvailable() || p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
