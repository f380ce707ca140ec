package catalog

import (
	"sync"

	"storefront/internal/model"
)

// Catalog holds the most recently loaded product list.
// A reload replaces the list wholesale.
type Catalog struct {
	mu       sync.RWMutex
	products []model.Product
	byID     map[int64]int
	loaded   bool
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{byID: make(map[int64]int)}
}

// Replace swaps in a freshly fetched product list.
func (c *Catalog) Replace(products []model.Product) {
	next := make([]model.Product, len(products))
	copy(next, products)

	index := make(map[int64]int, len(next))
	for i, p := range next {
		if _, dup := index[p.ID]; !dup {
			index[p.ID] = i
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = next
	c.byID = index
	c.loaded = true
}

// Products returns a copy of the full product list in backend order.
func (c *Catalog) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Find looks up a product by id.
func (c *Catalog) Find(id int64) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// Loaded reports whether at least one load has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
