package model

// View is the rendered state of the storefront page.
type View struct {
	Banner       string         `json:"banner"`
	Filter       FilterState    `json:"filter"`
	Categories   []string       `json:"categories"`
	Products     []ProductCard  `json:"products"`
	Pagination   PaginationView `json:"pagination"`
	Message      string         `json:"message,omitempty"`
	CatalogError bool           `json:"catalogError"`
	Cart         CartPanel      `json:"cart"`
	Notice       string         `json:"notice,omitempty"`
	Revision     uint64         `json:"revision"`
}

// ProductCard is a product as shown in the grid.
type ProductCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	PriceBase   string `json:"priceBase"`
	PriceLocal  string `json:"priceLocal"`
}

// PaginationView describes the page controls under the grid.
type PaginationView struct {
	Visible      bool  `json:"visible"`
	Current      int   `json:"current"`
	TotalPages   int   `json:"totalPages"`
	Pages        []int `json:"pages,omitempty"`
	PrevDisabled bool  `json:"prevDisabled"`
	NextDisabled bool  `json:"nextDisabled"`
}

// CartPanel is the rendered shopping cart.
type CartPanel struct {
	Lines           []CartLineView `json:"lines"`
	ItemCount       int            `json:"itemCount"`
	TotalBase       string         `json:"totalBase"`
	TotalLocal      string         `json:"totalLocal"`
	Empty           bool           `json:"empty"`
	CheckoutEnabled bool           `json:"checkoutEnabled"`
	ClearEnabled    bool           `json:"clearEnabled"`
}

// CartLineView is a single rendered cart line.
type CartLineView struct {
	ProductID     int64  `json:"productId"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unitPrice"`
	SubtotalBase  string `json:"subtotalBase"`
	SubtotalLocal string `json:"subtotalLocal"`
}

// Handoff carries the checkout redirect target.
type Handoff struct {
	Redirect string `json:"redirect"`
}
