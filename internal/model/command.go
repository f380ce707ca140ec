package model

// FilterChange updates the grid filters. Nil fields keep their current value.
type FilterChange struct {
	Category   *string    `json:"category,omitempty" validate:"omitempty,max=100"`
	SearchText *string    `json:"search,omitempty" validate:"omitempty,max=200"`
	SortOrder  *SortOrder `json:"sort,omitempty" validate:"omitempty,oneof=default asc desc"`
}

// Page navigation actions.
const (
	PageActionPrev = "prev"
	PageActionNext = "next"
)

// PageChange moves the grid to an explicit page or one step back or forward.
// Page takes precedence when both are set.
type PageChange struct {
	Page   int    `json:"page,omitempty" validate:"omitempty,gte=1"`
	Action string `json:"action,omitempty" validate:"omitempty,oneof=prev next"`
}

// Empty reports whether the change names neither a page nor an action.
func (c PageChange) Empty() bool {
	return c.Page == 0 && c.Action == ""
}

// CartActionKind names a cart command.
type CartActionKind string

const (
	CartAdd       CartActionKind = "add"
	CartIncrement CartActionKind = "increment"
	CartDecrement CartActionKind = "decrement"
	CartRemove    CartActionKind = "remove"
	CartClear     CartActionKind = "clear"
)

// CartAction is a cart command issued from the page.
type CartAction struct {
	Kind      CartActionKind `json:"kind"`
	ProductID int64          `json:"productId"`
	Quantity  int            `json:"quantity"`
}

// AddToCartRequest is the payload of an add-to-cart request.
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gte=1,lte=999"`
}
