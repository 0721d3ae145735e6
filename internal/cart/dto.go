package cart

import "github.com/angelmondragon/storefront-client/pkg/enums"

// AddRequest is the body of POST /cart.
type AddRequest struct {
	ID     *int64           `json:"id,omitempty"`
	Items  []int64          `json:"cart_items"`
	UserID int64            `json:"user_id"`
	Status enums.CartStatus `json:"status,omitempty"`
}

// ReplaceItemsRequest is the body of PUT /cart/{id}/items.
type ReplaceItemsRequest struct {
	Items []int64 `json:"cart_items"`
}

// Response is the cart service representation of a cart.
type Response struct {
	ID    *int64  `json:"id"`
	Items []int64 `json:"cart_items"`
}

// ToState converts a service response, treating a missing item list as empty.
func (r Response) ToState() State {
	items := make([]int64, len(r.Items))
	copy(items, r.Items)
	out := State{Items: items}
	if r.ID != nil {
		id := *r.ID
		out.ID = &id
	}
	return out
}
