package cart

import "sort"

// State is the shopper's cart: an optional server id plus one product id per
// unit. ID is nil until the cart service has created the cart.
type State struct {
	ID    *int64  `json:"id"`
	Items []int64 `json:"items"`
}

// Empty is the cart of a shopper without a server cart.
func Empty() State {
	return State{Items: []int64{}}
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	out := State{Items: make([]int64, len(s.Items))}
	copy(out.Items, s.Items)
	if s.ID != nil {
		id := *s.ID
		out.ID = &id
	}
	return out
}

// Count is the number of units in the cart.
func (s State) Count() int {
	return len(s.Items)
}

// IsEmpty reports whether the cart holds no units.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Quantities groups items by product id. The values always sum to len(items).
func Quantities(items []int64) map[int64]int {
	out := make(map[int64]int, len(items))
	for _, id := range items {
		out[id]++
	}
	return out
}

// Line is one product of the quantity view.
type Line struct {
	ProductID int64
	Quantity  int
}

// Lines returns the quantity view ordered by first appearance in items.
func Lines(items []int64) []Line {
	counts := Quantities(items)
	first := make(map[int64]int, len(counts))
	for i, id := range items {
		if _, ok := first[id]; !ok {
			first[id] = i
		}
	}
	lines := make([]Line, 0, len(counts))
	for id, qty := range counts {
		lines = append(lines, Line{ProductID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool {
		return first[lines[i].ProductID] < first[lines[j].ProductID]
	})
	return lines
}
