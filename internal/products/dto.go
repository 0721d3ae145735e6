package products

import "github.com/shopspring/decimal"

// Product is the product service representation. Field names follow the
// service contract.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"titulo"`
	Description string          `json:"descricao"`
	Photos      []string        `json:"fotos"`
	Price       decimal.Decimal `json:"preco"`
	Quantity    int             `json:"quantidade"`
}

// QuoteLine prices one product of a cart.
type QuoteLine struct {
	Product  Product
	Quantity int
	Subtotal decimal.Decimal
}

// Quote is the priced quantity view of a cart.
type Quote struct {
	Lines []QuoteLine
	Total decimal.Decimal
}
