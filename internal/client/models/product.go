package models

// Product is a catalog entry from GET /products/names.
type Product struct {
	ID        string
	Name      string
	Price     float64
	SalePrice float64
}

// UnitPrice returns the price a sale line is charged at: the discounted
// sale price when one is set, the list price otherwise.
func (p Product) UnitPrice() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}
