package domain

// BasketLine is one line of the server-persisted basket: a product, how many
// of it, and the line total. Price is quantity times the product's unit price,
// recomputed on our side before every mutation; the server persists it but
// does not derive it.
type BasketLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// LineTotal computes the total for the given quantity at the line's unit price.
func (l BasketLine) LineTotal(quantity int) float64 {
	return l.Product.Price * float64(quantity)
}

// Basket is a snapshot of the server-side basket, one line per distinct product.
type Basket []BasketLine

// ItemCount returns the total quantity across all lines. This is the number
// shown on the basket badge.
func (b Basket) ItemCount() int {
	var count int
	for _, line := range b {
		count += line.Quantity
	}
	return count
}

// Total returns the sum of all line totals.
func (b Basket) Total() float64 {
	var total float64
	for _, line := range b {
		total += line.Price
	}
	return total
}

// FindLine returns the index of the line holding the given product, or -1.
func (b Basket) FindLine(productID int) int {
	for i := range b {
		if b[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
