package domain

// Product represents a menu item owned by the restaurant API. Immutable on
// our side; the JSON tags follow the remote API's field names, including the
// "vegeterian" spelling it uses on the wire.
type Product struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image"`
	Vegeterian bool    `json:"vegeterian"`
	Nuts       bool    `json:"nuts"`
	Spiciness  int     `json:"spiciness"`
}

// Category is a server-side grouping of products, fetched with its member
// products inline.
type Category struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}
