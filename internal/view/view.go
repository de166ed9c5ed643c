// Package view renders the storefront pages from structured view models.
// Rendering never touches the network: handlers fetch, build a model, and
// hand it here, so templates stay testable in isolation.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/NozadzeJaba/restorani/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page carries the fields every page shares: theme, basket badge, and an
// optional flash message from a failed action. A BadgeCount of zero hides the
// badge entirely.
type Page struct {
	Title      string
	Theme      string
	BadgeCount int
	FlashError string
}

// CategoryLink is one category button in the menu's filter bar.
type CategoryLink struct {
	ID     int
	Name   string
	Active bool
}

// FilterForm mirrors the current filter selection into the filter controls.
type FilterForm struct {
	Vegeterian bool
	Nuts       bool
	Spiciness  int
}

// ProductCard is the view model for one product on the menu page.
type ProductCard struct {
	ID         int
	Name       string
	Image      string
	Price      float64
	Vegeterian bool
	Nuts       bool
	Spiciness  int
}

// BasketCard is the view model for one basket line, carrying everything the
// increment/decrement/delete forms need.
type BasketCard struct {
	ProductID int
	Name      string
	Image     string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

// MenuData is the model for the menu page.
type MenuData struct {
	Page
	Categories   []CategoryLink
	Filters      FilterForm
	Products     []ProductCard
	EmptyMessage string
}

// BasketData is the model for the basket page.
type BasketData struct {
	Page
	Lines        []BasketCard
	Total        float64
	EmptyMessage string
}

// NewProductCards maps products into view models.
func NewProductCards(products []domain.Product) []ProductCard {
	cards := make([]ProductCard, len(products))
	for i, p := range products {
		cards[i] = ProductCard{
			ID:         p.ID,
			Name:       p.Name,
			Image:      p.Image,
			Price:      p.Price,
			Vegeterian: p.Vegeterian,
			Nuts:       p.Nuts,
			Spiciness:  p.Spiciness,
		}
	}
	return cards
}

// NewBasketCards maps basket lines into view models.
func NewBasketCards(basket domain.Basket) []BasketCard {
	cards := make([]BasketCard, len(basket))
	for i, line := range basket {
		cards[i] = BasketCard{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Image:     line.Product.Image,
			UnitPrice: line.Product.Price,
			Quantity:  line.Quantity,
			LineTotal: line.Price,
		}
	}
	return cards
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("storefront").Funcs(template.FuncMap{
		"price":   formatPrice,
		"peppers": peppers,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Menu renders the menu page.
func (r *Renderer) Menu(w io.Writer, data MenuData) error {
	if err := r.tmpl.ExecuteTemplate(w, "menu", data); err != nil {
		return fmt.Errorf("render menu: %w", err)
	}
	return nil
}

// Basket renders the basket page.
func (r *Renderer) Basket(w io.Writer, data BasketData) error {
	if err := r.tmpl.ExecuteTemplate(w, "basket", data); err != nil {
		return fmt.Errorf("render basket: %w", err)
	}
	return nil
}

// formatPrice renders a price the way the menu shows it: no trailing zeros,
// at most two decimals.
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// peppers renders a spiciness level as pepper marks.
func peppers(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("\U0001F336", level)
}
