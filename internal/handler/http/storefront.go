// Package http serves the storefront pages: the menu with its category and
// filter controls, and the basket. All mutations are plain form POSTs that
// redirect back to a page fetch, so every render starts from fresh state.
package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NozadzeJaba/restorani/internal/basket"
	"github.com/NozadzeJaba/restorani/internal/catalog"
	"github.com/NozadzeJaba/restorani/internal/config"
	"github.com/NozadzeJaba/restorani/internal/domain"
	"github.com/NozadzeJaba/restorani/internal/session"
	"github.com/NozadzeJaba/restorani/internal/view"
	apperrors "github.com/NozadzeJaba/restorani/pkg/errors"
	"github.com/NozadzeJaba/restorani/pkg/validator"
)

const (
	emptyMenuMessage   = "There are no products with given parameters"
	emptyBasketMessage = "There are no products in your basket"

	flashBasketFailed = "Could not update the basket, please try again"
	flashFilterFailed = "Could not apply the filters, please try again"
)

// StorefrontHandler handles the storefront's HTTP surface.
type StorefrontHandler struct {
	catalog    *catalog.Service
	baskets    *basket.Service
	sessions   *session.Store
	renderer   *view.Renderer
	categories []config.CategoryOption
	logger     *slog.Logger
}

// NewStorefrontHandler creates the storefront HTTP handler.
func NewStorefrontHandler(
	catalogSvc *catalog.Service,
	basketSvc *basket.Service,
	sessions *session.Store,
	renderer *view.Renderer,
	categories []config.CategoryOption,
	logger *slog.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		catalog:    catalogSvc,
		baskets:    basketSvc,
		sessions:   sessions,
		renderer:   renderer,
		categories: categories,
		logger:     logger,
	}
}

// --- Form DTOs ---

// filterForm is the filter selection posted from the menu page. Checkboxes
// arrive as "true" when ticked and are absent otherwise.
type filterForm struct {
	Vegeterian bool
	Nuts       bool
	Spiciness  int `validate:"gte=0,lte=5"`
}

// addItemForm is posted from a product card's add-to-basket button.
type addItemForm struct {
	ProductID int     `validate:"required,gt=0"`
	Price     float64 `validate:"gte=0"`
}

// --- Pages ---

// Menu handles GET /.
func (h *StorefrontHandler) Menu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := sessionIDFromContext(ctx)
	if !ok {
		http.Error(w, "session required", http.StatusBadRequest)
		return
	}

	state, products, err := h.catalog.BrowseSession(ctx, h.sessions, sid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := view.MenuData{
		Page: view.Page{
			Title:      "Menu",
			Theme:      state.Theme,
			BadgeCount: h.badgeCount(r),
			FlashError: popFlash(w, r),
		},
		Categories: h.categoryLinks(state),
		Filters: view.FilterForm{
			Vegeterian: state.Filters.Vegeterian,
			Nuts:       state.Filters.Nuts,
			Spiciness:  state.Filters.Spiciness,
		},
		Products: view.NewProductCards(products),
	}
	if len(products) == 0 {
		data.EmptyMessage = emptyMenuMessage
	}

	if err := h.renderer.Menu(w, data); err != nil {
		h.logger.ErrorContext(ctx, "render menu", slog.String("error", err.Error()))
	}
}

// Basket handles GET /basket.
func (h *StorefrontHandler) Basket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := sessionIDFromContext(ctx)
	if !ok {
		http.Error(w, "session required", http.StatusBadRequest)
		return
	}

	state, err := h.sessions.Get(ctx, sid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snapshot, err := h.baskets.Snapshot(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := view.BasketData{
		Page: view.Page{
			Title:      "Basket",
			Theme:      state.Theme,
			BadgeCount: snapshot.ItemCount(),
			FlashError: popFlash(w, r),
		},
		Lines: view.NewBasketCards(snapshot),
		Total: snapshot.Total(),
	}
	if len(snapshot) == 0 {
		data.EmptyMessage = emptyBasketMessage
	}

	if err := h.renderer.Basket(w, data); err != nil {
		h.logger.ErrorContext(ctx, "render basket", slog.String("error", err.Error()))
	}
}

// --- Browsing state actions ---

// SetCategory handles POST /category/{id}.
func (h *StorefrontHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	h.mutateSession(w, r, "/", flashFilterFailed, func(state *session.State) {
		state.SetCategory(id)
	})
}

// SetFilters handles POST /filters.
func (h *StorefrontHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := filterForm{
		Vegeterian: r.PostFormValue("vegeterian") == "true",
		Nuts:       r.PostFormValue("nuts") == "true",
	}
	if raw := r.PostFormValue("spiciness"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid spiciness value", http.StatusBadRequest)
			return
		}
		form.Spiciness = n
	}

	if err := validator.Validate(form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mutateSession(w, r, "/", flashFilterFailed, func(state *session.State) {
		state.SetFilters(domain.FilterState{
			Vegeterian: form.Vegeterian,
			Nuts:       form.Nuts,
			Spiciness:  form.Spiciness,
		})
	})
}

// ResetFilters handles POST /filters/reset.
func (h *StorefrontHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.mutateSession(w, r, "/", flashFilterFailed, func(state *session.State) {
		state.ResetFilters()
	})
}

// ToggleTheme handles POST /theme. The visitor stays on the page they toggled
// from.
func (h *StorefrontHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.mutateSession(w, r, refererPath(r), flashFilterFailed, func(state *session.State) {
		state.ToggleTheme()
	})
}

// --- Basket actions ---

// AddItem handles POST /basket/items.
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	productID, err := strconv.Atoi(r.PostFormValue("productId"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
	if err != nil {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}

	form := addItemForm{ProductID: productID, Price: price}
	if err := validator.Validate(form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.baskets.AddOrIncrement(r.Context(), form.ProductID, form.Price); err != nil {
		h.logger.ErrorContext(r.Context(), "add basket item",
			slog.Int("product_id", form.ProductID),
			slog.String("error", err.Error()),
		)
		setFlash(w, flashBasketFailed)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// IncrementItem handles POST /basket/items/{id}/increment.
func (h *StorefrontHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, func(line domain.BasketLine) error {
		return h.baskets.IncrementLine(r.Context(), line)
	})
}

// DecrementItem handles POST /basket/items/{id}/decrement.
func (h *StorefrontHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, func(line domain.BasketLine) error {
		return h.baskets.DecrementLine(r.Context(), line)
	})
}

// RemoveItem handles POST /basket/items/{id}/delete.
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.baskets.RemoveLine(r.Context(), id); err != nil {
		h.logger.ErrorContext(r.Context(), "remove basket item",
			slog.Int("product_id", id),
			slog.String("error", err.Error()),
		)
		setFlash(w, flashBasketFailed)
	}

	http.Redirect(w, r, "/basket", http.StatusSeeOther)
}

// --- Helpers ---

// mutateSession loads the visitor's state, applies fn, saves, and redirects.
func (h *StorefrontHandler) mutateSession(w http.ResponseWriter, r *http.Request, redirectTo, flashMsg string, fn func(*session.State)) {
	ctx := r.Context()
	sid, ok := sessionIDFromContext(ctx)
	if !ok {
		http.Error(w, "session required", http.StatusBadRequest)
		return
	}

	state, err := h.sessions.Get(ctx, sid)
	if err == nil {
		fn(state)
		err = h.sessions.Save(ctx, sid, state)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "update session state", slog.String("error", err.Error()))
		setFlash(w, flashMsg)
	}

	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// mutateLine resolves the basket line for the {id} route param from a fresh
// snapshot and applies fn to it. A vanished line is not an error: the redirect
// re-renders whatever the basket holds now.
func (h *StorefrontHandler) mutateLine(w http.ResponseWriter, r *http.Request, fn func(domain.BasketLine) error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	snapshot, err := h.baskets.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "snapshot basket", slog.String("error", err.Error()))
		setFlash(w, flashBasketFailed)
		http.Redirect(w, r, "/basket", http.StatusSeeOther)
		return
	}

	if i := snapshot.FindLine(id); i >= 0 {
		if err := fn(snapshot[i]); err != nil {
			h.logger.ErrorContext(ctx, "update basket line",
				slog.Int("product_id", id),
				slog.String("error", err.Error()),
			)
			setFlash(w, flashBasketFailed)
		}
	}

	http.Redirect(w, r, "/basket", http.StatusSeeOther)
}

// badgeCount fetches the basket badge for the header. A failed fetch renders
// the page without a badge rather than failing the whole request.
func (h *StorefrontHandler) badgeCount(r *http.Request) int {
	count, err := h.baskets.BadgeCount(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "badge count unavailable", slog.String("error", err.Error()))
		return 0
	}
	return count
}

// categoryLinks builds the category bar, marking the selected entry.
func (h *StorefrontHandler) categoryLinks(state *session.State) []view.CategoryLink {
	links := make([]view.CategoryLink, len(h.categories))
	for i, c := range h.categories {
		links[i] = view.CategoryLink{
			ID:     c.ID,
			Name:   c.Name,
			Active: state.CategoryID != nil && *state.CategoryID == c.ID,
		}
	}
	return links
}

func (h *StorefrontHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	http.Error(w, http.StatusText(status), status)
}

// refererPath extracts a safe same-site redirect target from the Referer
// header, falling back to the menu.
func refererPath(r *http.Request) string {
	ref, err := url.Parse(r.Header.Get("Referer"))
	if err != nil || ref.Path == "" || ref.Path[0] != '/' {
		return "/"
	}
	return ref.Path
}
