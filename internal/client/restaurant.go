// Package client provides a typed client for the remote restaurant API that
// owns all product, category, and basket state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/NozadzeJaba/restorani/internal/domain"
	"github.com/NozadzeJaba/restorani/pkg/httpclient"
)

const serviceName = "restaurant-api"

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Restaurant is a client for the restaurant REST API. Each operation is a
// single network round-trip; failures are returned to the caller and never
// retried here.
type Restaurant struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// New creates a restaurant API client. baseURL is the API root, e.g.
// "https://restaurant.stepprojects.ge/api".
func New(doer HTTPDoer, baseURL string, logger *slog.Logger) *Restaurant {
	return &Restaurant{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// basketItemRequest is the JSON body for basket add and update calls.
// Price carries the line total, not the unit price.
type basketItemRequest struct {
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	ProductID int     `json:"productId"`
}

// deleteItemRequest is the JSON body the API expects alongside the id in the
// delete path.
type deleteItemRequest struct {
	ID int `json:"id"`
}

// ListProducts fetches every product on the menu.
func (r *Restaurant) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.getJSON(ctx, "list_products", "/Products/GetAll", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FilteredProducts fetches products matching the given filter via the API's
// filter endpoint. Spiciness 0 is sent as-is; the server treats it as
// unconstrained.
func (r *Restaurant) FilteredProducts(ctx context.Context, filters domain.FilterState) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("vegeterian", strconv.FormatBool(filters.Vegeterian))
	q.Set("nuts", strconv.FormatBool(filters.Nuts))
	q.Set("spiciness", strconv.Itoa(filters.Spiciness))

	var products []domain.Product
	if err := r.getJSON(ctx, "filtered_products", "/Products/GetFiltered?"+q.Encode(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetCategory fetches one category with its member products inline.
func (r *Restaurant) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	var category domain.Category
	if err := r.getJSON(ctx, "get_category", "/Categories/GetCategory/"+strconv.Itoa(id), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// ListBasket fetches the current basket snapshot.
func (r *Restaurant) ListBasket(ctx context.Context) (domain.Basket, error) {
	var basket domain.Basket
	if err := r.getJSON(ctx, "list_basket", "/Baskets/GetAll", &basket); err != nil {
		return nil, err
	}
	return basket, nil
}

// AddBasketItem creates a new basket line for the product. Price is the line
// total for the given quantity, computed by the caller.
func (r *Restaurant) AddBasketItem(ctx context.Context, productID int, price float64, quantity int) error {
	body := basketItemRequest{Quantity: quantity, Price: price, ProductID: productID}
	return r.send(ctx, "add_basket_item", http.MethodPost, "/Baskets/AddToBasket", body)
}

// UpdateBasketItem replaces the quantity and line total of an existing basket
// line, keyed by product id.
func (r *Restaurant) UpdateBasketItem(ctx context.Context, productID, quantity int, price float64) error {
	body := basketItemRequest{Quantity: quantity, Price: price, ProductID: productID}
	return r.send(ctx, "update_basket_item", http.MethodPut, "/Baskets/UpdateBasket", body)
}

// DeleteBasketItem removes the basket line for the product.
func (r *Restaurant) DeleteBasketItem(ctx context.Context, productID int) error {
	return r.send(ctx, "delete_basket_item", http.MethodDelete, "/Baskets/DeleteProduct/"+strconv.Itoa(productID), deleteItemRequest{ID: productID})
}

// getJSON performs a GET and decodes the 2xx response body into out.
func (r *Restaurant) getJSON(ctx context.Context, operation, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}

	resp, err := r.http.Do(ctx, req)
	if err != nil {
		observeRemoteCall(operation, outcomeTransportError)
		return fmt.Errorf("call %s: %w", serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observeRemoteCall(operation, outcomeStatusError)
		return httpclient.ParseResponseError(resp, serviceName)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		observeRemoteCall(operation, outcomeDecodeError)
		return fmt.Errorf("decode %s response: %w", operation, err)
	}

	observeRemoteCall(operation, outcomeOK)
	return nil
}

// send performs a mutating call with a JSON body and discards the response body.
func (r *Restaurant) send(ctx context.Context, operation, method, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(ctx, req)
	if err != nil {
		observeRemoteCall(operation, outcomeTransportError)
		return fmt.Errorf("call %s: %w", serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observeRemoteCall(operation, outcomeStatusError)
		return httpclient.ParseResponseError(resp, serviceName)
	}

	observeRemoteCall(operation, outcomeOK)
	r.logger.DebugContext(ctx, "basket mutation accepted",
		slog.String("operation", operation),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}
