// Package basket implements the client-side basket choreography on top of the
// restaurant API. There is no local basket cache: every operation works from a
// fresh snapshot, and line totals are recomputed here before each mutation.
package basket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NozadzeJaba/restorani/internal/domain"
)

// Client is the subset of the restaurant API the basket service needs.
type Client interface {
	ListBasket(ctx context.Context) (domain.Basket, error)
	AddBasketItem(ctx context.Context, productID int, price float64, quantity int) error
	UpdateBasketItem(ctx context.Context, productID, quantity int, price float64) error
	DeleteBasketItem(ctx context.Context, productID int) error
}

// Service implements basket state sync against the remote API.
type Service struct {
	api    Client
	logger *slog.Logger
}

// NewService creates a basket service.
func NewService(api Client, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
	}
}

// Snapshot fetches the current basket.
func (s *Service) Snapshot(ctx context.Context) (domain.Basket, error) {
	basket, err := s.api.ListBasket(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch basket snapshot: %w", err)
	}
	return basket, nil
}

// BadgeCount fetches the basket and sums quantities across all lines. The
// badge is hidden when the count is zero.
func (s *Service) BadgeCount(ctx context.Context) (int, error) {
	basket, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return basket.ItemCount(), nil
}

// AddOrIncrement adds one unit of the product to the basket. If a line for the
// product already exists its quantity grows by one and the line total is
// recomputed from the unit price; otherwise a new line with quantity 1 is
// created.
func (s *Service) AddOrIncrement(ctx context.Context, productID int, unitPrice float64) error {
	basket, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	if i := basket.FindLine(productID); i >= 0 {
		newQuantity := basket[i].Quantity + 1
		newPrice := unitPrice * float64(newQuantity)
		if err := s.api.UpdateBasketItem(ctx, productID, newQuantity, newPrice); err != nil {
			return fmt.Errorf("increment basket line: %w", err)
		}

		s.logger.InfoContext(ctx, "basket line incremented",
			slog.Int("product_id", productID),
			slog.Int("quantity", newQuantity),
		)
		return nil
	}

	if err := s.api.AddBasketItem(ctx, productID, unitPrice, 1); err != nil {
		return fmt.Errorf("add basket line: %w", err)
	}

	s.logger.InfoContext(ctx, "basket line added",
		slog.Int("product_id", productID),
	)
	return nil
}

// IncrementLine raises the line's quantity by one, recomputing the line total
// from the product's unit price.
func (s *Service) IncrementLine(ctx context.Context, line domain.BasketLine) error {
	newQuantity := line.Quantity + 1
	if err := s.api.UpdateBasketItem(ctx, line.Product.ID, newQuantity, line.LineTotal(newQuantity)); err != nil {
		return fmt.Errorf("increment basket line: %w", err)
	}

	s.logger.InfoContext(ctx, "basket line incremented",
		slog.Int("product_id", line.Product.ID),
		slog.Int("quantity", newQuantity),
	)
	return nil
}

// DecrementLine lowers the line's quantity by one. Quantity never reaches
// zero: at quantity 1 the decrement becomes a delete.
func (s *Service) DecrementLine(ctx context.Context, line domain.BasketLine) error {
	if line.Quantity <= 1 {
		return s.RemoveLine(ctx, line.Product.ID)
	}

	newQuantity := line.Quantity - 1
	if err := s.api.UpdateBasketItem(ctx, line.Product.ID, newQuantity, line.LineTotal(newQuantity)); err != nil {
		return fmt.Errorf("decrement basket line: %w", err)
	}

	s.logger.InfoContext(ctx, "basket line decremented",
		slog.Int("product_id", line.Product.ID),
		slog.Int("quantity", newQuantity),
	)
	return nil
}

// RemoveLine deletes the basket line for the product.
func (s *Service) RemoveLine(ctx context.Context, productID int) error {
	if err := s.api.DeleteBasketItem(ctx, productID); err != nil {
		return fmt.Errorf("remove basket line: %w", err)
	}

	s.logger.InfoContext(ctx, "basket line removed",
		slog.Int("product_id", productID),
	)
	return nil
}
