package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/onlineshop/internal/store"
	"github.com/go-playground/validator/v10"
)

// CartService defines the methods for managing shopping carts.
type CartService interface {
	// AddProductsToCart puts products into the cart of a user and returns the resulting cart.
	// Returns ErrUserNotFound or ErrProductNotFound when a referenced entity does not exist.
	AddProductsToCart(ctx context.Context, userID int64, req AddProductsToCartRequest) (*CartDto, error)

	// GetCart retrieves the cart of a user.
	// Returns ErrCartNotFound if the user has not added anything yet.
	GetCart(ctx context.Context, userID int64) (*CartDto, error)
}

// Carts implements CartService.
type Carts struct {
	store    store.CartStore
	validate *validator.Validate
	logger   *slog.Logger
}

func NewCarts(s store.CartStore, logger *slog.Logger) *Carts {
	return &Carts{
		store:    s,
		validate: newValidator(),
		logger:   logger.With("component", "cart_service"),
	}
}

func (s *Carts) AddProductsToCart(ctx context.Context, userID int64, req AddProductsToCartRequest) (*CartDto, error) {
	if err := validateStruct(ctx, s.validate, req); err != nil {
		return nil, err
	}
	if err := s.store.AddProducts(ctx, userID, req.ProductIDs); err != nil {
		return nil, fmt.Errorf("failed to add products to cart of user %d: %w", userID, err)
	}
	s.logger.InfoContext(ctx, "Products added to cart", "userID", userID, "count", len(req.ProductIDs))
	return s.GetCart(ctx, userID)
}

func (s *Carts) GetCart(ctx context.Context, userID int64) (*CartDto, error) {
	cart, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart of user %d: %w", userID, err)
	}
	return toCartDto(cart), nil
}
