package rest

import (
	"errors"
	"fmt"
	"net/http"

	perrors "github.com/abgdnv/onlineshop/internal/errors"
	"github.com/abgdnv/onlineshop/internal/service"
	"github.com/abgdnv/onlineshop/pkg/web"
)

// AddProductsToCart puts the products of the body into the cart of the user in the path.
func (h *Handler) AddProductsToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var req service.AddProductsToCartRequest
	if !h.decode(w, r, &req) {
		return
	}

	cart, err := h.carts.AddProductsToCart(r.Context(), userID, req)
	if err != nil {
		notFound := fmt.Sprintf("User with ID %d not found", userID)
		if errors.Is(err, perrors.ErrProductNotFound) {
			notFound = "Product not found"
		}
		h.respondServiceError(w, r, err, notFound,
			fmt.Sprintf("Failed to add products to cart of user %d", userID))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, cart)
}

// GetCart retrieves the cart of the user in the path.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err,
			fmt.Sprintf("Cart of user %d not found", userID),
			fmt.Sprintf("Failed to retrieve cart of user %d", userID))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, cart)
}
