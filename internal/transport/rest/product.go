package rest

import (
	"fmt"
	"net/http"

	"github.com/abgdnv/onlineshop/internal/service"
	"github.com/abgdnv/onlineshop/internal/store"
	"github.com/abgdnv/onlineshop/pkg/web"
)

// CreateProduct handles the creation of a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.SaveProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	created, err := h.products.CreateProduct(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err, "Product not found", "Failed to create product")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// GetProduct retrieves a product by its ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err,
			fmt.Sprintf("Product with ID %d not found", id),
			fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// GetProducts returns a page of products filtered by the name, minPrice and maxPrice query parameters.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := web.ParseOptionalGte(r, w, h.logger, "page", 0, 0)
	if !ok {
		return
	}
	size, ok := web.ParseOptionalBetween(r, w, h.logger, "size", 1, store.MaxPageSize, defaultPageSize)
	if !ok {
		return
	}
	minPrice, ok := web.ParseOptionalFloat(r, w, h.logger, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := web.ParseOptionalFloat(r, w, h.logger, "maxPrice")
	if !ok {
		return
	}
	req := service.GetProductsRequest{
		PartialName: web.ParseOptionalString(r, "name"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}

	h.logger.DebugContext(r.Context(), "Received request to find products", "page", page, "size", size)
	found, err := h.products.GetProducts(r.Context(), req, store.PageRequest{Page: page, Size: size})
	if err != nil {
		h.respondServiceError(w, r, err, "Products not found", "Failed to fetch products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// UpdateProduct applies the fields present in the body to an existing product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var req service.SaveProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	updated, err := h.products.UpdateProduct(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, r, err,
			fmt.Sprintf("Product with ID %d not found", id),
			fmt.Sprintf("Failed to update product with ID %d", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteProduct deletes a product by its ID.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err,
			fmt.Sprintf("Product with ID %d not found", id),
			fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
