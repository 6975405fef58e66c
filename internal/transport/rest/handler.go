// Package rest provides the HTTP handlers of the shop API.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/onlineshop/internal/errors"
	"github.com/abgdnv/onlineshop/internal/service"
	"github.com/abgdnv/onlineshop/pkg/web"
	"github.com/go-chi/chi/v5"
)

const defaultPageSize = 20

type Handler struct {
	products service.ProductService
	users    service.UserService
	carts    service.CartService
	logger   *slog.Logger
}

// NewHandler creates a Handler serving the given services.
func NewHandler(products service.ProductService, users service.UserService, carts service.CartService, logger *slog.Logger) *Handler {
	return &Handler{
		products: products,
		users:    users,
		carts:    carts,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes of the shop API.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.GetProducts)
		r.Post("/", h.CreateProduct)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
	})

	r.Route("/api/v1/carts/{id}", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Put("/", h.AddProductsToCart)
	})

	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decode reads the JSON body into dst and answers 400 when it is malformed.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := web.DecodeJSON(r, dst); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondServiceError maps a service error onto the HTTP status of its kind.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFound, failed string) {
	var validationErr *perrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", validationErr.Fields)
		web.RespondValidationErrors(w, h.logger, validationErr.Fields)
	case errors.Is(err, perrors.ErrNotFound):
		h.logger.WarnContext(r.Context(), notFound, "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, notFound)
	default:
		h.logger.ErrorContext(r.Context(), failed, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, failed)
	}
}
