// Package service implements the business operations of the shop on top of the entity stores.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/onlineshop/internal/events"
	"github.com/abgdnv/onlineshop/internal/store"
	"github.com/abgdnv/onlineshop/pkg/messaging"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/abgdnv/onlineshop/internal/service"

// ProductService defines the methods for managing products.
type ProductService interface {
	// CreateProduct validates the request and stores a new product.
	// Returns a ValidationError when a mandatory field is missing or a constraint is violated.
	CreateProduct(ctx context.Context, req SaveProductRequest) (*ProductDto, error)

	// GetProduct retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	GetProduct(ctx context.Context, id int64) (*ProductDto, error)

	// GetProducts returns one page of the products matching the request.
	GetProducts(ctx context.Context, req GetProductsRequest, page store.PageRequest) (*store.Page[ProductDto], error)

	// UpdateProduct applies the non-nil fields of the request to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	UpdateProduct(ctx context.Context, id int64, req SaveProductRequest) (*ProductDto, error)

	// DeleteProduct removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteProduct(ctx context.Context, id int64) error
}

// Products implements ProductService.
type Products struct {
	store     store.ProductStore
	publisher messaging.Publisher
	validate  *validator.Validate
	logger    *slog.Logger
	changes   metric.Int64Counter
}

// NewProducts creates a ProductService. Change events go to publisher, which may be a messaging.NoopPublisher.
func NewProducts(s store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Products {
	logger = logger.With("component", "product_service")
	changes, err := otel.Meter(instrumentationName).Int64Counter("shop.product.changes",
		metric.WithDescription("Number of product writes by operation"))
	if err != nil {
		logger.Warn("failed to create product changes counter", "error", err)
		changes = noop.Int64Counter{}
	}
	return &Products{
		store:     s,
		publisher: publisher,
		validate:  newValidator(),
		logger:    logger,
		changes:   changes,
	}
}

func (s *Products) CreateProduct(ctx context.Context, req SaveProductRequest) (*ProductDto, error) {
	if err := validateCreate(ctx, s.validate, req); err != nil {
		return nil, err
	}

	product := store.Product{
		Name:        *req.Name,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	created, err := s.store.Save(ctx, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.InfoContext(ctx, "Product created", "ID", created.ID, "Name", created.Name)
	s.recordChange(ctx, "create")
	s.publish(ctx, events.NewProductCreated(created.ID, created.Name, created.Price, created.Quantity))
	dto := toProductDto(*created)
	return &dto, nil
}

func (s *Products) GetProduct(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	dto := toProductDto(*product)
	return &dto, nil
}

func (s *Products) GetProducts(ctx context.Context, req GetProductsRequest, page store.PageRequest) (*store.Page[ProductDto], error) {
	if err := validateStruct(ctx, s.validate, req); err != nil {
		return nil, err
	}
	if err := validateStruct(ctx, s.validate, page); err != nil {
		return nil, err
	}

	filter := store.ProductFilter{
		PartialName: req.PartialName,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
	}
	found, err := s.store.FindAll(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	s.logger.DebugContext(ctx, "Products fetched", "page", page.Page, "size", page.Size, "total", found.TotalElements)
	return store.MapPage(found, toProductDto), nil
}

func (s *Products) UpdateProduct(ctx context.Context, id int64, req SaveProductRequest) (*ProductDto, error) {
	if err := validateStruct(ctx, s.validate, req); err != nil {
		return nil, err
	}

	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	merge(product, req)

	updated, err := s.store.Save(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Product updated", "ID", updated.ID, "Name", updated.Name)
	s.recordChange(ctx, "update")
	s.publish(ctx, events.NewProductUpdated(updated.ID, updated.Name, updated.Price, updated.Quantity))
	dto := toProductDto(*updated)
	return &dto, nil
}

func (s *Products) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Product deleted", "ID", id)
	s.recordChange(ctx, "delete")
	s.publish(ctx, events.NewProductDeleted(id))
	return nil
}

// merge copies the non-nil request fields onto the product.
func merge(p *store.Product, req SaveProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
}

// publish logs delivery failures instead of returning them.
func (s *Products) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

func (s *Products) recordChange(ctx context.Context, operation string) {
	s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
