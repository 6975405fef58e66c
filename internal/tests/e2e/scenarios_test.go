// Package e2e runs the shop scenarios against the assembled HTTP API,
// once over the in-memory stores and once over PostgreSQL started with testcontainers.
package e2e

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abgdnv/onlineshop/internal/app"
	"github.com/abgdnv/onlineshop/internal/service"
	"github.com/abgdnv/onlineshop/internal/store"
	"github.com/abgdnv/onlineshop/internal/tests/steps"
	"github.com/abgdnv/onlineshop/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func ptr[T any](v T) *T { return &v }

// startServer serves the shop API over stores and returns a client for it.
func startServer(t *testing.T, stores app.Stores) *steps.Client {
	t.Helper()
	deps := app.SetupDependencies(stores, messaging.NoopPublisher{}, discardLogger)
	srv := httptest.NewServer(app.SetupHttpHandler(deps))
	t.Cleanup(srv.Close)
	return &steps.Client{HTTP: srv.Client(), BaseURL: srv.URL}
}

// runScenarios is shared by the in-memory and the PostgreSQL runs.
func runScenarios(t *testing.T, newClient func(t *testing.T) *steps.Client) {
	t.Run("create and get product", func(t *testing.T) {
		products := steps.ProductTestSteps{Client: newClient(t)}

		created := products.CreateProduct(t, "Widget", 10, 5)

		assert.Positive(t, created.ID)
		found := products.GetProduct(t, created.ID)
		assert.Equal(t, "Widget", found.Name)
		assert.Equal(t, 10.0, found.Price)
		assert.Equal(t, int32(5), found.Quantity)
	})

	t.Run("partial update keeps the other fields", func(t *testing.T) {
		products := steps.ProductTestSteps{Client: newClient(t)}
		created := products.CreateProduct(t, "Widget", 10, 5)

		updated := products.UpdateProduct(t, created.ID, service.SaveProductRequest{Price: ptr(20.0)})

		assert.Equal(t, 20.0, updated.Price)
		assert.Equal(t, "Widget", updated.Name)
		assert.Equal(t, int32(5), updated.Quantity)
		assert.Equal(t, *updated, *products.GetProduct(t, created.ID))
	})

	t.Run("deleted product is not found", func(t *testing.T) {
		products := steps.ProductTestSteps{Client: newClient(t)}
		created := products.CreateProduct(t, "Widget", 10, 5)

		require.Equal(t, http.StatusNoContent, products.DeleteProduct(t, created.ID))

		assert.Equal(t, http.StatusNotFound, products.GetProductStatus(t, created.ID))
		assert.Equal(t, http.StatusNotFound, products.DeleteProduct(t, created.ID))
	})

	t.Run("paged search", func(t *testing.T) {
		products := steps.ProductTestSteps{Client: newClient(t)}
		for _, name := range []string{"Red Widget", "Blue Widget", "Green Widget", "Lamp"} {
			products.CreateProduct(t, name, 10, 1)
		}

		page := products.ListProducts(t, "?name=widget&page=1&size=2")

		assert.Len(t, page.Content, 1)
		assert.Equal(t, "Green Widget", page.Content[0].Name)
		assert.Equal(t, int64(3), page.TotalElements)
		assert.Equal(t, int32(2), page.TotalPages)
		assert.GreaterOrEqual(t, page.TotalElements, int64(len(page.Content)))
	})

	t.Run("create and get user", func(t *testing.T) {
		users := steps.UserTestSteps{Client: newClient(t)}

		created := users.CreateUser(t, store.RoleCustomer, "Jane", "Doe")

		assert.Positive(t, created.ID)
		assert.Equal(t, created, users.GetUser(t, created.ID))
		assert.Equal(t, http.StatusNotFound, users.GetUserStatus(t, created.ID+1))
	})

	t.Run("cart", func(t *testing.T) {
		client := newClient(t)
		products := steps.ProductTestSteps{Client: client}
		users := steps.UserTestSteps{Client: client}
		carts := steps.CartTestSteps{Client: client}
		widget := products.CreateProduct(t, "Widget", 10, 5)
		lamp := products.CreateProduct(t, "Lamp", 30, 1)
		user := users.CreateUser(t, store.RoleCustomer, "Jane", "Doe")

		status, cart := carts.AddProducts(t, user.ID, lamp.ID, widget.ID)

		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []service.ProductDto{*widget, *lamp}, cart.Products)
		assert.Equal(t, cart, carts.GetCart(t, user.ID))
		status, _ = carts.AddProducts(t, user.ID+1, widget.ID)
		assert.Equal(t, http.StatusNotFound, status)
		status, _ = carts.AddProducts(t, user.ID, lamp.ID+1)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestScenarios_InMemory(t *testing.T) {
	runScenarios(t, func(t *testing.T) *steps.Client {
		return startServer(t, app.NewMemoryStores())
	})
}
