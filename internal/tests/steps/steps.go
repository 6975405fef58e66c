// Package steps holds reusable scenario steps that drive the shop API over HTTP.
package steps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/abgdnv/onlineshop/internal/service"
	"github.com/abgdnv/onlineshop/internal/store"
	"github.com/stretchr/testify/require"
)

const (
	ProductsURL = "/api/v1/products"
	UsersURL    = "/api/v1/users"
	CartsURL    = "/api/v1/carts"
)

// Client sends JSON requests to a running shop API.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// Do sends body as JSON and returns the status code and the raw response body.
func (c *Client) Do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err, "failed to encode request body")
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	require.NoError(t, err, "request %s %s failed", method, path)
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func decode[T any](t *testing.T, body []byte) *T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "unexpected body: %s", body)
	return &v
}

// ProductTestSteps drives the product endpoints.
type ProductTestSteps struct {
	Client *Client
}

// CreateProduct creates a product and requires 201.
func (s ProductTestSteps) CreateProduct(t *testing.T, name string, price float64, quantity int32) *service.ProductDto {
	t.Helper()
	status, body := s.Client.Do(t, http.MethodPost, ProductsURL, service.SaveProductRequest{
		Name:     &name,
		Price:    &price,
		Quantity: &quantity,
	})
	require.Equal(t, http.StatusCreated, status, "create product: %s", body)
	return decode[service.ProductDto](t, body)
}

// GetProduct requires 200 and returns the product.
func (s ProductTestSteps) GetProduct(t *testing.T, id int64) *service.ProductDto {
	t.Helper()
	status, body := s.Client.Do(t, http.MethodGet, fmt.Sprintf("%s/%d", ProductsURL, id), nil)
	require.Equal(t, http.StatusOK, status, "get product: %s", body)
	return decode[service.ProductDto](t, body)
}

// GetProductStatus returns the status code of reading a product.
func (s ProductTestSteps) GetProductStatus(t *testing.T, id int64) int {
	t.Helper()
	status, _ := s.Client.Do(t, http.MethodGet, fmt.Sprintf("%s/%d", ProductsURL, id), nil)
	return status
}

// UpdateProduct sends a partial update and requires 200.
func (s ProductTestSteps) UpdateProduct(t *testing.T, id int64, req service.SaveProductRequest) *service.ProductDto {
	t.Helper()
	status, body := s.Client.Do(t, http.MethodPut, fmt.Sprintf("%s/%d", ProductsURL, id), req)
	require.Equal(t, http.StatusOK, status, "update product: %s", body)
	return decode[service.ProductDto](t, body)
}

// DeleteProduct returns the status code of deleting a product.
func (s ProductTestSteps) DeleteProduct(t *testing.T, id int64) int {
	t.Helper()
	status, _ := s.Client.Do(t, http.MethodDelete, fmt.Sprintf("%s/%d", ProductsURL, id), nil)
	return status
}

// ListProducts requires 200 and returns the page selected by query, e.g. "?name=wid&size=5".
func (s ProductTestSteps) ListProducts(t *testing.T, query string) *store.Page[service.ProductDto] {
	t.Helper()
	status, body := s.Client.Do(t, http.MethodGet, ProductsURL+query, nil)
	require.Equal(t, http.StatusOK, status, "list products: %s", body)
	return decode[store.Page[service.ProductDto]](t, body)
}

// UserTestSteps drives the user endpoints.
type UserTestSteps struct {
	Client *Client
}

// CreateUser creates a user and requires 201.
func (s UserTestSteps) CreateUser(t *testing.T, role store.UserRole, firstName, lastName string) *service.UserDto {
	t.Helper()
	status, body := s.Client.Do(t, http.MethodPost, UsersURL, service.CreateUserRequest{
		Role:      role,
		FirstName: firstName,
		LastName:  lastName,
	})
	require.Equal(t, http.StatusCreated, status, "create user: %s", body)
	return decode[service.UserDto](t, body)
}

// GetUser requires 200 and returns the user.
func (s UserTestSteps) GetUser(t *testing.T, id int64) *service.UserDto {
	t.Helper()
	status, body := s.Client.Do(t, http.MethodGet, fmt.Sprintf("%s/%d", UsersURL, id), nil)
	require.Equal(t, http.StatusOK, status, "get user: %s", body)
	return decode[service.UserDto](t, body)
}

// GetUserStatus returns the status code of reading a user.
func (s UserTestSteps) GetUserStatus(t *testing.T, id int64) int {
	t.Helper()
	status, _ := s.Client.Do(t, http.MethodGet, fmt.Sprintf("%s/%d", UsersURL, id), nil)
	return status
}

// CartTestSteps drives the cart endpoints.
type CartTestSteps struct {
	Client *Client
}

// AddProducts returns the status code and, on success, the resulting cart.
func (s CartTestSteps) AddProducts(t *testing.T, userID int64, productIDs ...int64) (int, *service.CartDto) {
	t.Helper()
	status, body := s.Client.Do(t, http.MethodPut, fmt.Sprintf("%s/%d", CartsURL, userID),
		service.AddProductsToCartRequest{ProductIDs: productIDs})
	if status != http.StatusOK {
		return status, nil
	}
	return status, decode[service.CartDto](t, body)
}

// GetCart requires 200 and returns the cart.
func (s CartTestSteps) GetCart(t *testing.T, userID int64) *service.CartDto {
	t.Helper()
	status, body := s.Client.Do(t, http.MethodGet, fmt.Sprintf("%s/%d", CartsURL, userID), nil)
	require.Equal(t, http.StatusOK, status, "get cart: %s", body)
	return decode[service.CartDto](t, body)
}
