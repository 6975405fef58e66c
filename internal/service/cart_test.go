package service

import (
	"context"
	"testing"

	perrors "github.com/abgdnv/onlineshop/internal/errors"
	"github.com/abgdnv/onlineshop/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarts_AddProductsToCart(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	user, err := mem.Users().Save(ctx, &store.User{Role: store.RoleCustomer, FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	widget, err := mem.Products().Save(ctx, &store.Product{Name: "Widget", Price: 10, Quantity: 5})
	require.NoError(t, err)
	service := NewCarts(mem.Carts(), discardLogger)

	testCases := []struct {
		name         string
		userID       int64
		request      AddProductsToCartRequest
		expected     *CartDto
		expectError  error
		expectFields []string
	}{
		{
			name:         "Error - empty product list",
			userID:       user.ID,
			request:      AddProductsToCartRequest{ProductIDs: []int64{}},
			expectError:  perrors.ErrValidation,
			expectFields: []string{"productIds"},
		},
		{
			name:         "Error - non positive product id",
			userID:       user.ID,
			request:      AddProductsToCartRequest{ProductIDs: []int64{widget.ID, 0}},
			expectError:  perrors.ErrValidation,
			expectFields: []string{"productIds[1]"},
		},
		{
			name:        "Error - unknown user",
			userID:      user.ID + 1,
			request:     AddProductsToCartRequest{ProductIDs: []int64{widget.ID}},
			expectError: perrors.ErrUserNotFound,
		},
		{
			name:        "Error - unknown product",
			userID:      user.ID,
			request:     AddProductsToCartRequest{ProductIDs: []int64{widget.ID + 1}},
			expectError: perrors.ErrProductNotFound,
		},
		{
			name:    "Success - product added",
			userID:  user.ID,
			request: AddProductsToCartRequest{ProductIDs: []int64{widget.ID, widget.ID}},
			expected: &CartDto{
				UserID:   user.ID,
				Products: []ProductDto{{ID: widget.ID, Name: "Widget", Price: 10, Quantity: 5}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			cart, err := service.AddProductsToCart(ctx, tc.userID, tc.request)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, cart)
				for _, field := range tc.expectFields {
					var validationErr *perrors.ValidationError
					require.ErrorAs(t, err, &validationErr)
					assert.Contains(t, validationErr.Fields, field)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cart)
		})
	}
}

func TestCarts_GetCart(t *testing.T) {
	// given
	service := NewCarts(store.NewMemory().Carts(), discardLogger)

	// when
	cart, err := service.GetCart(context.Background(), 1)

	// then
	assert.ErrorIs(t, err, perrors.ErrCartNotFound)
	assert.ErrorIs(t, err, perrors.ErrNotFound)
	assert.Nil(t, cart)
}
