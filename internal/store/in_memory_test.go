package store

import (
	"context"
	"testing"

	perrors "github.com/abgdnv/onlineshop/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seedProducts(t *testing.T, s ProductStore, products ...Product) []*Product {
	t.Helper()
	saved := make([]*Product, 0, len(products))
	for _, p := range products {
		created, err := s.Save(context.Background(), &p)
		require.NoError(t, err)
		saved = append(saved, created)
	}
	return saved
}

func TestMemoryProductStore_Save(t *testing.T) {
	ctx := context.Background()
	s := NewMemory().Products()

	// when
	first, err := s.Save(ctx, &Product{Name: "Widget", Price: 10, Quantity: 5, Description: ptr("small")})
	require.NoError(t, err)
	second, err := s.Save(ctx, &Product{Name: "Gadget", Price: 3, Quantity: 1})
	require.NoError(t, err)

	// then
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "small", *first.Description)
	assert.Nil(t, second.ImageURL)

	// update keeps the id
	first.Price = 20
	updated, err := s.Save(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	found, err := s.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, found.Price)
	assert.Equal(t, "Widget", found.Name)
}

func TestMemoryProductStore_SaveUnknownID(t *testing.T) {
	s := NewMemory().Products()

	_, err := s.Save(context.Background(), &Product{ID: 42, Name: "Ghost"})

	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	assert.ErrorIs(t, err, perrors.ErrNotFound)
}

func TestMemoryProductStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory().Products()
	saved := seedProducts(t, s, Product{Name: "Widget", Price: 1, Quantity: 1, Description: ptr("original")})

	// when
	*saved[0].Description = "mutated"

	// then
	found, err := s.FindByID(ctx, saved[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "original", *found.Description)
}

func TestMemoryProductStore_FindAll(t *testing.T) {
	s := NewMemory().Products()
	seedProducts(t, s,
		Product{Name: "Red Widget", Price: 10, Quantity: 1},
		Product{Name: "Blue widget", Price: 25, Quantity: 1},
		Product{Name: "Gadget", Price: 5, Quantity: 1},
		Product{Name: "Widget Pro", Price: 100, Quantity: 1},
	)

	testCases := []struct {
		name      string
		filter    ProductFilter
		page      PageRequest
		wantNames []string
		wantTotal int64
		wantPages int32
	}{
		{
			name:      "no filter",
			page:      PageRequest{Page: 0, Size: 10},
			wantNames: []string{"Red Widget", "Blue widget", "Gadget", "Widget Pro"},
			wantTotal: 4,
			wantPages: 1,
		},
		{
			name:      "second page",
			page:      PageRequest{Page: 1, Size: 3},
			wantNames: []string{"Widget Pro"},
			wantTotal: 4,
			wantPages: 2,
		},
		{
			name:      "page past the end",
			page:      PageRequest{Page: 5, Size: 3},
			wantNames: []string{},
			wantTotal: 4,
			wantPages: 2,
		},
		{
			name:      "name is case insensitive",
			filter:    ProductFilter{PartialName: ptr("WIDGET")},
			page:      PageRequest{Page: 0, Size: 10},
			wantNames: []string{"Red Widget", "Blue widget", "Widget Pro"},
			wantTotal: 3,
			wantPages: 1,
		},
		{
			name:      "price range is inclusive",
			filter:    ProductFilter{MinPrice: ptr(10.0), MaxPrice: ptr(25.0)},
			page:      PageRequest{Page: 0, Size: 10},
			wantNames: []string{"Red Widget", "Blue widget"},
			wantTotal: 2,
			wantPages: 1,
		},
		{
			name:      "all criteria",
			filter:    ProductFilter{PartialName: ptr("widget"), MinPrice: ptr(20.0)},
			page:      PageRequest{Page: 0, Size: 1},
			wantNames: []string{"Blue widget"},
			wantTotal: 2,
			wantPages: 2,
		},
		{
			name:      "nothing matches",
			filter:    ProductFilter{PartialName: ptr("chair")},
			page:      PageRequest{Page: 0, Size: 10},
			wantNames: []string{},
			wantTotal: 0,
			wantPages: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			page, err := s.FindAll(context.Background(), tc.filter, tc.page)

			// then
			require.NoError(t, err)
			names := make([]string, 0, len(page.Content))
			for _, p := range page.Content {
				names = append(names, p.Name)
			}
			assert.Equal(t, tc.wantNames, names)
			assert.Equal(t, tc.wantTotal, page.TotalElements)
			assert.Equal(t, tc.wantPages, page.TotalPages)
			assert.LessOrEqual(t, len(page.Content), int(tc.page.Size))
		})
	}
}

func TestMemoryProductStore_DeleteByID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	products := m.Products()
	saved := seedProducts(t, products, Product{Name: "Widget", Price: 10, Quantity: 5})
	user, err := m.Users().Save(ctx, &User{Role: RoleCustomer, FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	require.NoError(t, m.Carts().AddProducts(ctx, user.ID, []int64{saved[0].ID}))

	// when
	err = products.DeleteByID(ctx, saved[0].ID)

	// then
	require.NoError(t, err)
	_, err = products.FindByID(ctx, saved[0].ID)
	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	cart, err := m.Carts().FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Products)

	// repeated delete reports the missing product
	assert.ErrorIs(t, products.DeleteByID(ctx, saved[0].ID), perrors.ErrProductNotFound)
}

func TestMemoryUserStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory().Users()

	// when
	created, err := s.Save(ctx, &User{Role: RoleCustomer, FirstName: "Jane", LastName: "Doe"})

	// then
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	found, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = s.FindByID(ctx, 999)
	assert.ErrorIs(t, err, perrors.ErrUserNotFound)
}

func TestMemoryCartStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	products := seedProducts(t, m.Products(),
		Product{Name: "Widget", Price: 10, Quantity: 5},
		Product{Name: "Gadget", Price: 3, Quantity: 1},
	)
	user, err := m.Users().Save(ctx, &User{Role: RoleCustomer, FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	carts := m.Carts()

	testCases := []struct {
		name       string
		userID     int64
		productIDs []int64
		wantErr    error
		wantIDs    []int64
	}{
		{name: "unknown user", userID: 999, productIDs: []int64{products[0].ID}, wantErr: perrors.ErrUserNotFound},
		{name: "unknown product", userID: user.ID, productIDs: []int64{products[0].ID, 999}, wantErr: perrors.ErrProductNotFound},
		{name: "first add creates the cart", userID: user.ID, productIDs: []int64{products[1].ID}, wantIDs: []int64{products[1].ID}},
		{name: "duplicates are ignored", userID: user.ID, productIDs: []int64{products[1].ID, products[0].ID, products[0].ID}, wantIDs: []int64{products[0].ID, products[1].ID}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			err := carts.AddProducts(ctx, tc.userID, tc.productIDs)

			// then
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			cart, err := carts.FindByUserID(ctx, tc.userID)
			require.NoError(t, err)
			ids := make([]int64, 0, len(cart.Products))
			for _, p := range cart.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestMemoryCartStore_NoCart(t *testing.T) {
	_, err := NewMemory().Carts().FindByUserID(context.Background(), 1)

	assert.ErrorIs(t, err, perrors.ErrCartNotFound)
}

func TestNewPage(t *testing.T) {
	page := NewPage[int](nil, PageRequest{Page: 2, Size: 10}, 21)

	assert.Equal(t, []int{}, page.Content)
	assert.Equal(t, int32(3), page.TotalPages)
	assert.Equal(t, int64(20), PageRequest{Page: 2, Size: 10}.Offset())

	mapped := MapPage(NewPage([]int{1, 2}, PageRequest{Size: 2}, 2), func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, mapped.Content)
	assert.Equal(t, int32(1), mapped.TotalPages)
}
