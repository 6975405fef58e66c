// Package store provides the persistence contract of the shop entities and its implementations.
package store

import (
	"context"
)

// UserRole is the role a shop user acts in.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleCustomer UserRole = "CUSTOMER"
)

// User is a persisted shop user.
type User struct {
	ID        int64
	Role      UserRole
	FirstName string
	LastName  string
}

// Product is a persisted catalogue item.
type Product struct {
	ID          int64
	Name        string
	Price       float64
	Quantity    int32
	Description *string
	ImageURL    *string
}

// Cart is the set of products a user collected, keyed by the user id.
type Cart struct {
	UserID   int64
	Products []Product
}

// ProductFilter narrows FindAll. Nil criteria match every product.
type ProductFilter struct {
	PartialName *string
	MinPrice    *float64
	MaxPrice    *float64
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// Save inserts the product when its ID is zero and updates it otherwise.
	// Returns ErrProductNotFound when updating a product that does not exist.
	Save(ctx context.Context, product *Product) (*Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAll returns one page of the products matching the filter, ordered by ID.
	FindAll(ctx context.Context, filter ProductFilter, page PageRequest) (*Page[Product], error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// UserStore is an interface for user storage operations.
type UserStore interface {
	// Save inserts the user when its ID is zero and updates it otherwise.
	// Returns ErrUserNotFound when updating a user that does not exist.
	Save(ctx context.Context, user *User) (*User, error)

	// FindByID retrieves a single user by its unique identifier.
	// Returns ErrUserNotFound if no user exists with the given ID.
	FindByID(ctx context.Context, id int64) (*User, error)
}

// CartStore is an interface for cart storage operations.
type CartStore interface {
	// AddProducts puts the products into the cart of the user, creating the cart on first use.
	// Products already in the cart are left as they are.
	AddProducts(ctx context.Context, userID int64, productIDs []int64) error

	// FindByUserID retrieves the cart of a user with its products ordered by product ID.
	// Returns ErrCartNotFound if the user has no cart.
	FindByUserID(ctx context.Context, userID int64) (*Cart, error)
}
