package service

import "github.com/abgdnv/onlineshop/internal/store"

// SaveProductRequest carries the fields of a product to create or update.
// On create Name, Price and Quantity are mandatory; on update only the non-nil fields are applied.
type SaveProductRequest struct {
	Name        *string  `json:"name"        validate:"omitnil,min=1,max=255"`
	Price       *float64 `json:"price"       validate:"omitnil,gte=0"`
	Quantity    *int32   `json:"quantity"    validate:"omitnil,gte=0"`
	Description *string  `json:"description" validate:"omitnil,max=2000"`
	ImageURL    *string  `json:"imageUrl"    validate:"omitnil,url"`
}

// GetProductsRequest holds the optional search criteria of a product listing.
type GetProductsRequest struct {
	PartialName *string  `json:"name"     validate:"omitnil,max=255"`
	MinPrice    *float64 `json:"minPrice" validate:"omitnil,gte=0"`
	MaxPrice    *float64 `json:"maxPrice" validate:"omitnil,gte=0"`
}

// CreateUserRequest carries the fields of a new user. All of them are mandatory.
type CreateUserRequest struct {
	Role      store.UserRole `json:"role"      validate:"required,oneof=ADMIN CUSTOMER"`
	FirstName string         `json:"firstName" validate:"required,max=255"`
	LastName  string         `json:"lastName"  validate:"required,max=255"`
}

// AddProductsToCartRequest lists the products to put into a cart.
type AddProductsToCartRequest struct {
	ProductIDs []int64 `json:"productIds" validate:"required,min=1,dive,gt=0"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// UserDto represents the data transfer object for a user.
type UserDto struct {
	ID        int64          `json:"id"`
	Role      store.UserRole `json:"role"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
}

// CartDto represents the data transfer object for a cart.
type CartDto struct {
	UserID   int64        `json:"userId"`
	Products []ProductDto `json:"products"`
}

func toProductDto(p store.Product) ProductDto {
	return ProductDto{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}

func toUserDto(u *store.User) *UserDto {
	return &UserDto{
		ID:        u.ID,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func toCartDto(c *store.Cart) *CartDto {
	products := make([]ProductDto, len(c.Products))
	for i, p := range c.Products {
		products[i] = toProductDto(p)
	}
	return &CartDto{UserID: c.UserID, Products: products}
}
