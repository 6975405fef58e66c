package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/onlineshop/internal/store"
	"github.com/go-playground/validator/v10"
)

// UserService defines the methods for managing users.
type UserService interface {
	// CreateUser validates the request and stores a new user.
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserDto, error)

	// GetUser retrieves a single user by its unique identifier.
	// Returns ErrUserNotFound if no user exists with the given ID.
	GetUser(ctx context.Context, id int64) (*UserDto, error)
}

// Users implements UserService.
type Users struct {
	store    store.UserStore
	validate *validator.Validate
	logger   *slog.Logger
}

func NewUsers(s store.UserStore, logger *slog.Logger) *Users {
	return &Users{
		store:    s,
		validate: newValidator(),
		logger:   logger.With("component", "user_service"),
	}
}

func (s *Users) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDto, error) {
	if err := validateStruct(ctx, s.validate, req); err != nil {
		return nil, err
	}

	created, err := s.store.Save(ctx, &store.User{
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.InfoContext(ctx, "User created", "ID", created.ID, "role", created.Role)
	return toUserDto(created), nil
}

func (s *Users) GetUser(ctx context.Context, id int64) (*UserDto, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user by ID %d: %w", id, err)
	}
	return toUserDto(user), nil
}
