package rest

import (
	"fmt"
	"net/http"

	"github.com/abgdnv/onlineshop/internal/service"
	"github.com/abgdnv/onlineshop/pkg/web"
)

// CreateUser handles the creation of a new user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	created, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err, "User not found", "Failed to create user")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// GetUser retrieves a user by its ID.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	found, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err,
			fmt.Sprintf("User with ID %d not found", id),
			fmt.Sprintf("Failed to retrieve user with ID %d", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}
