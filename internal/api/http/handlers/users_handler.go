package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bloodbound-service/internal/service"
)

// UsersHandler exposes the admin user listing.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}
