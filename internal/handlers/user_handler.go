package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sitetrack/internal/dto"
	"sitetrack/internal/middleware"
	"sitetrack/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns the user directory the actor may see. Non-directory roles
// get a single-element list containing themselves.
func (h *UserHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	users, err := h.userService.List(c.Context(), user)
	if err != nil {
		return serviceError(c, err)
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(resp)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	target, err := h.userService.Get(c.Context(), user, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.NewUserResponse(target))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	target, err := h.userService.Update(c.Context(), user, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.NewUserResponse(target))
}

func (h *UserHandler) Approve(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req dto.ApproveUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	target, err := h.userService.Approve(c.Context(), user, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.NewUserResponse(target))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.userService.Delete(c.Context(), user, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
