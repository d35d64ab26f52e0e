package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/middleware"
	"akses-lakbay/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return middleware.NotFound("User not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *UserHandler) UpdatePushToken(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.UpdatePushTokenInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Token == "" {
		return middleware.BadRequest("Push token is required")
	}

	if err := h.userService.UpdatePushToken(c.Context(), userID, input.Token); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
