package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/middleware"
	"akses-lakbay/internal/pkg/geo"
	"akses-lakbay/internal/service/navigation"
	"akses-lakbay/internal/service/transit"
)

type NavigationHandler struct {
	navService     navigation.Service
	transitService transit.Service
}

func NewNavigationHandler(navService navigation.Service, transitService transit.Service) *NavigationHandler {
	return &NavigationHandler{
		navService:     navService,
		transitService: transitService,
	}
}

func (h *NavigationHandler) Routes(c *fiber.Ctx) error {
	var req domain.NavigationRequest
	if err := c.BodyParser(&req); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if !req.Rider.Valid() || !req.Destination.Valid() {
		return middleware.BadRequest("Rider and destination coordinates are required")
	}
	for _, mode := range req.Modes {
		if !mode.IsValid() {
			return middleware.BadRequest("Unknown travel mode: " + string(mode))
		}
	}
	if req.SelectedMode != "" && !req.SelectedMode.IsValid() {
		return middleware.BadRequest("Unknown travel mode: " + string(req.SelectedMode))
	}

	plan, err := h.navService.Aggregate(c.Context(), req)
	if err != nil {
		if errors.Is(err, navigation.ErrNoModes) {
			return middleware.BadRequest("At least one travel mode is required")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(plan)
}

func (h *NavigationHandler) SuggestTransit(c *fiber.Ctx) error {
	destination := c.Query("destination")
	if destination == "" {
		return middleware.BadRequest("Destination text is required")
	}

	if c.Query("lat") == "" || c.Query("lng") == "" {
		return middleware.BadRequest("Rider coordinates are required")
	}
	rider := geo.Coordinate{
		Latitude:  c.QueryFloat("lat"),
		Longitude: c.QueryFloat("lng"),
	}
	if !rider.Valid() {
		return middleware.BadRequest("Rider coordinates are out of range")
	}

	suggestion := h.transitService.Suggest(destination, rider)

	return c.Status(fiber.StatusOK).JSON(suggestion)
}

func (h *NavigationHandler) TransitRoutes(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": h.transitService.Routes(),
	})
}
