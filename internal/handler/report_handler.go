package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/middleware"
	"akses-lakbay/internal/service/moderation"
	"akses-lakbay/internal/service/report"
)

type ReportHandler struct {
	reportService     report.Service
	moderationService moderation.Service
}

func NewReportHandler(reportService report.Service, moderationService moderation.Service) *ReportHandler {
	return &ReportHandler{
		reportService:     reportService,
		moderationService: moderationService,
	}
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.SubmitReportInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.reportService.Submit(c.Context(), userID, input)
	if err != nil {
		if isValidationError(err) {
			return middleware.BadRequest(err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var status *domain.ReportStatus
	if s := c.Query("status"); s != "" {
		st := domain.ReportStatus(s)
		status = &st
	}

	// Moderation queues are admin territory; everyone else sees only the
	// approved set.
	if !middleware.IsAdmin(c) {
		if status != nil && *status != domain.StatusApproved {
			return middleware.Forbidden("Only approved reports are visible")
		}
		approved := domain.StatusApproved
		status = &approved
	}

	result, err := h.reportService.List(c.Context(), status, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	reports, err := h.reportService.ListMine(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": reports})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return middleware.BadRequest("Invalid report ID")
	}

	found, err := h.reportService.GetByID(c.Context(), reportID)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			return middleware.NotFound("Report not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *ReportHandler) Heatmap(c *fiber.Ctx) error {
	points, err := h.reportService.Heatmap(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": points})
}

func (h *ReportHandler) Approve(c *fiber.Ctx) error {
	reviewerID := middleware.GetCurrentUserID(c)

	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return middleware.BadRequest("Invalid report ID")
	}

	var input domain.ApproveReportInput
	_ = c.BodyParser(&input)

	outcome, err := h.moderationService.Approve(c.Context(), reportID, reviewerID, input.ConfirmOverride)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			return middleware.NotFound("Report not found")
		}
		if errors.Is(err, domain.ErrReportNotPending) {
			return middleware.Conflict("Report is no longer pending")
		}
		return err
	}

	if outcome.RequiresConfirmation {
		return c.Status(fiber.StatusConflict).JSON(outcome)
	}

	return c.Status(fiber.StatusOK).JSON(outcome)
}

func (h *ReportHandler) Reject(c *fiber.Ctx) error {
	reviewerID := middleware.GetCurrentUserID(c)

	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return middleware.BadRequest("Invalid report ID")
	}

	var input domain.RejectReportInput
	_ = c.BodyParser(&input)

	outcome, err := h.moderationService.Reject(c.Context(), reportID, reviewerID, input.Confirm)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotPending) {
			return middleware.Conflict("Report is no longer pending")
		}
		return err
	}

	if outcome.RequiresConfirmation {
		return c.Status(fiber.StatusConflict).JSON(outcome)
	}

	return c.Status(fiber.StatusOK).JSON(outcome)
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	adminID := middleware.GetCurrentUserID(c)

	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return middleware.BadRequest("Invalid report ID")
	}

	var input domain.DeleteReportInput
	_ = c.BodyParser(&input)

	outcome, err := h.moderationService.DeleteApproved(c.Context(), reportID, adminID, input.Confirm)
	if err != nil {
		return err
	}

	if outcome.RequiresConfirmation {
		return c.Status(fiber.StatusConflict).JSON(outcome)
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *ReportHandler) RecentActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	entries, err := h.moderationService.RecentActivity(c.Context(), limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": entries})
}

func isValidationError(err error) bool {
	return errors.Is(err, report.ErrInvalidType) ||
		errors.Is(err, report.ErrInvalidCoordinate) ||
		errors.Is(err, report.ErrPhotoRequired) ||
		errors.Is(err, report.ErrInvalidFeature) ||
		errors.Is(err, report.ErrFeaturesNotAllowed)
}
