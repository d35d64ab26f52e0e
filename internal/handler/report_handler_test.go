package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/middleware"
	"akses-lakbay/internal/service/moderation"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) Submit(ctx context.Context, userID uuid.UUID, input domain.SubmitReportInput) (*domain.Report, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportService) List(ctx context.Context, status *domain.ReportStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Report], error) {
	args := m.Called(ctx, status, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Report]), args.Error(1)
}

func (m *mockReportService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Report, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *mockReportService) Heatmap(ctx context.Context) ([]domain.HeatmapPoint, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.HeatmapPoint), args.Error(1)
}

func (m *mockReportService) InvalidateHeatmap(ctx context.Context) {
	m.Called(ctx)
}

type mockModerationService struct {
	mock.Mock
}

func (m *mockModerationService) Approve(ctx context.Context, reportID, reviewerID uuid.UUID, confirmOverride bool) (*moderation.Outcome, error) {
	args := m.Called(ctx, reportID, reviewerID, confirmOverride)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*moderation.Outcome), args.Error(1)
}

func (m *mockModerationService) Reject(ctx context.Context, reportID, reviewerID uuid.UUID, confirm bool) (*moderation.Outcome, error) {
	args := m.Called(ctx, reportID, reviewerID, confirm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*moderation.Outcome), args.Error(1)
}

func (m *mockModerationService) DeleteApproved(ctx context.Context, reportID, adminID uuid.UUID, confirm bool) (*moderation.Outcome, error) {
	args := m.Called(ctx, reportID, adminID, confirm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*moderation.Outcome), args.Error(1)
}

func (m *mockModerationService) RecentActivity(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *mockModerationService) SetHeatmapCache(cache moderation.HeatmapCache) {
	m.Called(cache)
}

// newReportApp mounts the report routes behind a stub auth layer that
// injects the given user, the way AuthRequired would.
func newReportApp(reportSvc *mockReportService, modSvc *mockModerationService, user *domain.User) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	h := NewReportHandler(reportSvc, modSvc)

	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserContextKey, user)
		c.Locals(middleware.UserIDContextKey, user.ID)
		return c.Next()
	})

	app.Get("/reports", h.List)
	app.Delete("/reports/:reportId", h.Delete)
	return app
}

func TestReportHandler_List(t *testing.T) {
	t.Run("Non-Admin Defaults To Approved", func(t *testing.T) {
		reportSvc := new(mockReportService)
		citizen := &domain.User{ID: uuid.New()}

		reportSvc.On("List", mock.Anything, mock.MatchedBy(func(s *domain.ReportStatus) bool {
			return s != nil && *s == domain.StatusApproved
		}), mock.Anything).Return(domain.PaginatedResponse[domain.Report]{}, nil).Once()

		app := newReportApp(reportSvc, new(mockModerationService), citizen)

		req, _ := http.NewRequest(http.MethodGet, "/reports", nil)
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		reportSvc.AssertExpectations(t)
	})

	t.Run("Non-Admin Cannot See The Moderation Queue", func(t *testing.T) {
		reportSvc := new(mockReportService)
		citizen := &domain.User{ID: uuid.New()}

		app := newReportApp(reportSvc, new(mockModerationService), citizen)

		req, _ := http.NewRequest(http.MethodGet, "/reports?status=pending", nil)
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		reportSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Admin Status Filter Passes Through", func(t *testing.T) {
		reportSvc := new(mockReportService)
		admin := &domain.User{ID: uuid.New(), IsAdmin: true}

		reportSvc.On("List", mock.Anything, mock.MatchedBy(func(s *domain.ReportStatus) bool {
			return s != nil && *s == domain.StatusPending
		}), mock.Anything).Return(domain.PaginatedResponse[domain.Report]{}, nil).Once()

		app := newReportApp(reportSvc, new(mockModerationService), admin)

		req, _ := http.NewRequest(http.MethodGet, "/reports?status=pending", nil)
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		reportSvc.AssertExpectations(t)
	})
}

func TestReportHandler_Delete(t *testing.T) {
	admin := &domain.User{ID: uuid.New(), IsAdmin: true}
	reportID := uuid.New()

	t.Run("Without Confirmation Returns Conflict", func(t *testing.T) {
		modSvc := new(mockModerationService)

		modSvc.On("DeleteApproved", mock.Anything, reportID, admin.ID, false).
			Return(&moderation.Outcome{RequiresConfirmation: true}, nil).Once()

		app := newReportApp(new(mockReportService), modSvc, admin)

		req, _ := http.NewRequest(http.MethodDelete, "/reports/"+reportID.String(), nil)
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		modSvc.AssertExpectations(t)
	})

	t.Run("Confirmed Delete Returns No Content", func(t *testing.T) {
		modSvc := new(mockModerationService)

		modSvc.On("DeleteApproved", mock.Anything, reportID, admin.ID, true).
			Return(&moderation.Outcome{}, nil).Once()

		app := newReportApp(new(mockReportService), modSvc, admin)

		body := bytes.NewBufferString(`{"confirm": true}`)
		req, _ := http.NewRequest(http.MethodDelete, "/reports/"+reportID.String(), body)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		modSvc.AssertExpectations(t)
	})
}
