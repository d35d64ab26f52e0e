// Package report handles citizen submissions and the approved-report heatmap.
// Submissions always enter the moderation queue as pending; only moderation
// moves them anywhere else.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/repository"
	"akses-lakbay/internal/service/notification"
	"akses-lakbay/internal/service/photo"
)

var (
	ErrInvalidType        = errors.New("report type is invalid")
	ErrInvalidCoordinate  = errors.New("coordinate is outside the valid range")
	ErrPhotoRequired      = errors.New("a photo is required")
	ErrInvalidFeature     = errors.New("unknown accessibility feature tag")
	ErrFeaturesNotAllowed = errors.New("feature tags are only valid for partially accessible reports")
)

const (
	heatmapCacheKey = "reports:heatmap"
	heatmapCacheTTL = 5 * time.Minute
)

// Heatmap weights per report type; worse accessibility renders hotter.
var heatmapWeights = map[domain.ReportType]float64{
	domain.TypeAccessible:   0.25,
	domain.TypePartially:    0.5,
	domain.TypeInaccessible: 1.0,
}

type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input domain.SubmitReportInput) (*domain.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	List(ctx context.Context, status *domain.ReportStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Report], error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Report, error)
	Heatmap(ctx context.Context) ([]domain.HeatmapPoint, error)
	InvalidateHeatmap(ctx context.Context)
}

type service struct {
	reportRepo repository.ReportRepository
	photoSvc   photo.Service
	notifSvc   notification.Service
	redis      *redis.Client
}

func NewService(reportRepo repository.ReportRepository, photoSvc photo.Service, notifSvc notification.Service, redisClient *redis.Client) Service {
	return &service{
		reportRepo: reportRepo,
		photoSvc:   photoSvc,
		notifSvc:   notifSvc,
		redis:      redisClient,
	}
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, input domain.SubmitReportInput) (*domain.Report, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	reportID := uuid.New()

	storagePath, err := s.photoSvc.Store(ctx, reportID, input.PhotoPayload)
	if err != nil {
		return nil, err
	}

	features := make([]string, 0, len(input.Features))
	for _, f := range input.Features {
		features = append(features, string(f))
	}

	report := &domain.Report{
		ID:          reportID,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Type:        input.Type,
		Features:    features,
		Comment:     input.Comment,
		PhotoPath:   &storagePath,
		Status:      domain.StatusPending,
		SubmittedBy: userID,
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		_ = s.photoSvc.Remove(ctx, storagePath)
		return nil, err
	}

	go func() {
		if err := s.notifSvc.NotifyNewReport(context.Background(), report); err != nil {
			log.Printf("new-report fan-out failed for %s: %v", report.ID, err)
		}
	}()

	report.PhotoURL = s.photoSvc.PublicURL(storagePath)
	return report, nil
}

func validate(input domain.SubmitReportInput) error {
	if !input.Type.IsValid() {
		return ErrInvalidType
	}
	coord := domain.Report{Latitude: input.Latitude, Longitude: input.Longitude}
	if !coord.Coordinate().Valid() {
		return ErrInvalidCoordinate
	}
	if input.PhotoPayload == "" {
		return ErrPhotoRequired
	}
	if len(input.Features) > 0 && input.Type != domain.TypePartially {
		return ErrFeaturesNotAllowed
	}
	for _, f := range input.Features {
		if !f.IsValid() {
			return ErrInvalidFeature
		}
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachPhotoURL(report)
	return report, nil
}

func (s *service) List(ctx context.Context, status *domain.ReportStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Report], error) {
	reports, total, err := s.reportRepo.List(ctx, status, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Report]{}, err
	}
	for i := range reports {
		s.attachPhotoURL(&reports[i])
	}
	return domain.NewPaginatedResponse(reports, params.Page, params.PageSize, total), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Report, error) {
	reports, err := s.reportRepo.ListBySubmitter(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		s.attachPhotoURL(&reports[i])
	}
	return reports, nil
}

// Heatmap returns the approved reports as weighted points, served from Redis
// when a fresh snapshot exists.
func (s *service) Heatmap(ctx context.Context) ([]domain.HeatmapPoint, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, heatmapCacheKey).Result(); err == nil {
			var points []domain.HeatmapPoint
			if json.Unmarshal([]byte(cached), &points) == nil {
				return points, nil
			}
		}
	}

	approved, err := s.reportRepo.ListByStatus(ctx, domain.StatusApproved)
	if err != nil {
		return nil, err
	}

	points := make([]domain.HeatmapPoint, 0, len(approved))
	for _, r := range approved {
		points = append(points, domain.HeatmapPoint{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Type:      r.Type,
			Weight:    heatmapWeights[r.Type],
		})
	}

	if s.redis != nil {
		if raw, err := json.Marshal(points); err == nil {
			if err := s.redis.Set(ctx, heatmapCacheKey, raw, heatmapCacheTTL).Err(); err != nil {
				log.Printf("failed to cache heatmap: %v", err)
			}
		}
	}

	return points, nil
}

func (s *service) InvalidateHeatmap(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, heatmapCacheKey).Err(); err != nil {
		log.Printf("failed to invalidate heatmap cache: %v", err)
	}
}

func (s *service) attachPhotoURL(report *domain.Report) {
	if report.PhotoPath != nil {
		report.PhotoURL = s.photoSvc.PublicURL(*report.PhotoPath)
	}
}
