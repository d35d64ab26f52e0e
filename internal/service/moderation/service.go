// Package moderation drives a report's pending → approved/rejected lifecycle.
// Approval enforces the conflict-radius invariant: at most one approved
// report may exist within the radius of any other. The radius check and the
// mutation commit together inside one repository transaction; the in-memory
// pre-check here only decides whether the operator must confirm an override.
package moderation

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/repository"
	"akses-lakbay/internal/service/notification"
)

// HeatmapCache is implemented by the report service; every mutation of the
// approved set invalidates the cached heatmap snapshot.
type HeatmapCache interface {
	InvalidateHeatmap(ctx context.Context)
}

// Outcome describes the result of a moderation action. When
// RequiresConfirmation is set no state was changed: the operator must repeat
// the call with the confirmation flag.
type Outcome struct {
	RequiresConfirmation bool           `json:"requires_confirmation"`
	Conflict             *domain.Report `json:"conflict,omitempty"`
	Report               *domain.Report `json:"report,omitempty"`
}

type Service interface {
	Approve(ctx context.Context, reportID, reviewerID uuid.UUID, confirmOverride bool) (*Outcome, error)
	Reject(ctx context.Context, reportID, reviewerID uuid.UUID, confirm bool) (*Outcome, error)
	DeleteApproved(ctx context.Context, reportID, adminID uuid.UUID, confirm bool) (*Outcome, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.AuditLog, error)
	SetHeatmapCache(cache HeatmapCache)
}

type service struct {
	reportRepo repository.ReportRepository
	auditRepo  repository.AuditLogRepository
	notifSvc   notification.Service
	cache      HeatmapCache
	radiusM    float64
}

func NewService(reportRepo repository.ReportRepository, auditRepo repository.AuditLogRepository, notifSvc notification.Service, radiusM float64) Service {
	return &service{
		reportRepo: reportRepo,
		auditRepo:  auditRepo,
		notifSvc:   notifSvc,
		radiusM:    radiusM,
	}
}

func (s *service) SetHeatmapCache(cache HeatmapCache) {
	s.cache = cache
}

func (s *service) Approve(ctx context.Context, reportID, reviewerID uuid.UUID, confirmOverride bool) (*Outcome, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.StatusPending {
		return nil, domain.ErrReportNotPending
	}

	approved, err := s.reportRepo.ListByStatus(ctx, domain.StatusApproved)
	if err != nil {
		return nil, err
	}

	conflict := FindConflict(report.Coordinate(), approved, s.radiusM)
	if conflict != nil && !confirmOverride {
		return &Outcome{RequiresConfirmation: true, Conflict: conflict}, nil
	}

	if conflict != nil {
		return s.override(ctx, report, conflict, reviewerID)
	}

	conflictID, err := s.reportRepo.ApproveIfClear(ctx, reportID, reviewerID, s.radiusM)
	if errors.Is(err, repository.ErrConflictRemains) {
		// A conflicting approval committed between the pre-check and ours.
		// Surface it exactly like a pre-check hit so the operator can confirm.
		late, lerr := s.reportRepo.GetByID(ctx, *conflictID)
		if lerr != nil {
			return nil, lerr
		}
		if !confirmOverride {
			return &Outcome{RequiresConfirmation: true, Conflict: late}, nil
		}
		return s.override(ctx, report, late, reviewerID)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	s.afterApproval(ctx, updated, reviewerID, nil)
	return &Outcome{Report: updated}, nil
}

func (s *service) override(ctx context.Context, report, conflict *domain.Report, reviewerID uuid.UUID) (*Outcome, error) {
	err := s.reportRepo.ApproveReplacing(ctx, report.ID, conflict.ID, reviewerID, s.radiusM)
	if errors.Is(err, repository.ErrConflictRemains) {
		// Yet another approved report sits inside the radius. Ask again with
		// the fresh conflict rather than silently stacking overrides.
		approved, lerr := s.reportRepo.ListByStatus(ctx, domain.StatusApproved)
		if lerr != nil {
			return nil, lerr
		}
		return &Outcome{
			RequiresConfirmation: true,
			Conflict:             FindConflict(report.Coordinate(), approved, s.radiusM),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.reportRepo.GetByID(ctx, report.ID)
	if err != nil {
		return nil, err
	}

	s.afterApproval(ctx, updated, reviewerID, &conflict.ID)
	return &Outcome{Report: updated}, nil
}

// afterApproval handles the side effects of a committed approval: fan-out,
// audit, cache invalidation. None of them can fail the transition.
func (s *service) afterApproval(ctx context.Context, report *domain.Report, reviewerID uuid.UUID, supersededID *uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateHeatmap(ctx)
	}

	go func() {
		ctx := context.Background()
		var err error
		if supersededID != nil {
			err = s.notifSvc.NotifyReportOverridden(ctx, report, *supersededID, reviewerID)
		} else {
			err = s.notifSvc.NotifyReportApproved(ctx, report, reviewerID)
		}
		if err != nil {
			log.Printf("approval fan-out failed for report %s: %v", report.ID, err)
		}
	}()

	action := domain.AuditApproveReport
	detail := domain.NotificationData{ReportID: report.ID}
	if supersededID != nil {
		action = domain.AuditOverrideReport
		detail.SupersededReportID = supersededID
	}
	s.logAudit(ctx, reviewerID, action, report.ID, detail)
}

func (s *service) Reject(ctx context.Context, reportID, reviewerID uuid.UUID, confirm bool) (*Outcome, error) {
	if !confirm {
		return &Outcome{RequiresConfirmation: true}, nil
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if errors.Is(err, domain.ErrReportNotFound) {
		// Already gone; rejection is idempotent.
		return &Outcome{}, nil
	}
	if err != nil {
		return nil, err
	}
	if report.Status != domain.StatusPending {
		return nil, domain.ErrReportNotPending
	}

	if err := s.reportRepo.Delete(ctx, reportID); err != nil {
		return nil, err
	}

	s.logAudit(ctx, reviewerID, domain.AuditRejectReport, reportID, domain.NotificationData{ReportID: reportID})
	return &Outcome{}, nil
}

func (s *service) DeleteApproved(ctx context.Context, reportID, adminID uuid.UUID, confirm bool) (*Outcome, error) {
	// Deletion is irreversible, so it needs the same explicit confirmation
	// step as rejection.
	if !confirm {
		return &Outcome{RequiresConfirmation: true}, nil
	}

	// Deleting an already-missing report is a no-op success.
	if err := s.reportRepo.Delete(ctx, reportID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateHeatmap(ctx)
	}
	s.logAudit(ctx, adminID, domain.AuditDeleteApproved, reportID, domain.NotificationData{ReportID: reportID})
	return &Outcome{}, nil
}

func (s *service) RecentActivity(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	return s.auditRepo.ListRecent(ctx, limit)
}

func (s *service) logAudit(ctx context.Context, userID uuid.UUID, action string, reportID uuid.UUID, detail domain.NotificationData) {
	entry := &domain.AuditLog{
		ID:       uuid.New(),
		UserID:   userID,
		Action:   action,
		ReportID: reportID,
		Detail:   detail.Marshal(),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("failed to write audit log for %s: %v", action, err)
	}
}
