// Package notification persists a copy of each broadcast event per recipient
// and fans out push delivery to every registered device. Delivery to any
// single device is best effort: failures are logged and never abort the
// batch or the action that triggered it.
package notification

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/repository"
	"akses-lakbay/internal/service/email"
	"akses-lakbay/internal/service/push"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	NotifyNewReport(ctx context.Context, report *domain.Report) error
	NotifyReportApproved(ctx context.Context, report *domain.Report, reviewerID uuid.UUID) error
	NotifyReportOverridden(ctx context.Context, report *domain.Report, supersededID, reviewerID uuid.UUID) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	pushSvc   push.Sender
	emailSvc  email.Service
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, pushSvc push.Sender, emailSvc email.Service) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		pushSvc:   pushSvc,
		emailSvc:  emailSvc,
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.List(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, userID, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) NotifyNewReport(ctx context.Context, report *domain.Report) error {
	notif := &domain.Notification{
		ID:      uuid.New(),
		Type:    domain.NotifNewFeedback,
		Title:   "New accessibility report",
		Body:    fmt.Sprintf("A new %s location was reported and is awaiting review", report.Type),
		Data:    domain.NotificationData{ReportID: report.ID}.Marshal(),
		Status:  domain.NotifUnread,
		ActorID: report.SubmittedBy,
	}

	if err := s.broadcast(ctx, notif); err != nil {
		return err
	}

	s.emailModerators(report)
	return nil
}

func (s *service) NotifyReportApproved(ctx context.Context, report *domain.Report, reviewerID uuid.UUID) error {
	notif := &domain.Notification{
		ID:      uuid.New(),
		Type:    domain.NotifFeedbackApproved,
		Title:   "Accessibility report approved",
		Body:    fmt.Sprintf("A %s location is now visible on the map", report.Type),
		Data:    domain.NotificationData{ReportID: report.ID}.Marshal(),
		Status:  domain.NotifUnread,
		ActorID: reviewerID,
	}

	if err := s.broadcast(ctx, notif); err != nil {
		return err
	}

	s.emailSubmitter(report, "approved")
	return nil
}

func (s *service) NotifyReportOverridden(ctx context.Context, report *domain.Report, supersededID, reviewerID uuid.UUID) error {
	notif := &domain.Notification{
		ID:    uuid.New(),
		Type:  domain.NotifFeedbackUpdated,
		Title: "Accessibility report updated",
		Body:  fmt.Sprintf("A %s report replaced an older one at the same location", report.Type),
		Data: domain.NotificationData{
			ReportID:           report.ID,
			SupersededReportID: &supersededID,
		}.Marshal(),
		Status:  domain.NotifUnread,
		ActorID: reviewerID,
	}
	return s.broadcast(ctx, notif)
}

// broadcast persists one row per recipient so each user owns their read
// state, then pushes to every registered device except the actor's own.
// Row inserts are best effort per recipient; a failed insert skips that
// user's push. Sends run as one concurrent batch, each outcome independent.
func (s *service) broadcast(ctx context.Context, notif *domain.Notification) error {
	recipients, err := s.userRepo.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipients: %w", err)
	}

	rows := make(map[uuid.UUID]uuid.UUID, len(recipients))
	for _, recipientID := range recipients {
		if recipientID == notif.ActorID {
			continue
		}

		row := *notif
		row.ID = uuid.New()
		row.RecipientID = recipientID
		if err := s.notifRepo.Create(ctx, &row); err != nil {
			log.Printf("notification row for user %s failed: %v", recipientID, err)
			continue
		}
		rows[recipientID] = row.ID
	}

	devices, err := s.userRepo.ListDeviceRegistrations(ctx)
	if err != nil {
		log.Printf("fan-out skipped, cannot list devices: %v", err)
		return nil
	}

	var wg sync.WaitGroup
	for _, device := range devices {
		rowID, ok := rows[device.UserID]
		if !ok || device.Token == "" {
			continue
		}

		data := map[string]string{
			"notification_id": rowID.String(),
			"type":            string(notif.Type),
		}

		wg.Add(1)
		go func(d domain.DeviceRegistration) {
			defer wg.Done()
			if err := s.pushSvc.Send(context.Background(), d.Token, notif.Title, notif.Body, data); err != nil {
				log.Printf("push to user %s failed: %v", d.UserID, err)
			}
		}(device)
	}
	wg.Wait()

	return nil
}

// emailSubmitter mails the report's author about a moderation decision.
func (s *service) emailSubmitter(report *domain.Report, decision string) {
	go func() {
		ctx := context.Background()

		submitter, err := s.userRepo.GetByID(ctx, report.SubmittedBy)
		if err != nil || submitter == nil || submitter.Email == "" {
			return
		}

		if err := s.emailSvc.SendDecisionEmail(ctx, submitter.Email, submitter.FullName, decision); err != nil {
			log.Printf("decision email to %s failed: %v", submitter.Email, err)
		}
	}()
}

// emailModerators mails every admin about a pending submission. Fully
// asynchronous; failures only show up in the log.
func (s *service) emailModerators(report *domain.Report) {
	go func() {
		ctx := context.Background()

		admins, err := s.userRepo.ListAdmins(ctx)
		if err != nil {
			log.Printf("cannot list admins for email alert: %v", err)
			return
		}

		submitter, err := s.userRepo.GetByID(ctx, report.SubmittedBy)
		if err != nil || submitter == nil {
			return
		}

		for _, admin := range admins {
			if admin.ID == report.SubmittedBy || admin.Email == "" {
				continue
			}
			if err := s.emailSvc.SendNewSubmissionEmail(ctx, admin.Email, admin.FullName, submitter.FullName, string(report.Type)); err != nil {
				log.Printf("moderator email to %s failed: %v", admin.Email, err)
			}
		}
	}()
}
