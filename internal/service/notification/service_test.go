package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"akses-lakbay/internal/domain"
)

type mockNotifRepo struct {
	mock.Mock
}

func (m *mockNotifRepo) Create(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *mockNotifRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *mockNotifRepo) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *mockNotifRepo) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *mockNotifRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockNotifRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *mockUserRepo) ListDeviceRegistrations(ctx context.Context) ([]domain.DeviceRegistration, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DeviceRegistration), args.Error(1)
}

func (m *mockUserRepo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockUserRepo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// recordingSender captures every push it is asked to deliver.
type recordingSender struct {
	mu     sync.Mutex
	sent   []string
	failOn map[string]error
}

func (r *recordingSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failOn[token]; ok {
		return err
	}
	r.sent = append(r.sent, token)
	return nil
}

func (r *recordingSender) tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendNewSubmissionEmail(ctx context.Context, toEmail, adminName, submitterName, reportType string) error {
	args := m.Called(ctx, toEmail, adminName, submitterName, reportType)
	return args.Error(0)
}

func (m *mockEmailService) SendDecisionEmail(ctx context.Context, toEmail, submitterName, decision string) error {
	args := m.Called(ctx, toEmail, submitterName, decision)
	return args.Error(0)
}

func TestNotificationService_Broadcast(t *testing.T) {
	ctx := context.Background()

	submitterID := uuid.New()
	otherID := uuid.New()
	thirdID := uuid.New()

	report := &domain.Report{
		ID:          uuid.New(),
		Type:        domain.TypeInaccessible,
		Status:      domain.StatusPending,
		SubmittedBy: submitterID,
	}

	t.Run("One Row Per Recipient, Actor Skipped", func(t *testing.T) {
		notifRepo := new(mockNotifRepo)
		userRepo := new(mockUserRepo)
		sender := &recordingSender{}
		emailSvc := new(mockEmailService)

		userRepo.On("ListActiveIDs", ctx).Return([]uuid.UUID{submitterID, otherID, thirdID}, nil).Once()

		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Type == domain.NotifNewFeedback &&
				n.ActorID == submitterID &&
				n.RecipientID != submitterID
		})).Return(nil).Twice()

		userRepo.On("ListDeviceRegistrations", ctx).Return([]domain.DeviceRegistration{
			{UserID: submitterID, Token: "tok-submitter"},
			{UserID: otherID, Token: "tok-other"},
			{UserID: thirdID, Token: ""},
		}, nil).Once()

		// Moderator email fan-out runs in the background.
		userRepo.On("ListAdmins", mock.Anything).Return([]domain.User{}, nil).Maybe()
		userRepo.On("GetByID", mock.Anything, submitterID).Return(&domain.User{ID: submitterID}, nil).Maybe()

		svc := NewService(notifRepo, userRepo, sender, emailSvc)

		err := svc.NotifyNewReport(ctx, report)

		assert.NoError(t, err)
		assert.Equal(t, []string{"tok-other"}, sender.tokens())
		notifRepo.AssertExpectations(t)
	})

	t.Run("One Failed Device Does Not Abort The Batch", func(t *testing.T) {
		notifRepo := new(mockNotifRepo)
		userRepo := new(mockUserRepo)
		sender := &recordingSender{failOn: map[string]error{"tok-bad": errors.New("expo 500")}}
		emailSvc := new(mockEmailService)
		reviewerID := uuid.New()

		userRepo.On("ListActiveIDs", ctx).Return([]uuid.UUID{otherID, thirdID}, nil).Once()
		notifRepo.On("Create", ctx, mock.Anything).Return(nil).Twice()
		userRepo.On("ListDeviceRegistrations", ctx).Return([]domain.DeviceRegistration{
			{UserID: otherID, Token: "tok-bad"},
			{UserID: thirdID, Token: "tok-good"},
		}, nil).Once()
		userRepo.On("GetByID", mock.Anything, submitterID).Return(&domain.User{
			ID:    submitterID,
			Email: "citizen@example.com",
		}, nil).Maybe()
		emailSvc.On("SendDecisionEmail", mock.Anything, "citizen@example.com", mock.Anything, "approved").Return(nil).Maybe()

		svc := NewService(notifRepo, userRepo, sender, emailSvc)

		err := svc.NotifyReportApproved(ctx, report, reviewerID)

		assert.NoError(t, err)
		assert.Equal(t, []string{"tok-good"}, sender.tokens())
	})

	t.Run("Recipient Listing Failure Aborts The Fan-Out", func(t *testing.T) {
		notifRepo := new(mockNotifRepo)
		userRepo := new(mockUserRepo)
		sender := &recordingSender{}

		userRepo.On("ListActiveIDs", ctx).Return(nil, errors.New("db down")).Once()

		svc := NewService(notifRepo, userRepo, sender, new(mockEmailService))

		err := svc.NotifyNewReport(ctx, report)

		assert.Error(t, err)
		assert.Empty(t, sender.tokens())
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "ListDeviceRegistrations", mock.Anything)
	})

	t.Run("Failed Row Insert Skips Only That Recipient", func(t *testing.T) {
		notifRepo := new(mockNotifRepo)
		userRepo := new(mockUserRepo)
		sender := &recordingSender{}

		userRepo.On("ListActiveIDs", ctx).Return([]uuid.UUID{otherID, thirdID}, nil).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.RecipientID == otherID
		})).Return(errors.New("insert failed")).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.RecipientID == thirdID
		})).Return(nil).Once()
		userRepo.On("ListDeviceRegistrations", ctx).Return([]domain.DeviceRegistration{
			{UserID: otherID, Token: "tok-other"},
			{UserID: thirdID, Token: "tok-third"},
		}, nil).Once()
		userRepo.On("ListAdmins", mock.Anything).Return([]domain.User{}, nil).Maybe()
		userRepo.On("GetByID", mock.Anything, submitterID).Return(&domain.User{ID: submitterID}, nil).Maybe()

		svc := NewService(notifRepo, userRepo, sender, new(mockEmailService))

		err := svc.NotifyNewReport(ctx, report)

		assert.NoError(t, err)
		assert.Equal(t, []string{"tok-third"}, sender.tokens())
		notifRepo.AssertExpectations(t)
	})

	t.Run("Override Carries Both Report IDs", func(t *testing.T) {
		notifRepo := new(mockNotifRepo)
		userRepo := new(mockUserRepo)
		sender := &recordingSender{}
		supersededID := uuid.New()
		reviewerID := uuid.New()

		userRepo.On("ListActiveIDs", ctx).Return([]uuid.UUID{otherID}, nil).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Type == domain.NotifFeedbackUpdated &&
				string(n.Data) != "" &&
				n.ActorID == reviewerID &&
				n.RecipientID == otherID
		})).Return(nil).Once()
		userRepo.On("ListDeviceRegistrations", ctx).Return([]domain.DeviceRegistration{}, nil).Once()

		svc := NewService(notifRepo, userRepo, sender, new(mockEmailService))

		err := svc.NotifyReportOverridden(ctx, report, supersededID, reviewerID)

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)
	})
}

func TestNotificationService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("List Wraps Pagination", func(t *testing.T) {
		notifRepo := new(mockNotifRepo)
		userID := uuid.New()
		params := domain.PaginationParams{Page: 2, PageSize: 10}

		notifRepo.On("List", ctx, userID, true, params).Return([]domain.Notification{
			{ID: uuid.New(), RecipientID: userID, Status: domain.NotifUnread, CreatedAt: time.Now()},
		}, int64(11), nil).Once()

		svc := NewService(notifRepo, new(mockUserRepo), &recordingSender{}, new(mockEmailService))

		result, err := svc.List(ctx, userID, true, params)

		assert.NoError(t, err)
		assert.Len(t, result.Data, 1)
		assert.Equal(t, int64(11), result.TotalItems)
		assert.Equal(t, 2, result.TotalPages)
		assert.True(t, result.HasPrev)
	})

	t.Run("Unread Count Passes Through", func(t *testing.T) {
		notifRepo := new(mockNotifRepo)
		userID := uuid.New()
		notifRepo.On("CountUnread", ctx, userID).Return(int64(7), nil).Once()

		svc := NewService(notifRepo, new(mockUserRepo), &recordingSender{}, new(mockEmailService))

		count, err := svc.GetUnreadCount(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})

	t.Run("Mark All As Read Touches Only The Caller", func(t *testing.T) {
		notifRepo := new(mockNotifRepo)
		alice := uuid.New()
		bob := uuid.New()

		notifRepo.On("MarkAllAsRead", ctx, alice).Return(nil).Once()
		notifRepo.On("CountUnread", ctx, bob).Return(int64(3), nil).Once()

		svc := NewService(notifRepo, new(mockUserRepo), &recordingSender{}, new(mockEmailService))

		assert.NoError(t, svc.MarkAllAsRead(ctx, alice))

		count, err := svc.GetUnreadCount(ctx, bob)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)

		notifRepo.AssertNotCalled(t, "MarkAllAsRead", ctx, bob)
	})
}
