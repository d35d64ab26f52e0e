package handler

import "akses-lakbay/internal/service"

type Handlers struct {
	Auth         *AuthHandler
	Report       *ReportHandler
	Notification *NotificationHandler
	Navigation   *NavigationHandler
	User         *UserHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Report:       NewReportHandler(services.Report, services.Moderation),
		Notification: NewNotificationHandler(services.Notification),
		Navigation:   NewNavigationHandler(services.Navigation, services.Transit),
		User:         NewUserHandler(services.User),
	}
}
