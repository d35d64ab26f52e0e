package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"akses-lakbay/internal/config"
	"akses-lakbay/internal/maps"
	"akses-lakbay/internal/repository"
	"akses-lakbay/internal/service/auth"
	"akses-lakbay/internal/service/email"
	"akses-lakbay/internal/service/moderation"
	"akses-lakbay/internal/service/navigation"
	"akses-lakbay/internal/service/notification"
	"akses-lakbay/internal/service/photo"
	"akses-lakbay/internal/service/push"
	"akses-lakbay/internal/service/report"
	"akses-lakbay/internal/service/transit"
	"akses-lakbay/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Report       report.Service
	Moderation   moderation.Service
	Notification notification.Service
	Navigation   navigation.Service
	Transit      transit.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	emailSvc := email.NewService(cfg)
	pushSvc := push.NewService(cfg)
	notifSvc := notification.NewService(repos.Notification, repos.User, pushSvc, emailSvc)
	photoSvc := photo.NewService(minioClient, cfg)

	reportSvc := report.NewService(repos.Report, photoSvc, notifSvc, redisClient)

	moderationSvc := moderation.NewService(repos.Report, repos.AuditLog, notifSvc, cfg.ConflictRadiusM)
	moderationSvc.SetHeatmapCache(reportSvc)

	return &Services{
		Auth:         auth.NewService(repos.User, repos.Session, cfg),
		User:         user.NewService(repos.User),
		Report:       reportSvc,
		Moderation:   moderationSvc,
		Notification: notifSvc,
		Navigation:   navigation.NewService(maps.NewHTTPClient(cfg), cfg.RoadSnapRadiusM),
		Transit:      transit.NewService(),
	}
}
