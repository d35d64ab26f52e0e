package user

import (
	"context"

	"github.com/google/uuid"

	"akses-lakbay/internal/domain"
	"akses-lakbay/internal/repository"
)

type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error
}

type service struct {
	userRepo repository.UserRepository
}

func NewService(userRepo repository.UserRepository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *service) UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error {
	return s.userRepo.UpdatePushToken(ctx, id, token)
}
