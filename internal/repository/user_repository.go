package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"akses-lakbay/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error
	ListDeviceRegistrations(ctx context.Context) ([]domain.DeviceRegistration, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, is_admin, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.IsAdmin, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE email = $1 AND deleted_at IS NULL`
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`
	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, err
}

func (r *userRepository) UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET push_token = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, token)
	return err
}

func (r *userRepository) ListDeviceRegistrations(ctx context.Context) ([]domain.DeviceRegistration, error) {
	var devices []domain.DeviceRegistration
	query := `
		SELECT id, push_token FROM users
		WHERE push_token IS NOT NULL AND push_token <> '' AND deleted_at IS NULL`
	err := r.db.SelectContext(ctx, &devices, query)
	return devices, err
}

func (r *userRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT id FROM users WHERE is_active = true AND deleted_at IS NULL`
	err := r.db.SelectContext(ctx, &ids, query)
	return ids, err
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	var admins []domain.User
	query := `SELECT * FROM users WHERE is_admin = true AND is_active = true AND deleted_at IS NULL`
	err := r.db.SelectContext(ctx, &admins, query)
	return admins, err
}
