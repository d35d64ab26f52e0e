package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"akses-lakbay/internal/domain"
)

// ErrConflictRemains is returned when an approval's commit-time radius check
// finds an approved report inside the conflict radius. The caller decides
// whether to retry as an override.
var ErrConflictRemains = errors.New("an approved report exists within the conflict radius")

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListByStatus(ctx context.Context, status domain.ReportStatus) ([]domain.Report, error)
	ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]domain.Report, error)
	List(ctx context.Context, status *domain.ReportStatus, params domain.PaginationParams) ([]domain.Report, int64, error)

	// ApproveIfClear marks a pending report approved inside a single
	// transaction that re-runs the conflict-radius check against approved
	// rows locked FOR UPDATE. If a conflicting report is found the
	// transaction rolls back and its id is returned with ErrConflictRemains.
	ApproveIfClear(ctx context.Context, id, reviewerID uuid.UUID, radiusM float64) (*uuid.UUID, error)

	// ApproveReplacing deletes the conflicting approved report and approves
	// the pending one as a single transaction. The commit-time check still
	// runs: if a different approved report also conflicts, the transaction
	// rolls back with ErrConflictRemains.
	ApproveReplacing(ctx context.Context, id, conflictID, reviewerID uuid.UUID, radiusM float64) error

	// Delete removes a report outright. Deleting a missing report is a no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (id, latitude, longitude, type, features, comment, photo_path, status, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING submitted_at`

	return r.db.QueryRowxContext(ctx, query,
		report.ID, report.Latitude, report.Longitude, report.Type, report.Features,
		report.Comment, report.PhotoPath, report.Status, report.SubmittedBy,
	).Scan(&report.SubmittedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	var report domain.Report
	query := `SELECT * FROM reports WHERE id = $1`
	err := r.db.GetContext(ctx, &report, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) ListByStatus(ctx context.Context, status domain.ReportStatus) ([]domain.Report, error) {
	var reports []domain.Report
	query := `SELECT * FROM reports WHERE status = $1 ORDER BY submitted_at DESC`
	err := r.db.SelectContext(ctx, &reports, query, status)
	return reports, err
}

func (r *reportRepository) ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]domain.Report, error) {
	var reports []domain.Report
	query := `SELECT * FROM reports WHERE submitted_by = $1 ORDER BY submitted_at DESC`
	err := r.db.SelectContext(ctx, &reports, query, userID)
	return reports, err
}

func (r *reportRepository) List(ctx context.Context, status *domain.ReportStatus, params domain.PaginationParams) ([]domain.Report, int64, error) {
	params.Validate()

	var total int64
	var reports []domain.Report

	if status != nil {
		countQuery := `SELECT COUNT(*) FROM reports WHERE status = $1`
		if err := r.db.GetContext(ctx, &total, countQuery, *status); err != nil {
			return nil, 0, err
		}

		query := `
			SELECT * FROM reports
			WHERE status = $1
			ORDER BY submitted_at DESC
			LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &reports, query, *status, params.PageSize, params.Offset())
		return reports, total, err
	}

	countQuery := `SELECT COUNT(*) FROM reports`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM reports
		ORDER BY submitted_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &reports, query, params.PageSize, params.Offset())
	return reports, total, err
}

// conflictQuery finds the nearest approved report within radiusM meters of a
// point, locking the matching rows so concurrent approvals serialize. The
// haversine runs in SQL so the check and the mutation share one snapshot.
const conflictQuery = `
	SELECT id FROM (
		SELECT id, reviewed_at,
			12742000 * asin(sqrt(
				power(sin(radians(latitude - $1) / 2), 2) +
				cos(radians($1)) * cos(radians(latitude)) *
				power(sin(radians(longitude - $2) / 2), 2)
			)) AS distance_m
		FROM reports
		WHERE status = 'approved' AND id <> $3
		FOR UPDATE
	) candidates
	WHERE distance_m < $4
	ORDER BY distance_m ASC, reviewed_at ASC
	LIMIT 1`

func (r *reportRepository) ApproveIfClear(ctx context.Context, id, reviewerID uuid.UUID, radiusM float64) (*uuid.UUID, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	report, err := lockPending(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	var conflictID uuid.UUID
	err = tx.GetContext(ctx, &conflictID, conflictQuery, report.Latitude, report.Longitude, id, radiusM)
	if err == nil {
		return &conflictID, ErrConflictRemains
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if err := approve(ctx, tx, id, reviewerID); err != nil {
		return nil, err
	}

	return nil, tx.Commit()
}

func (r *reportRepository) ApproveReplacing(ctx context.Context, id, conflictID, reviewerID uuid.UUID, radiusM float64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	report, err := lockPending(ctx, tx, id)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE id = $1 AND status = 'approved'`, conflictID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The conflict vanished under us (concurrent override or admin
		// delete). The approval can still proceed if nothing else conflicts.
		log.Printf("override target %s already gone, approving without delete", conflictID)
	}

	var remaining uuid.UUID
	err = tx.GetContext(ctx, &remaining, conflictQuery, report.Latitude, report.Longitude, id, radiusM)
	if err == nil {
		return ErrConflictRemains
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if err := approve(ctx, tx, id, reviewerID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	return err
}

func lockPending(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Report, error) {
	var report domain.Report
	err := tx.GetContext(ctx, &report, `SELECT * FROM reports WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	if report.Status != domain.StatusPending {
		return nil, domain.ErrReportNotPending
	}
	return &report, nil
}

func approve(ctx context.Context, tx *sqlx.Tx, id, reviewerID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE reports
		SET status = 'approved', reviewed_by = $2, reviewed_at = NOW()
		WHERE id = $1`, id, reviewerID)
	return err
}
