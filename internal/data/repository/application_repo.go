package repository

import (
	"context"
	"fmt"

	"paradise-tours/internal/data/entity"
	"paradise-tours/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *entity.TourGuideApplication) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TourGuideApplication, error)
	FindAll(ctx context.Context) ([]*entity.TourGuideApplication, error)
	// FindApprovedByUserID returns the approved application backing a
	// guide's public profile, or nil.
	FindApprovedByUserID(ctx context.Context, userID uuid.UUID) (*entity.TourGuideApplication, error)
	// Decide moves a pending application to its terminal status. Approval
	// promotes the applicant to the tourguide role in the same transaction,
	// seeding the guide profile fields the user left empty. Zero rows
	// affected yields entity.ErrInvalidState (already decided) or ErrNotFound.
	Decide(ctx context.Context, id uuid.UUID, status entity.ApplicationStatus) (*entity.TourGuideApplication, error)
	CountByStatus(ctx context.Context, status entity.ApplicationStatus) (int64, error)
}

const applicationColumns = `id, user_id, name, phone, address, experience, languages,
		certifications, availability, status, created_at`

type applicationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewApplicationRepository(db database.PgxIface, log *zap.Logger) ApplicationRepository {
	return &applicationRepository{
		db:  db,
		log: log.With(zap.String("repository", "application")),
	}
}

func scanApplication(row pgx.Row) (*entity.TourGuideApplication, error) {
	var a entity.TourGuideApplication
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.Phone,
		&a.Address,
		&a.Experience,
		&a.Languages,
		&a.Certifications,
		&a.Availability,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *applicationRepository) Create(ctx context.Context, application *entity.TourGuideApplication) error {
	query := `
		INSERT INTO applications (id, user_id, name, phone, address, experience, languages,
			certifications, availability, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		application.ID,
		application.UserID,
		application.Name,
		application.Phone,
		application.Address,
		application.Experience,
		application.Languages,
		application.Certifications,
		application.Availability,
		application.Status,
		application.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create application",
			zap.Error(err),
			zap.String("user_id", application.UserID.String()),
		)
		return fmt.Errorf("create application for user %s: %w", application.UserID.String(), err)
	}

	return nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TourGuideApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	application, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find application by ID",
			zap.Error(err),
			zap.String("application_id", id.String()),
		)
		return nil, fmt.Errorf("find application by ID %s: %w", id.String(), err)
	}

	return application, nil
}

func (r *applicationRepository) FindAll(ctx context.Context) ([]*entity.TourGuideApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all applications", zap.Error(err))
		return nil, fmt.Errorf("find all applications: %w", err)
	}
	defer rows.Close()

	var applications []*entity.TourGuideApplication
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			r.log.Error("Failed to scan application row", zap.Error(err))
			return nil, fmt.Errorf("scan application row: %w", err)
		}
		applications = append(applications, application)
	}

	return applications, rows.Err()
}

func (r *applicationRepository) FindApprovedByUserID(ctx context.Context, userID uuid.UUID) (*entity.TourGuideApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE user_id = $1 AND status = 'approved'
		ORDER BY created_at DESC
		LIMIT 1`

	application, err := scanApplication(r.db.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find approved application",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find approved application for user %s: %w", userID.String(), err)
	}

	return application, nil
}

func (r *applicationRepository) Decide(ctx context.Context, id uuid.UUID, status entity.ApplicationStatus) (*entity.TourGuideApplication, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin decide transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE applications SET status = $2
		WHERE id = $1 AND status = 'pending'
	`, id, status)
	if err != nil {
		r.log.Error("Failed to decide application",
			zap.Error(err),
			zap.String("application_id", id.String()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("decide application %s: %w", id.String(), err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := scanApplication(tx.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)); err != nil {
			if err == pgx.ErrNoRows {
				return nil, entity.ErrNotFound
			}
			return nil, fmt.Errorf("check application %s: %w", id.String(), err)
		}
		return nil, entity.ErrInvalidState
	}

	application, err := scanApplication(tx.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("reload application %s: %w", id.String(), err)
	}

	if status == entity.ApplicationStatusApproved {
		if _, err := tx.Exec(ctx, `
			UPDATE users
			SET role = 'tourguide',
				languages = COALESCE(languages, $2),
				experience = COALESCE(experience, $3),
				updated_at = NOW()
			WHERE id = $1
		`, application.UserID, application.Languages, application.Experience); err != nil {
			r.log.Error("Failed to promote applicant",
				zap.Error(err),
				zap.String("user_id", application.UserID.String()),
			)
			return nil, fmt.Errorf("promote applicant %s: %w", application.UserID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit decide transaction: %w", err)
	}

	r.log.Info("Application decided",
		zap.String("application_id", id.String()),
		zap.String("status", string(status)),
	)

	return application, nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context, status entity.ApplicationStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE status = $1`, status).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count applications",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("count applications by status %s: %w", string(status), err)
	}
	return count, nil
}
