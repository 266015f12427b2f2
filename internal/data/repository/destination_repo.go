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

type DestinationRepository interface {
	Create(ctx context.Context, destination *entity.Destination) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Destination, error)
	FindAllActive(ctx context.Context) ([]*entity.Destination, error)
	FindAll(ctx context.Context) ([]*entity.Destination, error)
	Update(ctx context.Context, destination *entity.Destination) error
	Count(ctx context.Context) (int64, error)
}

const destinationColumns = `id, name, description, location, image_url, base_price,
		is_active, created_at, updated_at`

type destinationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDestinationRepository(db database.PgxIface, log *zap.Logger) DestinationRepository {
	return &destinationRepository{
		db:  db,
		log: log.With(zap.String("repository", "destination")),
	}
}

func scanDestination(row pgx.Row) (*entity.Destination, error) {
	var d entity.Destination
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.Location,
		&d.ImageURL,
		&d.BasePrice,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *destinationRepository) collect(rows pgx.Rows) ([]*entity.Destination, error) {
	defer rows.Close()

	var destinations []*entity.Destination
	for rows.Next() {
		destination, err := scanDestination(rows)
		if err != nil {
			r.log.Error("Failed to scan destination row", zap.Error(err))
			return nil, fmt.Errorf("scan destination row: %w", err)
		}
		destinations = append(destinations, destination)
	}

	return destinations, rows.Err()
}

func (r *destinationRepository) Create(ctx context.Context, destination *entity.Destination) error {
	query := `
		INSERT INTO destinations (id, name, description, location, image_url, base_price,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		destination.ID,
		destination.Name,
		destination.Description,
		destination.Location,
		destination.ImageURL,
		destination.BasePrice,
		destination.IsActive,
		destination.CreatedAt,
		destination.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create destination",
			zap.Error(err),
			zap.String("name", destination.Name),
		)
		return fmt.Errorf("create destination %s: %w", destination.Name, err)
	}

	return nil
}

func (r *destinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE id = $1`

	destination, err := scanDestination(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find destination by ID",
			zap.Error(err),
			zap.String("destination_id", id.String()),
		)
		return nil, fmt.Errorf("find destination by ID %s: %w", id.String(), err)
	}

	return destination, nil
}

func (r *destinationRepository) FindAllActive(ctx context.Context) ([]*entity.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE is_active = true ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active destinations", zap.Error(err))
		return nil, fmt.Errorf("find active destinations: %w", err)
	}

	return r.collect(rows)
}

func (r *destinationRepository) FindAll(ctx context.Context) ([]*entity.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all destinations", zap.Error(err))
		return nil, fmt.Errorf("find all destinations: %w", err)
	}

	return r.collect(rows)
}

func (r *destinationRepository) Update(ctx context.Context, destination *entity.Destination) error {
	query := `
		UPDATE destinations
		SET name = $2, description = $3, location = $4, image_url = $5,
		    base_price = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		destination.ID,
		destination.Name,
		destination.Description,
		destination.Location,
		destination.ImageURL,
		destination.BasePrice,
		destination.IsActive,
		destination.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update destination",
			zap.Error(err),
			zap.String("destination_id", destination.ID.String()),
		)
		return fmt.Errorf("update destination %s: %w", destination.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *destinationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM destinations WHERE is_active = true`).Scan(&count); err != nil {
		r.log.Error("Failed to count destinations", zap.Error(err))
		return 0, fmt.Errorf("count destinations: %w", err)
	}
	return count, nil
}
