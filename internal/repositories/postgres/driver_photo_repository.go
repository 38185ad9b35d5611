package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
    CREATE TABLE IF NOT EXISTS driver_photos (
        id         TEXT PRIMARY KEY,
        name       TEXT NOT NULL,
        photo_url  TEXT NOT NULL,
        is_active  BOOLEAN NOT NULL DEFAULT TRUE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    )
`

type DriverPhotoRepository struct {
	pool *pgxpool.Pool
}

func NewDriverPhotoRepository(pool *pgxpool.Pool) *DriverPhotoRepository {
	return &DriverPhotoRepository{pool: pool}
}

// Connect opens a pool for databaseURL, verifies it and creates the table.
func Connect(ctx context.Context, databaseURL string) (*DriverPhotoRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach postgres: %w", err)
	}
	repo := NewDriverPhotoRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func (r *DriverPhotoRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create driver_photos table: %w", err)
	}
	return nil
}

func (r *DriverPhotoRepository) ListActive(ctx context.Context) ([]models.DriverPhoto, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, photo_url FROM driver_photos WHERE is_active = TRUE`)
	if err != nil {
		return nil, fmt.Errorf("query active driver photos: %w", err)
	}
	defer rows.Close()

	var photos []models.DriverPhoto
	for rows.Next() {
		var p models.DriverPhoto
		if err := rows.Scan(&p.Name, &p.PhotoURL); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *DriverPhotoRepository) GetAll(ctx context.Context) ([]*models.DriverPhotoRecord, error) {
	query := `
        SELECT id, name, photo_url, is_active, created_at, updated_at
        FROM driver_photos
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.DriverPhotoRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *DriverPhotoRepository) GetByID(ctx context.Context, id string) (*models.DriverPhotoRecord, error) {
	query := `
        SELECT id, name, photo_url, is_active, created_at, updated_at
        FROM driver_photos
        WHERE id = $1
    `
	record, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return record, err
}

func (r *DriverPhotoRepository) Create(ctx context.Context, record *models.DriverPhotoRecord) error {
	query := `
        INSERT INTO driver_photos (id, name, photo_url, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.Name,
		record.PhotoURL,
		record.IsActive,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

func (r *DriverPhotoRepository) BulkCreate(ctx context.Context, records []*models.DriverPhotoRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO driver_photos (id, name, photo_url, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	for _, record := range records {
		_, err = tx.Exec(ctx, query,
			record.ID,
			record.Name,
			record.PhotoURL,
			record.IsActive,
			record.CreatedAt,
			record.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *DriverPhotoRepository) Update(ctx context.Context, record *models.DriverPhotoRecord) error {
	query := `
        UPDATE driver_photos
        SET
            name = $2,
            photo_url = $3,
            is_active = $4,
            updated_at = $5
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query,
		record.ID,
		record.Name,
		record.PhotoURL,
		record.IsActive,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *DriverPhotoRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM driver_photos WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *DriverPhotoRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM driver_photos").Scan(&count)
	return count, err
}

func (r *DriverPhotoRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE driver_photos")
	return err
}

func (r *DriverPhotoRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func scanRecord(row pgx.Row) (*models.DriverPhotoRecord, error) {
	record := &models.DriverPhotoRecord{}
	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.PhotoURL,
		&record.IsActive,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}
