package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"career-pilot/internal/domain"
)

type SourceRepository interface {
	Create(ctx context.Context, source domain.DataSource) error
	GetByID(ctx context.Context, id string) (domain.DataSource, error)
	GetByIDForUser(ctx context.Context, id, userID string) (domain.DataSource, error)
	ListByUser(ctx context.Context, userID string) ([]domain.DataSource, error)
	ListByUserAndStatus(ctx context.Context, userID, status string) ([]domain.DataSource, error)
	ListCompletedWithData(ctx context.Context, userID string) ([]domain.DataSource, error)
	ListStale(ctx context.Context, olderThan time.Time) ([]domain.DataSource, error)
	UpdateStatus(ctx context.Context, id, status, errorMessage string) error
	SaveScraped(ctx context.Context, id, html string) error
	SaveParsed(ctx context.Context, id string, record *domain.ParsedSourceRecord, scrapedAt time.Time) error
	SetConfirmed(ctx context.Context, id string, confirmed bool) error
	Delete(ctx context.Context, id string) error
}

type PgSourceRepository struct {
	pool *pgxpool.Pool
}

func NewPgSourceRepository(pool *pgxpool.Pool) *PgSourceRepository {
	return &PgSourceRepository{pool: pool}
}

const sourceColumns = `id, user_id, platform, source_url, parsed_data, is_confirmed, last_scraped_at, status, error_message, created_at`

func (r *PgSourceRepository) Create(ctx context.Context, source domain.DataSource) error {
	const query = `
		INSERT INTO data_sources (id, user_id, platform, source_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		source.ID,
		source.UserID,
		source.Platform,
		source.SourceURL,
		source.Status,
		source.CreatedAt,
	)
	return err
}

func (r *PgSourceRepository) GetByID(ctx context.Context, id string) (domain.DataSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM data_sources WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *PgSourceRepository) GetByIDForUser(ctx context.Context, id, userID string) (domain.DataSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM data_sources WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PgSourceRepository) ListByUser(ctx context.Context, userID string) ([]domain.DataSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM data_sources WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PgSourceRepository) ListByUserAndStatus(ctx context.Context, userID, status string) ([]domain.DataSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM data_sources WHERE user_id = $1 AND status = $2 ORDER BY created_at ASC`
	return r.list(ctx, query, userID, status)
}

func (r *PgSourceRepository) ListCompletedWithData(ctx context.Context, userID string) ([]domain.DataSource, error) {
	query := `
		SELECT ` + sourceColumns + `
		FROM data_sources
		WHERE user_id = $1 AND status = 'completed' AND parsed_data IS NOT NULL
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, userID)
}

func (r *PgSourceRepository) ListStale(ctx context.Context, olderThan time.Time) ([]domain.DataSource, error) {
	query := `
		SELECT ` + sourceColumns + `
		FROM data_sources
		WHERE status = 'completed' AND last_scraped_at IS NOT NULL AND last_scraped_at < $1
		ORDER BY last_scraped_at ASC
	`
	return r.list(ctx, query, olderThan)
}

func (r *PgSourceRepository) UpdateStatus(ctx context.Context, id, status, errorMessage string) error {
	const query = `
		UPDATE data_sources
		SET status = $2, error_message = NULLIF($3, '')
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, status, errorMessage)
	return err
}

func (r *PgSourceRepository) SaveScraped(ctx context.Context, id, html string) error {
	const query = `UPDATE data_sources SET scraped_html = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, html)
	return err
}

func (r *PgSourceRepository) SaveParsed(ctx context.Context, id string, record *domain.ParsedSourceRecord, scrapedAt time.Time) error {
	blob, err := json.Marshal(record)
	if err != nil {
		return err
	}
	const query = `
		UPDATE data_sources
		SET parsed_data = $2, status = 'completed', last_scraped_at = $3, error_message = NULL
		WHERE id = $1
	`
	_, err = r.pool.Exec(ctx, query, id, blob, scrapedAt)
	return err
}

func (r *PgSourceRepository) SetConfirmed(ctx context.Context, id string, confirmed bool) error {
	const query = `UPDATE data_sources SET is_confirmed = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, confirmed)
	return err
}

func (r *PgSourceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM data_sources WHERE id = $1`, id)
	return err
}

func (r *PgSourceRepository) list(ctx context.Context, query string, args ...any) ([]domain.DataSource, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []domain.DataSource
	for rows.Next() {
		source, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgSourceRepository) scanOne(row rowScanner) (domain.DataSource, error) {
	var (
		source    domain.DataSource
		parsedRaw []byte
		errMsg    *string
	)
	err := row.Scan(
		&source.ID,
		&source.UserID,
		&source.Platform,
		&source.SourceURL,
		&parsedRaw,
		&source.IsConfirmed,
		&source.LastScrapedAt,
		&source.Status,
		&errMsg,
		&source.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DataSource{}, ErrNotFound
	}
	if err != nil {
		return domain.DataSource{}, err
	}
	if errMsg != nil {
		source.ErrorMessage = *errMsg
	}
	if len(parsedRaw) > 0 {
		var record domain.ParsedSourceRecord
		if err := json.Unmarshal(parsedRaw, &record); err == nil {
			source.ParsedData = &record
		}
	}
	return source, nil
}
