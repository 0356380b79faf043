package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"career-pilot/internal/domain"
)

// ActionFilter acota el listado de acciones. Campos nil/vacios no filtran.
type ActionFilter struct {
	TargetArea string
	Completed  *bool
	Bookmarked *bool
	Tag        string
	Sort       string // impact | difficulty | recent
}

type ActionRepository interface {
	CreateBatch(ctx context.Context, actions []domain.ActionRecommendation) error
	ListByUser(ctx context.Context, userID string, filter ActionFilter) ([]domain.ActionRecommendation, error)
	GetByIDForUser(ctx context.Context, id, userID string) (domain.ActionRecommendation, error)
	SetCompleted(ctx context.Context, id string, completed bool, completedAt *time.Time) error
	SetBookmarked(ctx context.Context, id string, bookmarked bool) error
}

type PgActionRepository struct {
	pool *pgxpool.Pool
}

func NewPgActionRepository(pool *pgxpool.Pool) *PgActionRepository {
	return &PgActionRepository{pool: pool}
}

func (r *PgActionRepository) CreateBatch(ctx context.Context, actions []domain.ActionRecommendation) error {
	if len(actions) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO action_recommendations (id, user_id, score_id, title, description, impact_percent, target_area, difficulty, estimated_duration, tags, cta_label, cta_url, strategy, is_completed, is_bookmarked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	for _, a := range actions {
		if _, err := tx.Exec(ctx, query,
			a.ID,
			a.UserID,
			a.ScoreID,
			a.Title,
			a.Description,
			a.ImpactPercent,
			a.TargetArea,
			a.Difficulty,
			a.EstimatedDuration,
			a.Tags,
			a.CTALabel,
			a.CTAUrl,
			a.Strategy,
			a.IsCompleted,
			a.IsBookmarked,
			a.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const actionColumns = `id, user_id, score_id, title, description, impact_percent, target_area, difficulty, estimated_duration, tags, cta_label, cta_url, strategy, is_completed, completed_at, is_bookmarked, created_at`

func (r *PgActionRepository) ListByUser(ctx context.Context, userID string, filter ActionFilter) ([]domain.ActionRecommendation, error) {
	query := `SELECT ` + actionColumns + ` FROM action_recommendations WHERE user_id = $1`
	args := []any{userID}

	if filter.TargetArea != "" {
		args = append(args, filter.TargetArea)
		query += ` AND target_area = $2`
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += ` AND is_completed = $` + itoa(len(args))
	}
	if filter.Bookmarked != nil {
		args = append(args, *filter.Bookmarked)
		query += ` AND is_bookmarked = $` + itoa(len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		query += ` AND $` + itoa(len(args)) + ` = ANY(tags)`
	}

	switch filter.Sort {
	case "difficulty":
		query += ` ORDER BY CASE difficulty WHEN 'easy' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END ASC, created_at DESC`
	case "recent":
		query += ` ORDER BY created_at DESC`
	default:
		query += ` ORDER BY impact_percent DESC, created_at DESC`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []domain.ActionRecommendation
	for rows.Next() {
		action, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

func (r *PgActionRepository) GetByIDForUser(ctx context.Context, id, userID string) (domain.ActionRecommendation, error) {
	query := `SELECT ` + actionColumns + ` FROM action_recommendations WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PgActionRepository) SetCompleted(ctx context.Context, id string, completed bool, completedAt *time.Time) error {
	const query = `UPDATE action_recommendations SET is_completed = $2, completed_at = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, completed, completedAt)
	return err
}

func (r *PgActionRepository) SetBookmarked(ctx context.Context, id string, bookmarked bool) error {
	const query = `UPDATE action_recommendations SET is_bookmarked = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, bookmarked)
	return err
}

func (r *PgActionRepository) scanOne(row rowScanner) (domain.ActionRecommendation, error) {
	var action domain.ActionRecommendation
	err := row.Scan(
		&action.ID,
		&action.UserID,
		&action.ScoreID,
		&action.Title,
		&action.Description,
		&action.ImpactPercent,
		&action.TargetArea,
		&action.Difficulty,
		&action.EstimatedDuration,
		&action.Tags,
		&action.CTALabel,
		&action.CTAUrl,
		&action.Strategy,
		&action.IsCompleted,
		&action.CompletedAt,
		&action.IsBookmarked,
		&action.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ActionRecommendation{}, ErrNotFound
	}
	return action, err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
