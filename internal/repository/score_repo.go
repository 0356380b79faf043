package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"career-pilot/internal/domain"
)

type ScoreRepository interface {
	// CreateWithHistory persiste el snapshot y su entrada de historial como
	// una sola unidad atomica; si algo falla no queda nada a medio escribir.
	CreateWithHistory(ctx context.Context, score domain.CareerScore, history domain.ScoreHistoryEntry) error
	LatestByUser(ctx context.Context, userID string) (domain.CareerScore, error)
	GetByIDForUser(ctx context.Context, id, userID string) (domain.CareerScore, error)
	HistoryByUser(ctx context.Context, userID string, limit int) ([]domain.ScoreHistoryEntry, error)
	CategoryAverage(ctx context.Context, jobCategory string) (float64, int, error)
}

type PgScoreRepository struct {
	pool *pgxpool.Pool
}

func NewPgScoreRepository(pool *pgxpool.Pool) *PgScoreRepository {
	return &PgScoreRepository{pool: pool}
}

func (r *PgScoreRepository) CreateWithHistory(ctx context.Context, score domain.CareerScore, history domain.ScoreHistoryEntry) error {
	insightsBlob, err := json.Marshal(score.AIInsights)
	if err != nil {
		return err
	}
	snapshotBlob, err := json.Marshal(history.Snapshot)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const scoreQuery = `
		INSERT INTO career_scores (id, user_id, expertise_score, influence_score, consistency_score, marketability_score, potential_score, total_score, estimated_salary_min, estimated_salary_max, analysis_accuracy, ai_insights, scored_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := tx.Exec(ctx, scoreQuery,
		score.ID,
		score.UserID,
		score.Scores.Expertise,
		score.Scores.Influence,
		score.Scores.Consistency,
		score.Scores.Marketability,
		score.Scores.Potential,
		score.Scores.Total,
		score.EstimatedSalaryMin,
		score.EstimatedSalaryMax,
		score.Scores.AnalysisAccuracy,
		insightsBlob,
		score.ScoredAt,
		score.CreatedAt,
	); err != nil {
		return err
	}

	const historyQuery = `
		INSERT INTO score_history (id, user_id, score_id, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, historyQuery,
		history.ID,
		history.UserID,
		history.ScoreID,
		snapshotBlob,
		history.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const scoreColumns = `id, user_id, expertise_score, influence_score, consistency_score, marketability_score, potential_score, total_score, estimated_salary_min, estimated_salary_max, analysis_accuracy, ai_insights, scored_at, created_at`

func (r *PgScoreRepository) LatestByUser(ctx context.Context, userID string) (domain.CareerScore, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM career_scores
		WHERE user_id = $1
		ORDER BY scored_at DESC
		LIMIT 1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *PgScoreRepository) GetByIDForUser(ctx context.Context, id, userID string) (domain.CareerScore, error) {
	query := `SELECT ` + scoreColumns + ` FROM career_scores WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PgScoreRepository) HistoryByUser(ctx context.Context, userID string, limit int) ([]domain.ScoreHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, user_id, score_id, snapshot, created_at
		FROM score_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ScoreHistoryEntry
	for rows.Next() {
		var (
			entry domain.ScoreHistoryEntry
			blob  []byte
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ScoreID, &blob, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(blob, &entry.Snapshot); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *PgScoreRepository) CategoryAverage(ctx context.Context, jobCategory string) (float64, int, error) {
	const query = `
		SELECT COALESCE(AVG(cs.total_score), 0), COUNT(cs.id)
		FROM career_scores cs
		JOIN users u ON u.id = cs.user_id
		WHERE u.job_category = $1
	`
	var (
		avg   float64
		count int
	)
	err := r.pool.QueryRow(ctx, query, jobCategory).Scan(&avg, &count)
	return avg, count, err
}

func (r *PgScoreRepository) scanOne(row rowScanner) (domain.CareerScore, error) {
	var (
		score        domain.CareerScore
		insightsBlob []byte
	)
	err := row.Scan(
		&score.ID,
		&score.UserID,
		&score.Scores.Expertise,
		&score.Scores.Influence,
		&score.Scores.Consistency,
		&score.Scores.Marketability,
		&score.Scores.Potential,
		&score.Scores.Total,
		&score.EstimatedSalaryMin,
		&score.EstimatedSalaryMax,
		&score.Scores.AnalysisAccuracy,
		&insightsBlob,
		&score.ScoredAt,
		&score.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CareerScore{}, ErrNotFound
	}
	if err != nil {
		return domain.CareerScore{}, err
	}
	if len(insightsBlob) > 0 {
		if err := json.Unmarshal(insightsBlob, &score.AIInsights); err != nil {
			return domain.CareerScore{}, err
		}
	}
	return score, nil
}
