package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"career-pilot/internal/market"
)

// MarketRepository expone el seed idempotente de la tabla de referencia de
// mercado. Las lecturas del core usan la tabla estatica en memoria; esta
// copia en DB existe para los consumidores externos del esquema.
type MarketRepository interface {
	Seed(ctx context.Context) (int, error)
}

type PgMarketRepository struct {
	pool *pgxpool.Pool
}

func NewPgMarketRepository(pool *pgxpool.Pool) *PgMarketRepository {
	return &PgMarketRepository{pool: pool}
}

// Seed inserta los datos de referencia si la tabla esta vacia y devuelve la
// cantidad de filas insertadas; con datos existentes no hace nada.
func (r *PgMarketRepository) Seed(ctx context.Context) (int, error) {
	var existing int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM market_data`).Scan(&existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	count := 0

	const salaryQuery = `
		INSERT INTO market_data (id, job_category, avg_salary_min, avg_salary_max, years_range, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, band := range market.SalaryBands() {
		if _, err := tx.Exec(ctx, salaryQuery, uuid.NewString(), band.JobCategory, band.Min, band.Max, band.YearsRange, now); err != nil {
			return 0, err
		}
		count++
	}

	const demandQuery = `
		INSERT INTO market_data (id, job_category, skill_name, demand_level, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, sd := range market.SkillDemands() {
		if _, err := tx.Exec(ctx, demandQuery, uuid.NewString(), sd.JobCategory, sd.SkillName, sd.DemandLevel, now); err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}
