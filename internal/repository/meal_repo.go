package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"daily-diet/internal/domain"
)

// MealRepository define el acceso a comidas persistidas.
// Toda lectura o escritura de un registro concreto filtra por (id, session_id):
// un id de otra sesión se comporta igual que un id inexistente.
type MealRepository interface {
	Create(ctx context.Context, meal domain.Meal) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Meal, error)
	GetByID(ctx context.Context, sessionID, id string) (domain.Meal, error)
	Update(ctx context.Context, meal domain.Meal) error
	Delete(ctx context.Context, sessionID, id string) error
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}

type PgMealRepository struct {
	pool *pgxpool.Pool
}

func NewPgMealRepository(pool *pgxpool.Pool) *PgMealRepository {
	return &PgMealRepository{pool: pool}
}

func (r *PgMealRepository) Create(ctx context.Context, meal domain.Meal) error {
	const query = `
		INSERT INTO meals (id, session_id, name, description, date_time, is_on_diet, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		meal.ID,
		meal.SessionID,
		meal.Name,
		meal.Description,
		meal.DateTime,
		meal.IsOnDiet,
		meal.CreatedAt,
	)
	return err
}

func (r *PgMealRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Meal, error) {
	// Orden determinista: created_at con id como desempate.
	const query = `
		SELECT id, session_id, name, description, date_time, is_on_diet, created_at
		FROM meals
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := make([]domain.Meal, 0)
	for rows.Next() {
		var meal domain.Meal
		if err := rows.Scan(
			&meal.ID,
			&meal.SessionID,
			&meal.Name,
			&meal.Description,
			&meal.DateTime,
			&meal.IsOnDiet,
			&meal.CreatedAt,
		); err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}

func (r *PgMealRepository) GetByID(ctx context.Context, sessionID, id string) (domain.Meal, error) {
	const query = `
		SELECT id, session_id, name, description, date_time, is_on_diet, created_at
		FROM meals
		WHERE id = $1 AND session_id = $2
	`
	var meal domain.Meal
	err := r.pool.QueryRow(ctx, query, id, sessionID).Scan(
		&meal.ID,
		&meal.SessionID,
		&meal.Name,
		&meal.Description,
		&meal.DateTime,
		&meal.IsOnDiet,
		&meal.CreatedAt,
	)
	if err != nil {
		return domain.Meal{}, err
	}
	return meal, nil
}

func (r *PgMealRepository) Update(ctx context.Context, meal domain.Meal) error {
	const query = `
		UPDATE meals
		SET name = $3, description = $4, date_time = $5, is_on_diet = $6
		WHERE id = $1 AND session_id = $2
	`
	tag, err := r.pool.Exec(ctx, query,
		meal.ID,
		meal.SessionID,
		meal.Name,
		meal.Description,
		meal.DateTime,
		meal.IsOnDiet,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgMealRepository) Delete(ctx context.Context, sessionID, id string) error {
	const query = `
		DELETE FROM meals
		WHERE id = $1 AND session_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgMealRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM meals
		WHERE session_id = $1
	`
	var total int64
	if err := r.pool.QueryRow(ctx, query, sessionID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
