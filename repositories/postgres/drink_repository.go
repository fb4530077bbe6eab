package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/upb/coffee-shop/backend/models"
	"github.com/upb/coffee-shop/backend/repositories"
	"go.uber.org/zap"
)

// uniqueViolation is the SQLSTATE Postgres reports for a unique constraint
const uniqueViolation pq.ErrorCode = "23505"

const drinkColumns = `id, title, recipe, created_at, updated_at`

// DrinkRepository implements repositories.DrinkRepository
type DrinkRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDrinkRepository creates a new drink repository
func NewDrinkRepository(db *DB, logger *zap.Logger) repositories.DrinkRepository {
	return &DrinkRepository{
		db:     db,
		logger: logger,
	}
}

// List returns every drink ordered by id
func (r *DrinkRepository) List(ctx context.Context) ([]*models.Drink, error) {
	query := `SELECT ` + drinkColumns + ` FROM drinks ORDER BY id`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query drinks: %w", err)
	}
	defer rows.Close()

	drinks := make([]*models.Drink, 0)
	for rows.Next() {
		drink := &models.Drink{}
		if err := scanDrink(rows, drink); err != nil {
			return nil, fmt.Errorf("failed to scan drink: %w", err)
		}
		drinks = append(drinks, drink)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drink rows: %w", err)
	}

	return drinks, nil
}

// GetByIDForUpdate retrieves a drink with a row lock; only meaningful inside a transaction
func (r *DrinkRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Drink, error) {
	query := `SELECT ` + drinkColumns + ` FROM drinks WHERE id = $1 FOR UPDATE`

	executor := GetExecutor(ctx, r.db)
	drink := &models.Drink{}
	if err := scanDrink(executor.QueryRowContext(ctx, query, id), drink); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("drink %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get drink: %w", err)
	}

	return drink, nil
}

// Create inserts a drink and sets its generated id
func (r *DrinkRepository) Create(ctx context.Context, drink *models.Drink) error {
	query := `
		INSERT INTO drinks (title, recipe, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	now := time.Now().UTC()
	if drink.CreatedAt.IsZero() {
		drink.CreatedAt = now
	}
	if drink.UpdatedAt.IsZero() {
		drink.UpdatedAt = now
	}

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		drink.Title,
		drink.Recipe,
		drink.CreatedAt,
		drink.UpdatedAt,
	).Scan(&drink.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%q: %w", drink.Title, repositories.ErrDuplicateTitle)
		}
		return fmt.Errorf("failed to create drink: %w", err)
	}

	r.logger.Debug("drink created", zap.Int64("id", drink.ID))
	return nil
}

// Update writes title and recipe of an existing drink
func (r *DrinkRepository) Update(ctx context.Context, drink *models.Drink) error {
	query := `
		UPDATE drinks
		SET title = $2,
		    recipe = $3,
		    updated_at = $4
		WHERE id = $1
	`

	drink.UpdatedAt = time.Now().UTC()

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		drink.ID,
		drink.Title,
		drink.Recipe,
		drink.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%q: %w", drink.Title, repositories.ErrDuplicateTitle)
		}
		return fmt.Errorf("failed to update drink: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("drink %d: %w", drink.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("drink updated", zap.Int64("id", drink.ID))
	return nil
}

// Delete removes a drink
func (r *DrinkRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM drinks WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete drink: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("drink %d: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("drink deleted", zap.Int64("id", id))
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDrink(row rowScanner, drink *models.Drink) error {
	return row.Scan(
		&drink.ID,
		&drink.Title,
		&drink.Recipe,
		&drink.CreatedAt,
		&drink.UpdatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
