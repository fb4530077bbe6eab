package repositories

import (
	"context"
	"errors"

	"github.com/upb/coffee-shop/backend/models"
)

var (
	// ErrNotFound is returned when no row matches the requested id
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateTitle is returned when a drink title is already taken
	ErrDuplicateTitle = errors.New("drink title already exists")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// DrinkRepository handles drink data operations.
// Methods run inside the transaction carried by ctx when there is one.
type DrinkRepository interface {
	// List returns every drink ordered by id
	List(ctx context.Context) ([]*models.Drink, error)

	// GetByIDForUpdate retrieves a drink and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Drink, error)

	// Create inserts a drink and sets its generated id
	Create(ctx context.Context, drink *models.Drink) error

	// Update writes title and recipe of an existing drink
	Update(ctx context.Context, drink *models.Drink) error

	// Delete removes a drink
	Delete(ctx context.Context, id int64) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Drinks DrinkRepository
}
