package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/upb/coffee-shop/backend/models"
	"github.com/upb/coffee-shop/backend/repositories"
	"github.com/upb/coffee-shop/backend/utils"
	"go.uber.org/zap"
)

// DrinkService implements the drink menu rules on top of the repository
type DrinkService struct {
	drinks    repositories.DrinkRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewDrinkService creates a new drink service
func NewDrinkService(drinks repositories.DrinkRepository, txManager repositories.TransactionManager, logger *zap.Logger) *DrinkService {
	return &DrinkService{
		drinks:    drinks,
		txManager: txManager,
		logger:    logger,
	}
}

// List returns every drink
func (s *DrinkService) List(ctx context.Context) ([]*models.Drink, error) {
	drinks, err := s.drinks.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return drinks, nil
}

// Create validates and stores a new drink
func (s *DrinkService) Create(ctx context.Context, req models.CreateDrinkRequest) (*models.Drink, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, ErrMissingTitle
	}
	if len(req.Recipe) == 0 {
		return nil, ErrMissingRecipe
	}
	if err := checkTitleLength(req.Title); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	drink := models.NewDrink(req.Title, req.Recipe)
	if err := s.drinks.Create(ctx, drink); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("drink created",
		zap.Int64("drink_id", drink.ID),
		zap.String("title", drink.Title))
	return drink, nil
}

// Update changes the supplied non-empty fields of a drink. The read and the
// write run in one transaction holding the row lock.
func (s *DrinkService) Update(ctx context.Context, id int64, req models.UpdateDrinkRequest) (*models.Drink, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := checkTitleLength(req.Title); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var updated *models.Drink
	err := s.txManager.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		drink, err := s.drinks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		if req.IsEmpty() {
			updated = drink
			return nil
		}
		if req.Title != "" {
			drink.Title = req.Title
		}
		if len(req.Recipe) > 0 {
			drink.Recipe = req.Recipe
		}

		if err := s.drinks.Update(ctx, drink); err != nil {
			return mapRepositoryError(err)
		}
		updated = drink
		return nil
	})
	if err != nil {
		return nil, asDomainError(err)
	}

	s.logger.Info("drink updated", zap.Int64("drink_id", id))
	return updated, nil
}

// Delete removes a drink
func (s *DrinkService) Delete(ctx context.Context, id int64) error {
	if err := s.drinks.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("drink deleted", zap.Int64("drink_id", id))
	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrDrinkNotFound.Wrap(err)
	case errors.Is(err, repositories.ErrDuplicateTitle):
		return ErrDuplicateTitle.Wrap(err)
	default:
		return ErrDatabaseError.Wrap(err)
	}
}

// asDomainError keeps domain errors raised inside a transaction and marks
// anything else (begin/commit failures) as a failed transaction
func asDomainError(err error) error {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return ErrTransactionFailed.Wrap(err)
}

func checkTitleLength(title string) error {
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return ErrTitleTooLong.WithDetail("title",
			fmt.Sprintf("title must be at most %d characters", models.MaxTitleLength))
	}
	return nil
}

func validationError(err error) error {
	if !utils.IsValidationError(err) {
		return ErrInvalidRecipe.Wrap(err)
	}
	fields := utils.GetValidationFields(err)

	domainErr := ErrInvalidInput.Wrap(err)
	for field, message := range fields {
		domainErr.Details[field] = message
	}
	return domainErr
}
