package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MaxTitleLength is the longest title a drink may carry
const MaxTitleLength = 80

// ErrInvalidRecipe is returned when a recipe is neither an ingredient object nor a list of them
var ErrInvalidRecipe = errors.New("recipe must be an ingredient or a list of ingredients")

// Ingredient is one component of a drink recipe
type Ingredient struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"required"`
	Parts int    `json:"parts" validate:"gt=0"`
}

// Recipe is the ordered ingredient list of a drink, stored as JSONB
type Recipe []Ingredient

// UnmarshalJSON accepts either a single ingredient object or an array of them
func (r *Recipe) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*r = nil
		return nil
	case trimmed[0] == '{':
		var ingredient Ingredient
		if err := json.Unmarshal(trimmed, &ingredient); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
		}
		*r = Recipe{ingredient}
		return nil
	case trimmed[0] == '[':
		var ingredients []Ingredient
		if err := json.Unmarshal(trimmed, &ingredients); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
		}
		*r = Recipe(ingredients)
		return nil
	default:
		return ErrInvalidRecipe
	}
}

// Value implements driver.Valuer
func (r Recipe) Value() (driver.Value, error) {
	if r == nil {
		r = Recipe{}
	}
	b, err := json.Marshal([]Ingredient(r))
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipe: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner
func (r *Recipe) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = Recipe{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Recipe", src)
	}
	return r.UnmarshalJSON(data)
}

// Drink represents a menu item with its recipe
type Drink struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Recipe    Recipe    `json:"recipe" db:"recipe"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// NewDrink creates a new Drink instance; the ID is assigned on insert
func NewDrink(title string, recipe Recipe) *Drink {
	now := time.Now()
	return &Drink{
		Title:     title,
		Recipe:    recipe,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ShortIngredient is the public view of an ingredient
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortDrink is the public representation served without authorization
type ShortDrink struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// LongDrink is the detailed representation including ingredient names
type LongDrink struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// Short returns the short representation
func (d *Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, 0, len(d.Recipe))
	for _, i := range d.Recipe {
		recipe = append(recipe, ShortIngredient{Color: i.Color, Parts: i.Parts})
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long returns the long representation
func (d *Drink) Long() LongDrink {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return LongDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// ShortDrinks maps drinks to their short representation
func ShortDrinks(drinks []*Drink) []ShortDrink {
	out := make([]ShortDrink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Short())
	}
	return out
}

// LongDrinks maps drinks to their long representation
func LongDrinks(drinks []*Drink) []LongDrink {
	out := make([]LongDrink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Long())
	}
	return out
}

// CreateDrinkRequest is the body of POST /drinks
type CreateDrinkRequest struct {
	Title  string `json:"title" validate:"required,max=80"`
	Recipe Recipe `json:"recipe" validate:"required,min=1,dive"`
}

// UpdateDrinkRequest is the body of PATCH /drinks/{id}; empty fields are left unchanged
type UpdateDrinkRequest struct {
	Title  string `json:"title" validate:"omitempty,max=80"`
	Recipe Recipe `json:"recipe" validate:"omitempty,dive"`
}

// IsEmpty reports whether the request changes nothing
func (r UpdateDrinkRequest) IsEmpty() bool {
	return r.Title == "" && len(r.Recipe) == 0
}
