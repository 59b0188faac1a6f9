package models

import (
	"bytes"
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// HiddenParts replaces ingredient quantities in the short view
const HiddenParts = "hidden"

// Ingredient is a single entry of a drink recipe
type Ingredient struct {
	Color string  `json:"color"`
	Name  string  `json:"name"`
	Parts float64 `json:"parts"`
}

// Recipe is the ordered list of ingredients of a drink.
// It is persisted as serialized JSON text.
type Recipe []Ingredient

// UnmarshalJSON accepts either a list of ingredients or a single ingredient object
func (r *Recipe) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single Ingredient
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*r = Recipe{single}
		return nil
	}
	var list []Ingredient
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*r = Recipe(list)
	return nil
}

// Value implements driver.Valuer
func (r Recipe) Value() (driver.Value, error) {
	if r == nil {
		r = Recipe{}
	}
	data, err := json.Marshal([]Ingredient(r))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (r *Recipe) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*r = Recipe{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Recipe", value)
	}
	return r.UnmarshalJSON(data)
}

// Drink is a menu entry of the coffee shop
type Drink struct {
	ID     uint   `gorm:"primaryKey"`
	Title  string `gorm:"size:80;uniqueIndex;not null"`
	Recipe Recipe `gorm:"type:text;not null"`
}

func (Drink) TableName() string {
	return "drinks"
}

// ShortIngredient is an ingredient with name and quantity withheld
type ShortIngredient struct {
	Color string `json:"color"`
	Parts string `json:"parts"`
}

// ShortDrink is the public representation of a drink
type ShortDrink struct {
	ID     uint              `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// LongDrink is the full representation of a drink including the recipe details
type LongDrink struct {
	ID     uint         `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// Short returns the public view of the drink
func (d Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, 0, len(d.Recipe))
	for _, ingredient := range d.Recipe {
		recipe = append(recipe, ShortIngredient{Color: ingredient.Color, Parts: HiddenParts})
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long returns the detailed view of the drink
func (d Drink) Long() LongDrink {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return LongDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}
