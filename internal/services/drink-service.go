package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/coffee-shop-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDrinkNotFound is returned when no drink has the requested ID
	ErrDrinkNotFound = errors.New("drink not found")
	// ErrDrinkTitleTaken is returned when creating a drink whose title already exists
	ErrDrinkTitleTaken = errors.New("drink title already exists")
)

// DrinkService provides methods to interact with the drinks table
type DrinkService interface {
	// GetAllDrinks retrieves all drinks ordered by ID
	GetAllDrinks(ctx context.Context) ([]models.Drink, error)
	// GetDrinkByID retrieves a drink by its ID
	GetDrinkByID(ctx context.Context, id uint) (models.Drink, error)
	// CreateDrink inserts a new drink, rejecting duplicate titles
	CreateDrink(ctx context.Context, title string, recipe models.Recipe) (models.Drink, error)
	// UpdateDrink replaces title and recipe of an existing drink
	UpdateDrink(ctx context.Context, id uint, title string, recipe models.Recipe) (models.Drink, error)
	// DeleteDrink removes a drink by its ID
	DeleteDrink(ctx context.Context, id uint) error
}

// drinkService is the gorm implementation of DrinkService
type drinkService struct {
	db *gorm.DB
}

// NewDrinkService creates a new instance of DrinkService
func NewDrinkService(db *gorm.DB) DrinkService {
	return &drinkService{db: db}
}

func (s *drinkService) GetAllDrinks(ctx context.Context) ([]models.Drink, error) {
	var drinks []models.Drink
	if err := s.db.WithContext(ctx).Order("id").Find(&drinks).Error; err != nil {
		return nil, fmt.Errorf("listing drinks: %w", err)
	}
	return drinks, nil
}

func (s *drinkService) GetDrinkByID(ctx context.Context, id uint) (models.Drink, error) {
	var drink models.Drink
	if err := s.db.WithContext(ctx).First(&drink, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Drink{}, ErrDrinkNotFound
		}
		return models.Drink{}, fmt.Errorf("loading drink %d: %w", id, err)
	}
	return drink, nil
}

func (s *drinkService) CreateDrink(ctx context.Context, title string, recipe models.Recipe) (models.Drink, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Drink{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return models.Drink{}, fmt.Errorf("checking drink title: %w", err)
	}
	if count > 0 {
		return models.Drink{}, ErrDrinkTitleTaken
	}

	drink := models.Drink{Title: title, Recipe: recipe}
	if err := db.Create(&drink).Error; err != nil {
		return models.Drink{}, fmt.Errorf("inserting drink: %w", err)
	}
	return s.GetDrinkByID(ctx, drink.ID)
}

func (s *drinkService) UpdateDrink(ctx context.Context, id uint, title string, recipe models.Recipe) (models.Drink, error) {
	drink, err := s.GetDrinkByID(ctx, id)
	if err != nil {
		return models.Drink{}, err
	}

	drink.Title = title
	drink.Recipe = recipe
	if err := s.db.WithContext(ctx).Save(&drink).Error; err != nil {
		return models.Drink{}, fmt.Errorf("updating drink %d: %w", id, err)
	}
	return drink, nil
}

func (s *drinkService) DeleteDrink(ctx context.Context, id uint) error {
	drink, err := s.GetDrinkByID(ctx, id)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&drink)
	if result.Error != nil {
		return fmt.Errorf("deleting drink %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDrinkNotFound
	}
	return nil
}
