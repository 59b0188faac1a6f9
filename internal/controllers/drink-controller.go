package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/coffee-shop-api/internal/models"
	"github.com/franciscosanchezn/coffee-shop-api/internal/services"
	"github.com/franciscosanchezn/coffee-shop-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// DrinkController handles HTTP requests related to drinks
type DrinkController interface {
	// GetDrinks lists all drinks in the short format
	GetDrinks(c *gin.Context)
	// GetDrinksDetail lists all drinks in the long format
	GetDrinksDetail(c *gin.Context)
	// CreateDrink creates a new drink
	CreateDrink(c *gin.Context)
	// UpdateDrink edits title and recipe of an existing drink
	UpdateDrink(c *gin.Context)
	// DeleteDrink deletes a drink by its ID
	DeleteDrink(c *gin.Context)
}

type controller struct {
	service   services.DrinkService
	validator *validation.Validator
}

// NewDrinkController creates a new instance of DrinkController
func NewDrinkController(service services.DrinkService, validator *validation.Validator) *controller {
	return &controller{service: service, validator: validator}
}

// maxDrinkBodyBytes bounds create and edit bodies
const maxDrinkBodyBytes = 1 << 20

// drinkRequest is the body of create and edit requests
type drinkRequest struct {
	Title  string        `json:"title" example:"Water"`
	Recipe models.Recipe `json:"recipe"`
}

// drinksResponse wraps a list of drinks
type drinksResponse struct {
	Success bool        `json:"success" example:"true"`
	Drinks  interface{} `json:"drinks"`
}

// deleteResponse confirms a deletion
type deleteResponse struct {
	Success bool `json:"success" example:"true"`
	Delete  uint `json:"delete" example:"1"`
}

// GetDrinks godoc
// @Summary List drinks
// @Description List every drink with ingredient names and quantities hidden
// @Tags drinks
// @Produce json
// @Success 200 {object} drinksResponse{drinks=[]models.ShortDrink}
// @Failure 422 {object} models.APIError
// @Router /drinks [get]
func (c *controller) GetDrinks(ctx *gin.Context) {
	drinks, err := c.service.GetAllDrinks(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	short := make([]models.ShortDrink, 0, len(drinks))
	for _, drink := range drinks {
		short = append(short, drink.Short())
	}
	ctx.JSON(http.StatusOK, drinksResponse{Success: true, Drinks: short})
}

// GetDrinksDetail godoc
// @Summary List drink recipes
// @Description List every drink with its full recipe
// @Tags drinks
// @Produce json
// @Success 200 {object} drinksResponse{drinks=[]models.LongDrink}
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /drinks-detail [get]
func (c *controller) GetDrinksDetail(ctx *gin.Context) {
	drinks, err := c.service.GetAllDrinks(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	long := make([]models.LongDrink, 0, len(drinks))
	for _, drink := range drinks {
		long = append(long, drink.Long())
	}
	ctx.JSON(http.StatusOK, drinksResponse{Success: true, Drinks: long})
}

// CreateDrink godoc
// @Summary Create a drink
// @Description Create a drink with a unique title and its recipe
// @Tags drinks
// @Accept json
// @Produce json
// @Param drink body drinkRequest true "Drink title and recipe"
// @Success 200 {object} drinksResponse{drinks=models.LongDrink}
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 413 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /drinks [post]
func (c *controller) CreateDrink(ctx *gin.Context) {
	req, err := c.bindDrink(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	drink, err := c.service.CreateDrink(ctx.Request.Context(), req.Title, req.Recipe)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, drinksResponse{Success: true, Drinks: drink.Long()})
}

// UpdateDrink godoc
// @Summary Edit a drink
// @Description Replace title and recipe of an existing drink
// @Tags drinks
// @Accept json
// @Produce json
// @Param id path int true "Drink ID"
// @Param drink body drinkRequest true "Drink title and recipe"
// @Success 200 {object} drinksResponse{drinks=models.LongDrink}
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 413 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /drinks/{id} [patch]
func (c *controller) UpdateDrink(ctx *gin.Context) {
	id, err := drinkID(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// An unknown id is reported before the body is looked at
	if _, err := c.service.GetDrinkByID(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	req, err := c.bindDrink(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	drink, err := c.service.UpdateDrink(ctx.Request.Context(), id, req.Title, req.Recipe)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, drinksResponse{Success: true, Drinks: drink.Long()})
}

// DeleteDrink godoc
// @Summary Delete a drink
// @Description Delete a drink by its ID
// @Tags drinks
// @Produce json
// @Param id path int true "Drink ID"
// @Success 200 {object} deleteResponse
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError
// @Security BearerAuth
// @Router /drinks/{id} [delete]
func (c *controller) DeleteDrink(ctx *gin.Context) {
	id, err := drinkID(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := c.service.DeleteDrink(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, deleteResponse{Success: true, Delete: id})
}

// drinkID parses the id path parameter
func drinkID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, ctx.Param("id"))
	}
	return uint(id), nil
}

// bindDrink reads a create or edit body. Missing fields are reported before
// the schema is checked so they surface as bad requests.
func (c *controller) bindDrink(ctx *gin.Context) (drinkRequest, error) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxDrinkBodyBytes)
	raw, err := ctx.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return drinkRequest{}, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, tooLarge.Limit)
		}
		return drinkRequest{}, fmt.Errorf("reading body: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return drinkRequest{}, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	for _, name := range []string{"title", "recipe"} {
		value, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return drinkRequest{}, fmt.Errorf("%w: %s is missing", errMissingField, name)
		}
	}

	if err := c.validator.Validate(validation.DrinkSchema, raw); err != nil {
		return drinkRequest{}, err
	}

	var req drinkRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return drinkRequest{}, fmt.Errorf("decoding drink: %w", err)
	}
	return req, nil
}
