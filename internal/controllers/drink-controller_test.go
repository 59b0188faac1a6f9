package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/franciscosanchezn/coffee-shop-api/internal/auth"
	"github.com/franciscosanchezn/coffee-shop-api/internal/models"
	"github.com/franciscosanchezn/coffee-shop-api/internal/services"
	"github.com/franciscosanchezn/coffee-shop-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testIssuer   = "coffee-shop-api"
	testAudience = "drinks"
)

var testSecret = []byte("test-jwt-secret-key-32-characters")

type testEnv struct {
	router *gin.Engine
	issuer *auth.Issuer
	db     *gorm.DB
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Drink{}))
	return db
}

func newRouter(t *testing.T, service services.DrinkService) (*gin.Engine, *auth.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	keys := auth.NewKeySet()
	keys.AddHMAC(auth.LocalKeyID, testSecret)
	verifier := auth.NewVerifier(keys, testIssuer, testAudience)
	issuer, err := auth.NewIssuer(testSecret, testIssuer, testAudience)
	require.NoError(t, err)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(NotFound)
	router.NoMethod(MethodNotAllowed)
	RegisterDrinkRoutes(router, NewDrinkController(service, validation.MustNewValidator()), verifier)
	return router, issuer
}

func setupTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	router, issuer := newRouter(t, services.NewDrinkService(db))
	return &testEnv{router: router, issuer: issuer, db: db}
}

func (e *testEnv) token(t *testing.T, permissions ...string) string {
	t.Helper()
	token, err := e.issuer.Issue("test-user", permissions, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	return w.Code, response
}

func (e *testEnv) seed(t *testing.T, title string, recipe models.Recipe) models.Drink {
	t.Helper()
	drink := models.Drink{Title: title, Recipe: recipe}
	require.NoError(t, e.db.Create(&drink).Error)
	return drink
}

func (e *testEnv) count(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Drink{}).Count(&count).Error)
	return count
}

func assertErrorEnvelope(t *testing.T, body map[string]interface{}, status int) {
	t.Helper()
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(status), body["error"])
	assert.NotEmpty(t, body["message"])
}

var waterBody = `{"title":"Water","recipe":[{"name":"water","color":"blue","parts":1}]}`

func TestCreateDrinkThenListShortView(t *testing.T) {
	env := setupTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/drinks", env.token(t, PermissionPostDrinks), waterBody)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	drink := body["drinks"].(map[string]interface{})
	assert.Equal(t, "Water", drink["title"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "water", "color": "blue", "parts": float64(1)},
	}, drink["recipe"])

	status, body = env.do(t, http.MethodGet, "/drinks", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	drinks := body["drinks"].([]interface{})
	require.Len(t, drinks, 1)
	assert.Equal(t, map[string]interface{}{
		"id":     drink["id"],
		"title":  "Water",
		"recipe": []interface{}{map[string]interface{}{"color": "blue", "parts": "hidden"}},
	}, drinks[0])
}

func TestGetDrinksEmpty(t *testing.T) {
	env := setupTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/drinks", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{}, body["drinks"])
}

func TestGetDrinksDetail(t *testing.T) {
	env := setupTestEnv(t)
	env.seed(t, "Latte", models.Recipe{{Color: "brown", Name: "espresso", Parts: 1}, {Color: "white", Name: "milk", Parts: 3}})

	t.Run("without token", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/drinks-detail", "", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assertErrorEnvelope(t, body, http.StatusUnauthorized)
	})

	t.Run("without permission", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/drinks-detail", env.token(t, PermissionPostDrinks), "")
		assert.Equal(t, http.StatusForbidden, status)
		assertErrorEnvelope(t, body, http.StatusForbidden)
	})

	t.Run("with permission", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/drinks-detail", env.token(t, PermissionGetDrinksDetail), "")
		require.Equal(t, http.StatusOK, status)
		drinks := body["drinks"].([]interface{})
		require.Len(t, drinks, 1)
		recipe := drinks[0].(map[string]interface{})["recipe"].([]interface{})
		assert.Equal(t, map[string]interface{}{"color": "white", "name": "milk", "parts": float64(3)}, recipe[1])
	})
}

func TestCreateDrinkValidation(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, PermissionPostDrinks)

	testCases := []struct {
		name   string
		body   string
		status int
	}{
		{"missing title", `{"recipe":[{"name":"water","color":"blue","parts":1}]}`, http.StatusBadRequest},
		{"missing recipe", `{"title":"Water"}`, http.StatusBadRequest},
		{"null recipe", `{"title":"Water","recipe":null}`, http.StatusBadRequest},
		{"not json", `title=Water`, http.StatusBadRequest},
		{"json array", `[]`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"recipe wrong shape", `{"title":"Water","recipe":"water"}`, http.StatusUnprocessableEntity},
		{"title wrong type", `{"title":1,"recipe":[]}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/drinks", token, tt.body)
			assert.Equal(t, tt.status, status)
			assertErrorEnvelope(t, body, tt.status)
		})
	}
	assert.Equal(t, int64(0), env.count(t))
}

func TestCreateDrinkSingleIngredientObject(t *testing.T) {
	env := setupTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/drinks", env.token(t, PermissionPostDrinks),
		`{"title":"Water","recipe":{"name":"water","color":"blue","parts":1}}`)
	require.Equal(t, http.StatusOK, status)
	recipe := body["drinks"].(map[string]interface{})["recipe"].([]interface{})
	assert.Len(t, recipe, 1)
}

func TestCreateDrinkEmptyTitle(t *testing.T) {
	env := setupTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/drinks", env.token(t, PermissionPostDrinks), `{"title":"","recipe":[]}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "", body["drinks"].(map[string]interface{})["title"])
	assert.Equal(t, int64(1), env.count(t))
}

func TestCreateDrinkBodyTooLarge(t *testing.T) {
	env := setupTestEnv(t)
	body := `{"title":"` + strings.Repeat("a", maxDrinkBodyBytes) + `","recipe":[]}`

	status, response := env.do(t, http.MethodPost, "/drinks", env.token(t, PermissionPostDrinks), body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assertErrorEnvelope(t, response, http.StatusRequestEntityTooLarge)
	assert.Equal(t, int64(0), env.count(t))
}

func TestCreateDrinkDuplicateTitle(t *testing.T) {
	env := setupTestEnv(t)
	env.seed(t, "Water", models.Recipe{{Color: "blue", Name: "water", Parts: 1}})

	status, body := env.do(t, http.MethodPost, "/drinks", env.token(t, PermissionPostDrinks), waterBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assertErrorEnvelope(t, body, http.StatusBadRequest)
	assert.Equal(t, int64(1), env.count(t))
}

func TestCreateDrinkRequiresPermission(t *testing.T) {
	env := setupTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/drinks", "", waterBody)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodPost, "/drinks", env.token(t, PermissionPatchDrinks), waterBody)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, int64(0), env.count(t))
}

func TestUpdateDrink(t *testing.T) {
	env := setupTestEnv(t)
	latte := env.seed(t, "Latte", models.Recipe{{Color: "white", Name: "milk", Parts: 3}})
	mocha := env.seed(t, "Mocha", models.Recipe{{Color: "brown", Name: "chocolate", Parts: 1}})
	token := env.token(t, PermissionPatchDrinks)

	status, body := env.do(t, http.MethodPatch, fmt.Sprintf("/drinks/%d", latte.ID), token,
		`{"title":"Oat Latte","recipe":[{"name":"oat milk","color":"beige","parts":3}]}`)
	require.Equal(t, http.StatusOK, status)
	drink := body["drinks"].(map[string]interface{})
	assert.Equal(t, float64(latte.ID), drink["id"])
	assert.Equal(t, "Oat Latte", drink["title"])

	var reloaded models.Drink
	require.NoError(t, env.db.First(&reloaded, latte.ID).Error)
	assert.Equal(t, "Oat Latte", reloaded.Title)
	assert.Equal(t, models.Recipe{{Color: "beige", Name: "oat milk", Parts: 3}}, reloaded.Recipe)

	var untouched models.Drink
	require.NoError(t, env.db.First(&untouched, mocha.ID).Error)
	assert.Equal(t, "Mocha", untouched.Title)
}

func TestUpdateDrinkFailures(t *testing.T) {
	env := setupTestEnv(t)
	latte := env.seed(t, "Latte", models.Recipe{{Color: "white", Name: "milk", Parts: 3}})
	env.seed(t, "Mocha", models.Recipe{{Color: "brown", Name: "chocolate", Parts: 1}})
	token := env.token(t, PermissionPatchDrinks)
	latteURL := fmt.Sprintf("/drinks/%d", latte.ID)

	testCases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown id", "/drinks/999", waterBody, http.StatusNotFound},
		{"unknown id with malformed recipe", "/drinks/999", `{"title":"Water","recipe":"water"}`, http.StatusNotFound},
		{"unknown id without fields", "/drinks/999", `{}`, http.StatusNotFound},
		{"non numeric id", "/drinks/latte", waterBody, http.StatusNotFound},
		{"missing title", latteURL, `{"recipe":[]}`, http.StatusBadRequest},
		{"missing recipe", latteURL, `{"title":"Latte"}`, http.StatusBadRequest},
		{"title taken by another drink", latteURL, `{"title":"Mocha","recipe":[]}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPatch, tt.path, token, tt.body)
			assert.Equal(t, tt.status, status)
			assertErrorEnvelope(t, body, tt.status)
		})
	}

	status, _ := env.do(t, http.MethodPatch, latteURL, env.token(t, PermissionPostDrinks), waterBody)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestDeleteDrink(t *testing.T) {
	env := setupTestEnv(t)
	latte := env.seed(t, "Latte", models.Recipe{{Color: "white", Name: "milk", Parts: 3}})
	token := env.token(t, PermissionDeleteDrinks)
	path := fmt.Sprintf("/drinks/%d", latte.ID)

	status, body := env.do(t, http.MethodDelete, path, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(latte.ID), body["delete"])
	assert.Equal(t, int64(0), env.count(t))

	status, body = env.do(t, http.MethodDelete, path, token, "")
	assert.Equal(t, http.StatusNotFound, status)
	assertErrorEnvelope(t, body, http.StatusNotFound)

	status, _ = env.do(t, http.MethodDelete, "/drinks/1", env.token(t, PermissionPatchDrinks), "")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	env := setupTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/menu", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assertErrorEnvelope(t, body, http.StatusNotFound)

	status, body = env.do(t, http.MethodPut, "/drinks-detail", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assertErrorEnvelope(t, body, http.StatusMethodNotAllowed)
}

// failingService simulates a broken store
type failingService struct{}

var errStoreDown = errors.New("database is locked")

func (failingService) GetAllDrinks(context.Context) ([]models.Drink, error) {
	return nil, errStoreDown
}

func (failingService) GetDrinkByID(context.Context, uint) (models.Drink, error) {
	return models.Drink{}, errStoreDown
}

func (failingService) CreateDrink(context.Context, string, models.Recipe) (models.Drink, error) {
	return models.Drink{}, errStoreDown
}

func (failingService) UpdateDrink(context.Context, uint, string, models.Recipe) (models.Drink, error) {
	return models.Drink{}, fmt.Errorf("updating drink: %w", errStoreDown)
}

func (failingService) DeleteDrink(context.Context, uint) error {
	return errStoreDown
}

func TestStorageErrorsCollapseTo422(t *testing.T) {
	router, issuer := newRouter(t, failingService{})
	env := &testEnv{router: router, issuer: issuer}
	all := env.token(t, PermissionGetDrinksDetail, PermissionPostDrinks, PermissionPatchDrinks, PermissionDeleteDrinks)

	testCases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/drinks", ""},
		{http.MethodGet, "/drinks-detail", ""},
		{http.MethodPost, "/drinks", waterBody},
		{http.MethodPatch, "/drinks/1", waterBody},
		{http.MethodDelete, "/drinks/1", ""},
	}

	for _, tt := range testCases {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, body := env.do(t, tt.method, tt.path, all, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assertErrorEnvelope(t, body, http.StatusUnprocessableEntity)
			assert.Equal(t, "unprocessable", body["message"])
			assert.NotContains(t, fmt.Sprint(body), "locked")
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("wrapped: %w", services.ErrDrinkTitleTaken)))
	assert.Equal(t, http.StatusNotFound, statusFor(services.ErrDrinkNotFound))
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusFor(fmt.Errorf("%w: limit", errBodyTooLarge)))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errors.New("anything else")))
}
