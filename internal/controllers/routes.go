package controllers

import (
	"github.com/franciscosanchezn/coffee-shop-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Permissions required by the drink routes
const (
	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

// RegisterDrinkRoutes mounts the drink endpoints on router
func RegisterDrinkRoutes(router gin.IRouter, drinks DrinkController, verifier middleware.TokenVerifier) {
	router.GET("/drinks", drinks.GetDrinks)
	router.GET("/drinks-detail",
		middleware.RequiresAuth(verifier, PermissionGetDrinksDetail), drinks.GetDrinksDetail)
	router.POST("/drinks",
		middleware.RequiresAuth(verifier, PermissionPostDrinks), drinks.CreateDrink)
	router.PATCH("/drinks/:id",
		middleware.RequiresAuth(verifier, PermissionPatchDrinks), drinks.UpdateDrink)
	router.DELETE("/drinks/:id",
		middleware.RequiresAuth(verifier, PermissionDeleteDrinks), drinks.DeleteDrink)
}
