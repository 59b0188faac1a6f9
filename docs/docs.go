// Package docs registers the Swagger 2.0 document served under /swagger.
// It mirrors the swag annotations on the handlers and is maintained by hand.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/drinks": {
            "get": {
                "description": "List every drink with ingredient names and quantities hidden",
                "produces": ["application/json"],
                "tags": ["drinks"],
                "summary": "List drinks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.drinksResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.APIError"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Create a drink with a unique title and its recipe",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["drinks"],
                "summary": "Create a drink",
                "parameters": [
                    {"description": "Drink title and recipe", "name": "drink", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.drinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.drinksResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.APIError"}}
                }
            }
        },
        "/drinks-detail": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List every drink with its full recipe",
                "produces": ["application/json"],
                "tags": ["drinks"],
                "summary": "List drink recipes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.drinksResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.APIError"}}
                }
            }
        },
        "/drinks/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Delete a drink by its ID",
                "produces": ["application/json"],
                "tags": ["drinks"],
                "summary": "Delete a drink",
                "parameters": [
                    {"type": "integer", "description": "Drink ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.deleteResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.APIError"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Replace title and recipe of an existing drink",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["drinks"],
                "summary": "Edit a drink",
                "parameters": [
                    {"type": "integer", "description": "Drink ID", "name": "id", "in": "path", "required": true},
                    {"description": "Drink title and recipe", "name": "drink", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.drinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.drinksResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/models.APIError"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.APIError"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check if the service is running",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/test-token": {
            "get": {
                "description": "Sign a token granting the comma separated permissions. Only mounted in development.",
                "produces": ["application/json"],
                "tags": ["development"],
                "summary": "Issue a development token",
                "parameters": [
                    {"type": "string", "default": "get:drinks-detail", "description": "Comma separated permissions", "name": "permissions", "in": "query"},
                    {"type": "string", "default": "dev-user", "description": "Token subject", "name": "subject", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.deleteResponse": {
            "type": "object",
            "properties": {
                "delete": {"type": "integer", "example": 1},
                "success": {"type": "boolean", "example": true}
            }
        },
        "controllers.drinkRequest": {
            "type": "object",
            "properties": {
                "recipe": {"type": "array", "items": {"$ref": "#/definitions/models.Ingredient"}},
                "title": {"type": "string", "example": "Water"}
            }
        },
        "controllers.drinksResponse": {
            "type": "object",
            "properties": {
                "drinks": {},
                "success": {"type": "boolean", "example": true}
            }
        },
        "models.APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "integer"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "models.Ingredient": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "name": {"type": "string"},
                "parts": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Coffee Shop API",
	Description:      "Drinks menu of the coffee shop",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
