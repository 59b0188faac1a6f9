package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/franciscosanchezn/coffee-shop-api/docs" // Import generated docs
	"github.com/franciscosanchezn/coffee-shop-api/internal/auth"
	"github.com/franciscosanchezn/coffee-shop-api/internal/config"
	"github.com/franciscosanchezn/coffee-shop-api/internal/controllers"
	"github.com/franciscosanchezn/coffee-shop-api/internal/database"
	"github.com/franciscosanchezn/coffee-shop-api/internal/middleware"
	"github.com/franciscosanchezn/coffee-shop-api/internal/services"
	"github.com/franciscosanchezn/coffee-shop-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// application holds everything the HTTP layer needs. It is built once in main
// and handed to the router explicitly.
type application struct {
	config   *config.Config
	db       *gorm.DB
	verifier *auth.Verifier
	issuer   *auth.Issuer
	drinks   controllers.DrinkController
}

// @title Coffee Shop API
// @version 1.0
// @description Drinks menu of the coffee shop
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()
	applyLogLevel(configuration)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db := setupDatabase(ctx, configuration)
	defer database.Close(db)

	// Initialize token verification
	verifier, issuer := setupAuth(ctx, configuration)

	app := &application{
		config:   configuration,
		db:       db,
		verifier: verifier,
		issuer:   issuer,
		drinks:   controllers.NewDrinkController(services.NewDrinkService(db), validation.MustNewValidator()),
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%v:%d", configuration.Host, configuration.Port),
		Handler:           withCORS(app.setupRouter(), configuration.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), configuration.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	log.SetLevel(config.LevelForEnvironment(environment))
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

// applyLogLevel sets the level derived from APP_ENV and LOG_LEVEL on every package logger
func applyLogLevel(conf *config.Config) {
	level := conf.Level()
	log.SetLevel(level)
	database.SetLevel(level)
	auth.SetLevel(level)
	middleware.SetLevel(level)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema.
// With DB_RESET the drinks table is dropped and seeded from scratch.
func setupDatabase(ctx context.Context, conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(ctx, database.FromConfig(conf))
	checkPanicErr(err)

	if conf.DBReset {
		checkPanicErr(database.ResetSchema(ctx, db))
	} else {
		checkPanicErr(database.Migrate(ctx, db))
	}
	return db
}

// setupAuth builds the trusted key set once. The issuer is only available
// when a local secret is configured.
func setupAuth(ctx context.Context, conf *config.Config) (*auth.Verifier, *auth.Issuer) {
	keys := auth.NewKeySet()
	if conf.JWKSURL != "" {
		client := &http.Client{Timeout: 10 * time.Second}
		checkPanicErr(keys.LoadJWKS(ctx, client, conf.JWKSURL))
	}

	var issuer *auth.Issuer
	if conf.JWTSecret != "" {
		keys.AddHMAC(auth.LocalKeyID, []byte(conf.JWTSecret))
		var err error
		issuer, err = auth.NewIssuer([]byte(conf.JWTSecret), conf.Issuer, conf.Audience)
		checkPanicErr(err)
	}

	log.WithField("trusted_keys", keys.Len()).Info("Token verification configured")
	return auth.NewVerifier(keys, conf.Issuer, conf.Audience), issuer
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func (app *application) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery())
	router.HandleMethodNotAllowed = true
	router.NoRoute(controllers.NotFound)
	router.NoMethod(controllers.MethodNotAllowed)

	app.setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func (app *application) setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// Locally signed tokens are a development convenience only
	if app.config.IsDevelopment() && app.issuer != nil {
		log.Warn("Development token endpoint enabled at /test-token")
		router.GET("/test-token", controllers.NewTokenController(app.issuer).IssueTestToken)
	}

	controllers.RegisterDrinkRoutes(router, app.drinks, app.verifier)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// withCORS allows browser clients of the configured origins to call the API
func withCORS(h http.Handler, origins []string) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
	)(h)
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "coffee-shop-api",
	})
}
