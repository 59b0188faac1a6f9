package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/franciscosanchezn/coffee-shop-api/internal/auth"
	"github.com/franciscosanchezn/coffee-shop-api/internal/config"
	"github.com/franciscosanchezn/coffee-shop-api/internal/controllers"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// rolePermissions are the permission sets granted to each staff role
var rolePermissions = map[string][]string{
	"barista": {controllers.PermissionGetDrinksDetail},
	"manager": {
		controllers.PermissionGetDrinksDetail,
		controllers.PermissionPostDrinks,
		controllers.PermissionPatchDrinks,
		controllers.PermissionDeleteDrinks,
	},
}

func main() {
	// Parse command line flags
	role := flag.String("role", "manager", "Staff role (barista or manager)")
	subject := flag.String("subject", "", "Token subject (defaults to <role>@coffee-shop)")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	log.SetFormatter(&log.JSONFormatter{})
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	permissions, ok := rolePermissions[*role]
	if !ok {
		log.Fatalf("Unknown role %q", *role)
	}
	if *subject == "" {
		*subject = fmt.Sprintf("%s@coffee-shop", *role)
	}

	secret := os.Getenv("JWT_SECRET")
	issuer, err := auth.NewIssuer(
		[]byte(secret),
		config.GetEnvWithDefault("JWT_ISSUER", "coffee-shop-api"),
		config.GetEnvWithDefault("API_AUDIENCE", "drinks"),
	)
	if err != nil {
		log.WithError(err).Fatal("Set JWT_SECRET to mint development tokens")
	}

	token, err := issuer.Issue(*subject, permissions, *ttl)
	if err != nil {
		log.WithError(err).Fatal("Failed to sign token")
	}

	fmt.Printf("Development token for role '%s' (%s)\n", *role, strings.Join(permissions, ", "))
	fmt.Printf("Subject: %s\n", *subject)
	fmt.Printf("Expires in: %s\n", *ttl)
	fmt.Println("\nUse it for testing:")
	fmt.Printf("curl -H 'Authorization: Bearer %s' http://localhost:8080/drinks-detail\n", token)
}
