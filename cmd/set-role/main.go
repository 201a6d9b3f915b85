package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/maintenance-api/internal/config"
	"github.com/dimitrije/maintenance-api/internal/database"
	"github.com/dimitrije/maintenance-api/internal/services"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: set-role <email> <ADMIN|MAINTENANCE_MANAGER|TECHNICIAN|EMPLOYEE>")
		os.Exit(1)
	}

	email, role := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	user, err := services.NewUserService(db).SetRole(ctx, email, role)
	if err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	fmt.Printf("Successfully set role of %s to %s\n", user.Email, user.Role)
}
