// Package main provides admin account management for the brokerage backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"brokerage/internal/config"
	"brokerage/internal/database"
	"brokerage/internal/models"
	"brokerage/internal/repository"
	"brokerage/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin create <email> <name> <password>   - Create an admin account")
		fmt.Println("  go run ./cmd/admin reset-password <email> <password>  - Replace an admin password")
		fmt.Println("  go run ./cmd/admin list                               - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	auth := service.NewAuthService(repository.NewAdminRepository(db), cfg.JWTSecret)
	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		if len(os.Args) < 5 {
			fmt.Println("Usage: go run ./cmd/admin create <email> <name> <password>")
			os.Exit(1)
		}
		admin, err := auth.CreateAdmin(ctx, service.CreateAdminInput{
			Email:    os.Args[2],
			Name:     os.Args[3],
			Password: os.Args[4],
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("✅ Created admin %s (ID: %d)\n", admin.Email, admin.ID)

	case "reset-password":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin reset-password <email> <password>")
			os.Exit(1)
		}
		if err := auth.ResetPassword(ctx, os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
		fmt.Printf("✅ Password updated for %s\n", os.Args[2])

	case "list":
		admins, err := auth.ListAdmins(ctx)
		if err != nil {
			fail(err)
		}
		if len(admins) == 0 {
			fmt.Println("No admins found")
			return
		}
		fmt.Printf("Found %d admin(s):\n", len(admins))
		for _, a := range admins {
			fmt.Printf("  - %s <%s> (ID: %d, created %s)\n", a.Name, a.Email, a.ID, a.CreatedAt.Format("2006-01-02"))
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func fail(err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		keys := make([]string, 0, len(appErr.Fields))
		for k := range appErr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println(appErr.Message)
		for _, k := range keys {
			fmt.Printf("  %s: %s\n", k, appErr.Fields[k])
		}
		os.Exit(1)
	}
	log.Fatalf("%v", err)
}
