package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"night_shift_app_go/config"
	"night_shift_app_go/db"
	"night_shift_app_go/models"
	"night_shift_app_go/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.LoginToken{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New User ===")
	fmt.Println()

	fmt.Print("Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.ToLower(strings.TrimSpace(email))

	fmt.Print("Password (optional, leave empty for magic-link only): ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	// Validate inputs
	if name == "" || email == "" {
		log.Fatal("Name and email are required")
	}

	if password != "" && len(password) < 8 {
		log.Fatal("Password must be at least 8 characters long")
	}

	// Check if user already exists
	var existingUser models.User
	if err := db.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		log.Fatalf("User with email %s already exists", email)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		IsActive: true,
	}

	if password != "" {
		hashedPassword, err := services.HashPassword(password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user.Password = hashedPassword
	}

	if err := db.DB.Create(user).Error; err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println()
	fmt.Printf("User created: %s <%s> (id: %s)\n", user.Name, user.Email, user.ID)
}
