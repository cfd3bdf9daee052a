package main

import (
	"flag"
	"fmt"
	"log"

	"secret-santa-backend/internal/config"
	"secret-santa-backend/internal/repositories"
	"secret-santa-backend/internal/utils"
	"secret-santa-backend/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Initialize database
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// Run migrations
	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	log.Println("✅ Database migrations completed successfully")

	if cfg.AdminPasswordHash == "" {
		log.Println("ℹ️  ADMIN_PASSWORD_HASH not set; admin login will use the plain ADMIN_PASSWORD secret")
		log.Println("   Generate a hash with: go run scripts/migrate.go -hash-password <password>")
	}

	log.Println("🎉 Migration process completed!")
}
