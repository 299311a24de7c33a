// Seeds the initial admin account. Safe to run repeatedly: an existing
// account with the given email is left untouched.
//
// Usage: go run ./cmd/seed -email admin@example.com -password 'Secret1!' -name Admin
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load(".env.local")

	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	name := flag.String("name", "Admin", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	var exists bool
	err = conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM app_auth.users WHERE email = $1)", *email,
	).Scan(&exists)
	if err != nil {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}
	if exists {
		fmt.Printf("Account %s already exists, skipping\n", *email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	_, err = conn.Exec(
		`INSERT INTO app_auth.users (id, name, email, hashed_password, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'admin', $5, $5)`,
		uuid.NewString(), *name, *email, string(hash), now,
	)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin %s created\n", *email)
}
