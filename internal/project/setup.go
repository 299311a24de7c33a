package project

import (
	"log"

	"github.com/devfolio/portfolio-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "portfolio"); err != nil {
		log.Fatal("Failed to ensure schema portfolio: ", err)
	}

	if err := db.DB.AutoMigrate(&Project{}); err != nil {
		log.Fatal("Failed to auto-migrate project tables: ", err)
	}
}
