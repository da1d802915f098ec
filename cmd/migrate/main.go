package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/empdesk/empdesk/infrastructure/db"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	if err := db.Migrate(dsn, strings.ToLower(*direction)); err != nil {
		log.Fatalf("migration %s failed: %v", *direction, err)
	}
	log.Printf("Migration %s completed successfully", *direction)
}
