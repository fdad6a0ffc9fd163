package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/gatherly/gatherly-api/config"
	"github.com/gatherly/gatherly-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "organizer@example.com"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, uuid.New().String(), email, hash, "Demo Organizer").Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	now := time.Now().UTC()
	events := []struct {
		title    string
		location string
		date     time.Time
		capacity int
	}{
		{"City Park Meetup", "Central Park", now.Add(72 * time.Hour), 25},
		{"Go Workshop", "Community Hall", now.Add(7 * 24 * time.Hour), 12},
	}
	for _, e := range events {
		opens := now.Add(60 * time.Second)
		_, err := db.Exec(`
			INSERT INTO events (id, title, description, location, date, capacity,
			                    creator_id, rsvp_open_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`, uuid.New().String(), e.title, "Seeded demo event.", e.location, e.date,
			e.capacity, userID, opens)
		if err != nil {
			log.Fatalf("failed to seed event %q: %v", e.title, err)
		}
		fmt.Printf("seeded event: %s (%d seats) on %s\n", e.title, e.capacity, e.date.Format(time.RFC3339))
	}
}
