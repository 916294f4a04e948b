package main

import (
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"server/internal/infra"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY,
	name          text NOT NULL,
	email         text NOT NULL,
	password_hash text NOT NULL,
	phone         text NOT NULL DEFAULT '',
	photo_id      text,
	photo_url     text,
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now()
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`,
	`CREATE TABLE IF NOT EXISTS donations (
	id             uuid PRIMARY KEY,
	user_id        uuid NOT NULL REFERENCES users (id),
	kind           text NOT NULL CHECK (kind IN ('clothes', 'fund')),
	status         text NOT NULL CHECK (status IN ('pending', 'confirmed', 'completed', 'failed')),
	amount_paise   bigint,
	payment_id     text,
	order_id       text,
	pickup_address text,
	pickup_date    date,
	items          jsonb,
	created_at     timestamptz NOT NULL DEFAULT now()
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS donations_payment_id_key ON donations (payment_id) WHERE payment_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS donations_user_created_idx ON donations (user_id, created_at DESC)`,
}

func main() {
	_ = godotenv.Load()

	logger := infra.NewLogger(os.Getenv("APP_ENV"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			logger.Fatal().Err(err).Int("statement", i).Msg("migration failed")
		}
	}
	logger.Info().Int("statements", len(statements)).Msg("schema up to date")
}
