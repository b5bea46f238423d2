package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_data (
			user_id UUID PRIMARY KEY,
			user_phone TEXT,
			whatsapp_integrated BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("create user_data table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			profiles_id UUID PRIMARY KEY,
			female_user_id UUID NOT NULL,
			male_user_id UUID NOT NULL,
			profile_status TEXT NOT NULL DEFAULT '',
			female_nudge_status TEXT NOT NULL DEFAULT '',
			male_nudge_status TEXT NOT NULL DEFAULT '',
			female_allow_two_way_conversation BOOLEAN NOT NULL DEFAULT FALSE,
			male_allow_two_way_conversation BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS whatsapp_messages (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID,
			msg_content TEXT NOT NULL,
			msg_id TEXT,
			phone_number TEXT NOT NULL,
			sent_by TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("create whatsapp_messages table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_personas (
			user_id UUID PRIMARY KEY,
			user_persona JSONB NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create user_personas table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_metadata (
			user_id UUID PRIMARY KEY,
			name TEXT,
			gender TEXT,
			height TEXT,
			religion TEXT,
			hometown TEXT,
			work_exp TEXT,
			education TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("create user_metadata table: %w", err)
	}

	// History reads filter by user_id or phone_number, ordered by created_at.
	_, err = p.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS whatsapp_messages_user_created_idx
			ON whatsapp_messages (user_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("create whatsapp_messages index: %w", err)
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
