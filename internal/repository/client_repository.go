package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"designmatch/internal/database"
)

var ErrClientNotFound = errors.New("client not found")

type Client struct {
	ID        uuid.UUID
	Email     string
	Credits   int
	CreatedAt time.Time
}

type ClientRepository interface {
	UpsertByEmail(ctx context.Context, email string) (Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (Client, error)
	GetByEmail(ctx context.Context, email string) (Client, error)
}

type PostgresClientRepository struct {
	db database.DB
}

func NewPostgresClientRepository(db database.DB) *PostgresClientRepository {
	return &PostgresClientRepository{db: db}
}

func (r *PostgresClientRepository) UpsertByEmail(ctx context.Context, email string) (Client, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO clients (id, email)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id, email, credits, created_at`,
		uuid.New(), email,
	)

	var c Client
	if err := row.Scan(&c.ID, &c.Email, &c.Credits, &c.CreatedAt); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (r *PostgresClientRepository) GetByID(ctx context.Context, id uuid.UUID) (Client, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, credits, created_at FROM clients WHERE id = $1`, id)

	var c Client
	if err := row.Scan(&c.ID, &c.Email, &c.Credits, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrClientNotFound
		}
		return Client{}, err
	}
	return c, nil
}

func (r *PostgresClientRepository) GetByEmail(ctx context.Context, email string) (Client, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, credits, created_at FROM clients WHERE email = $1`, email)

	var c Client
	if err := row.Scan(&c.ID, &c.Email, &c.Credits, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrClientNotFound
		}
		return Client{}, err
	}
	return c, nil
}
