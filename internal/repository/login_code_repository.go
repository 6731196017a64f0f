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

var ErrLoginCodeNotFound = errors.New("login code not found")

type LoginCode struct {
	ID        uuid.UUID
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) (LoginCode, error)
	FindActiveByEmail(ctx context.Context, email string, now time.Time) (LoginCode, error)
	Consume(ctx context.Context, id uuid.UUID) error
}

type PostgresLoginCodeRepository struct {
	db database.DB
}

func NewPostgresLoginCodeRepository(db database.DB) *PostgresLoginCodeRepository {
	return &PostgresLoginCodeRepository{db: db}
}

func (r *PostgresLoginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) (LoginCode, error) {
	// A fresh code invalidates any outstanding one for the same address.
	if _, err := r.db.Exec(ctx,
		`UPDATE login_codes SET consumed_at = NOW() WHERE email = $1 AND consumed_at IS NULL`, email); err != nil {
		return LoginCode{}, err
	}

	lc := LoginCode{
		ID:        uuid.New(),
		Email:     email,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt.UTC(),
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO login_codes (id, email, code_hash, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		lc.ID, lc.Email, lc.CodeHash, lc.ExpiresAt,
	)
	if err := row.Scan(&lc.CreatedAt); err != nil {
		return LoginCode{}, err
	}
	return lc, nil
}

func (r *PostgresLoginCodeRepository) FindActiveByEmail(ctx context.Context, email string, now time.Time) (LoginCode, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, code_hash, expires_at, created_at
		 FROM login_codes
		 WHERE email = $1 AND consumed_at IS NULL AND expires_at > $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		email, now.UTC(),
	)

	var lc LoginCode
	if err := row.Scan(&lc.ID, &lc.Email, &lc.CodeHash, &lc.ExpiresAt, &lc.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return LoginCode{}, ErrLoginCodeNotFound
		}
		return LoginCode{}, err
	}
	return lc, nil
}

func (r *PostgresLoginCodeRepository) Consume(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE login_codes SET consumed_at = NOW() WHERE id = $1 AND consumed_at IS NULL`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLoginCodeNotFound
	}
	return nil
}
