package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"designmatch/internal/database"
	"designmatch/internal/domain/match"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNotPending     = errors.New("match not pending")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

const matchColumns = `id, brief_id, designer_id, client_id, score, confidence,
	reasons, score_breakdown, ai_analyzed, status, created_at`

type MatchRepository interface {
	// Insert persists a pending match. When an active match already exists
	// for the (brief, designer) pair the existing row is returned: a caller
	// retry is idempotent success, never a conflict error.
	Insert(ctx context.Context, m match.Match) (match.Match, error)
	FindByID(ctx context.Context, id uuid.UUID) (match.Match, error)
	// Unlock spends one of the client's credits and moves the match from
	// pending to unlocked, atomically.
	Unlock(ctx context.Context, matchID, clientID uuid.UUID) (match.Match, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

func (r *PostgresMatchRepository) Insert(ctx context.Context, m match.Match) (match.Match, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = match.StatusPending
	}

	breakdown, err := json.Marshal(m.Breakdown)
	if err != nil {
		return match.Match{}, err
	}

	// The partial unique index on active (brief_id, designer_id) pairs makes
	// the insert a no-op when a live match already exists.
	if _, err := r.db.Exec(ctx,
		`INSERT INTO matches (id, brief_id, designer_id, client_id, score, confidence,
			reasons, score_breakdown, ai_analyzed, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT DO NOTHING`,
		m.ID, m.BriefID, m.DesignerID, m.ClientID, m.Score, m.Confidence,
		m.Reasons, breakdown, m.AIAnalyzed, m.Status,
	); err != nil {
		return match.Match{}, err
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE brief_id = $1 AND designer_id = $2 AND status IN ('pending', 'unlocked')`,
		m.BriefID, m.DesignerID,
	)
	return scanMatch(row)
}

func (r *PostgresMatchRepository) FindByID(ctx context.Context, id uuid.UUID) (match.Match, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)

	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) Unlock(ctx context.Context, matchID, clientID uuid.UUID) (match.Match, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return match.Match{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	row := tx.QueryRow(ctx,
		`SELECT status FROM matches WHERE id = $1 AND client_id = $2 FOR UPDATE`,
		matchID, clientID,
	)
	if err := row.Scan(&status); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, err
	}
	if status != match.StatusPending {
		return match.Match{}, ErrMatchNotPending
	}

	affected, err := tx.Exec(ctx,
		`UPDATE clients SET credits = credits - 1 WHERE id = $1 AND credits > 0`, clientID)
	if err != nil {
		return match.Match{}, err
	}
	if affected == 0 {
		return match.Match{}, ErrInsufficientCredits
	}

	if _, err := tx.Exec(ctx,
		`UPDATE matches SET status = $1 WHERE id = $2`, match.StatusUnlocked, matchID); err != nil {
		return match.Match{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return match.Match{}, err
	}

	return r.FindByID(ctx, matchID)
}

func scanMatch(row database.Row) (match.Match, error) {
	var m match.Match
	var breakdown []byte
	err := row.Scan(
		&m.ID, &m.BriefID, &m.DesignerID, &m.ClientID, &m.Score, &m.Confidence,
		&m.Reasons, &breakdown, &m.AIAnalyzed, &m.Status, &m.CreatedAt,
	)
	if err != nil {
		return match.Match{}, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &m.Breakdown); err != nil {
			return match.Match{}, err
		}
	}
	return m, nil
}
