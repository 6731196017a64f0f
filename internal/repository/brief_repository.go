package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"designmatch/internal/database"
)

var ErrBriefNotFound = errors.New("brief not found")

// BriefRecord is a stored brief: the raw field map as submitted (legacy or
// current key set) plus ownership. Normalization happens in the domain layer,
// never here.
type BriefRecord struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Fields    map[string]any
	CreatedAt time.Time
}

type BriefRepository interface {
	Insert(ctx context.Context, clientID uuid.UUID, fields map[string]any) (BriefRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (BriefRecord, error)
}

type PostgresBriefRepository struct {
	db database.DB
}

func NewPostgresBriefRepository(db database.DB) *PostgresBriefRepository {
	return &PostgresBriefRepository{db: db}
}

func (r *PostgresBriefRepository) Insert(ctx context.Context, clientID uuid.UUID, fields map[string]any) (BriefRecord, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return BriefRecord{}, err
	}

	rec := BriefRecord{ID: uuid.New(), ClientID: clientID, Fields: fields}
	row := r.db.QueryRow(ctx,
		`INSERT INTO briefs (id, client_id, fields)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		rec.ID, rec.ClientID, payload,
	)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return BriefRecord{}, err
	}
	return rec, nil
}

func (r *PostgresBriefRepository) FindByID(ctx context.Context, id uuid.UUID) (BriefRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, client_id, fields, created_at FROM briefs WHERE id = $1`, id)

	var rec BriefRecord
	var payload []byte
	if err := row.Scan(&rec.ID, &rec.ClientID, &payload, &rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return BriefRecord{}, ErrBriefNotFound
		}
		return BriefRecord{}, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &rec.Fields); err != nil {
			return BriefRecord{}, err
		}
	}
	return rec, nil
}
