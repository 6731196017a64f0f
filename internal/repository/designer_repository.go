package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"designmatch/internal/database"
	"designmatch/internal/domain/designer"
)

var ErrDesignerNotFound = errors.New("designer not found")

const designerColumns = `id, display_name, email, primary_categories, secondary_categories,
	style_keywords, preferred_industries, preferred_project_size, turnaround_days,
	collaboration_style, is_verified, is_approved, rating, completed_projects,
	years_experience, created_at`

type DesignerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (designer.Designer, error)
	// FindCandidates returns verified, approved designers working in the
	// given category that do not already hold an active match against this
	// brief for this client.
	FindCandidates(ctx context.Context, category string, briefID, clientID uuid.UUID) ([]designer.Designer, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
	Insert(ctx context.Context, d designer.Designer) error
	Count(ctx context.Context) (int64, error)
}

type PostgresDesignerRepository struct {
	db database.DB
}

func NewPostgresDesignerRepository(db database.DB) *PostgresDesignerRepository {
	return &PostgresDesignerRepository{db: db}
}

func (r *PostgresDesignerRepository) FindByID(ctx context.Context, id uuid.UUID) (designer.Designer, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+designerColumns+` FROM designers WHERE id = $1`, id)

	d, err := scanDesigner(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return designer.Designer{}, ErrDesignerNotFound
		}
		return designer.Designer{}, err
	}
	return d, nil
}

func (r *PostgresDesignerRepository) FindCandidates(ctx context.Context, category string, briefID, clientID uuid.UUID) ([]designer.Designer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+designerColumns+`
		 FROM designers d
		 WHERE d.is_verified = TRUE
		   AND d.is_approved = TRUE
		   AND ($1 = ANY(d.primary_categories) OR $1 = ANY(d.secondary_categories))
		   AND NOT EXISTS (
			SELECT 1 FROM matches m
			WHERE m.brief_id = $2
			  AND m.client_id = $3
			  AND m.designer_id = d.id
			  AND m.status IN ('pending', 'unlocked')
		   )
		 ORDER BY d.rating DESC, d.completed_projects DESC, d.created_at ASC`,
		category, briefID, clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]designer.Designer, 0)
	for rows.Next() {
		d, err := scanDesigner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresDesignerRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE designers SET is_approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDesignerNotFound
	}
	return nil
}

func (r *PostgresDesignerRepository) Insert(ctx context.Context, d designer.Designer) error {
	turnaround, err := json.Marshal(d.TurnaroundDays)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO designers (`+designerColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		d.ID, d.DisplayName, d.Email, d.PrimaryCategories, d.SecondaryCategories,
		d.StyleKeywords, d.PreferredIndustries, d.PreferredProjectSize, turnaround,
		d.CollaborationStyle, d.IsVerified, d.IsApproved, d.Rating, d.CompletedProjects,
		d.YearsExperience, d.CreatedAt,
	)
	return err
}

func (r *PostgresDesignerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM designers`)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanDesigner(row scannable) (designer.Designer, error) {
	var d designer.Designer
	var turnaround []byte
	err := row.Scan(
		&d.ID, &d.DisplayName, &d.Email, &d.PrimaryCategories, &d.SecondaryCategories,
		&d.StyleKeywords, &d.PreferredIndustries, &d.PreferredProjectSize, &turnaround,
		&d.CollaborationStyle, &d.IsVerified, &d.IsApproved, &d.Rating, &d.CompletedProjects,
		&d.YearsExperience, &d.CreatedAt,
	)
	if err != nil {
		return designer.Designer{}, err
	}
	if len(turnaround) > 0 {
		if err := json.Unmarshal(turnaround, &d.TurnaroundDays); err != nil {
			return designer.Designer{}, err
		}
	}
	return d, nil
}
