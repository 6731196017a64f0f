package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"designmatch/internal/domain/brief"
	"designmatch/internal/repository"
)

type BriefUsecase interface {
	// Submit validates and stores a brief. The raw field map is kept verbatim
	// so briefs submitted under older client versions keep their original
	// shape; normalization happens on every read.
	Submit(ctx context.Context, clientID uuid.UUID, fields map[string]any) (brief.Brief, error)
	Get(ctx context.Context, clientID, briefID uuid.UUID) (brief.Brief, error)
}

type Briefs struct {
	briefs repository.BriefRepository
}

func NewBriefUsecase(briefs repository.BriefRepository) *Briefs {
	return &Briefs{briefs: briefs}
}

func (u *Briefs) Submit(ctx context.Context, clientID uuid.UUID, fields map[string]any) (brief.Brief, error) {
	if clientID == uuid.Nil {
		return brief.Brief{}, ErrUnauthorized
	}

	// Reject incomplete briefs up front rather than at match time.
	b, err := brief.Normalize(fields)
	if err != nil {
		return brief.Brief{}, err
	}

	rec, err := u.briefs.Insert(ctx, clientID, fields)
	if err != nil {
		return brief.Brief{}, ErrInternal
	}

	b.ID = rec.ID
	b.ClientID = rec.ClientID
	b.CreatedAt = rec.CreatedAt
	return b, nil
}

func (u *Briefs) Get(ctx context.Context, clientID, briefID uuid.UUID) (brief.Brief, error) {
	if clientID == uuid.Nil {
		return brief.Brief{}, ErrUnauthorized
	}

	rec, err := u.briefs.FindByID(ctx, briefID)
	if err != nil {
		if errors.Is(err, repository.ErrBriefNotFound) {
			return brief.Brief{}, ErrBriefNotFound
		}
		return brief.Brief{}, ErrInternal
	}
	if rec.ClientID != clientID {
		return brief.Brief{}, ErrBriefNotFound
	}

	b, err := brief.Normalize(rec.Fields)
	if err != nil {
		return brief.Brief{}, err
	}
	b.ID = rec.ID
	b.ClientID = rec.ClientID
	b.CreatedAt = rec.CreatedAt
	return b, nil
}
