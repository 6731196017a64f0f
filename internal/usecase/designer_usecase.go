package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"designmatch/internal/domain/designer"
	"designmatch/internal/repository"
)

var ErrDesignerNotFound = errors.New("designer not found")

type DesignerUsecase interface {
	Get(ctx context.Context, id uuid.UUID) (designer.Designer, error)
	// SetApproval flips moderation state. Admin only; enforced at the
	// transport layer.
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) (designer.Designer, error)
}

type Designers struct {
	designers repository.DesignerRepository
	logger    *zap.Logger
}

func NewDesignerUsecase(designers repository.DesignerRepository, logger *zap.Logger) *Designers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Designers{designers: designers, logger: logger}
}

func (u *Designers) Get(ctx context.Context, id uuid.UUID) (designer.Designer, error) {
	if id == uuid.Nil {
		return designer.Designer{}, ErrDesignerNotFound
	}
	d, err := u.designers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDesignerNotFound) {
			return designer.Designer{}, ErrDesignerNotFound
		}
		return designer.Designer{}, ErrInternal
	}
	return d, nil
}

func (u *Designers) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (designer.Designer, error) {
	if err := u.designers.SetApproval(ctx, id, approved); err != nil {
		if errors.Is(err, repository.ErrDesignerNotFound) {
			return designer.Designer{}, ErrDesignerNotFound
		}
		u.logger.Error("designer approval update failed", zap.Stringer("designer_id", id), zap.Error(err))
		return designer.Designer{}, ErrInternal
	}

	d, err := u.designers.FindByID(ctx, id)
	if err != nil {
		return designer.Designer{}, ErrInternal
	}
	u.logger.Info("designer moderation updated",
		zap.Stringer("designer_id", id),
		zap.Bool("approved", approved),
	)
	return d, nil
}
