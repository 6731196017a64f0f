package dto

import (
	"time"

	"github.com/google/uuid"

	"designmatch/internal/domain/brief"
)

type BriefResponse struct {
	ID             uuid.UUID `json:"id"`
	Category       string    `json:"category"`
	TimelineBucket string    `json:"timeline_bucket"`
	BudgetBucket   string    `json:"budget_bucket"`
	Description    string    `json:"description"`
	Styles         []string  `json:"styles,omitempty"`
	Industry       string    `json:"industry,omitempty"`
	Involvement    string    `json:"involvement,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromBrief(b brief.Brief) BriefResponse {
	return BriefResponse{
		ID:             b.ID,
		Category:       b.Category,
		TimelineBucket: b.TimelineBucket,
		BudgetBucket:   b.BudgetBucket,
		Description:    b.Description,
		Styles:         b.Styles,
		Industry:       b.Industry,
		Involvement:    b.Involvement,
		CreatedAt:      b.CreatedAt,
	}
}
