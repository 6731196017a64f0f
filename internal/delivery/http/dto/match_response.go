package dto

import (
	"time"

	"github.com/google/uuid"

	"designmatch/internal/domain/match"
	"designmatch/internal/domain/scoring"
	"designmatch/internal/usecase"
)

// RankedDesignerResponse is one entry of the ranked match list.
type RankedDesignerResponse struct {
	Designer            DesignerResponse `json:"designer"`
	Score               float64          `json:"score"`
	Confidence          string           `json:"confidence"`
	Reasons             []string         `json:"reasons,omitempty"`
	PersonalizedReasons []string         `json:"personalized_reasons,omitempty"`
	ScoreBreakdown      match.Breakdown  `json:"score_breakdown"`
	AIAnalyzed          bool             `json:"ai_analyzed"`
}

func fromRanked(r scoring.Ranked) RankedDesignerResponse {
	return RankedDesignerResponse{
		Designer:            FromDesigner(r.Designer),
		Score:               r.Result.Score,
		Confidence:          r.Result.Confidence,
		Reasons:             r.Result.Reasons,
		PersonalizedReasons: r.PersonalizedReasons,
		ScoreBreakdown:      r.Result.Breakdown,
		AIAnalyzed:          r.AIAnalyzed,
	}
}

// MatchResponse is a persisted match row.
type MatchResponse struct {
	ID             uuid.UUID       `json:"id"`
	BriefID        uuid.UUID       `json:"brief_id"`
	DesignerID     uuid.UUID       `json:"designer_id"`
	Score          float64         `json:"score"`
	Confidence     string          `json:"confidence"`
	Reasons        []string        `json:"reasons,omitempty"`
	ScoreBreakdown match.Breakdown `json:"score_breakdown"`
	AIAnalyzed     bool            `json:"ai_analyzed"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

func FromMatch(m match.Match) MatchResponse {
	return MatchResponse{
		ID:             m.ID,
		BriefID:        m.BriefID,
		DesignerID:     m.DesignerID,
		Score:          m.Score,
		Confidence:     m.Confidence,
		Reasons:        m.Reasons,
		ScoreBreakdown: m.Breakdown,
		AIAnalyzed:     m.AIAnalyzed,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
	}
}

// MatchRequestResponse is the body for both the ranked-list and best-only
// endpoints. BriefData echoes the normalized brief the scores were computed
// against. Matches is empty when Outcome is not "matched".
type MatchRequestResponse struct {
	Outcome   string                   `json:"outcome"`
	Message   string                   `json:"message,omitempty"`
	BriefID   uuid.UUID                `json:"brief_id"`
	BriefData BriefResponse            `json:"brief_data"`
	Matches   []RankedDesignerResponse `json:"matches"`
	BestMatch *MatchResponse           `json:"best_match,omitempty"`
	FromCache bool                     `json:"from_cache"`
}

func FromMatchResult(res usecase.MatchResult) MatchRequestResponse {
	out := MatchRequestResponse{
		Outcome:   res.Outcome,
		Message:   res.Message,
		BriefID:   res.BriefID,
		BriefData: FromBrief(res.Brief),
		Matches:   make([]RankedDesignerResponse, 0, len(res.Ranked)),
		FromCache: res.FromCache,
	}
	for _, r := range res.Ranked {
		out.Matches = append(out.Matches, fromRanked(r))
	}
	if res.Best != nil {
		best := FromMatch(*res.Best)
		out.BestMatch = &best
	}
	return out
}
