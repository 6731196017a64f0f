package match

import (
	"time"

	"github.com/google/uuid"
)

// Match statuses. A match is active until it expires; at most one active
// match exists per (brief, designer) pair.
const (
	StatusPending  = "pending"
	StatusUnlocked = "unlocked"
	StatusExpired  = "expired"
)

// Confidence buckets.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Breakdown holds the per-dimension sub-scores summing (before clamping) to
// the total score.
type Breakdown struct {
	Category     float64 `json:"category"`
	Style        float64 `json:"style"`
	Budget       float64 `json:"budget"`
	Timeline     float64 `json:"timeline"`
	Industry     float64 `json:"industry"`
	WorkingStyle float64 `json:"workingStyle"`
}

// Match is the persisted outcome of scoring one designer against one brief
// for one client.
type Match struct {
	ID         uuid.UUID
	BriefID    uuid.UUID
	DesignerID uuid.UUID
	ClientID   uuid.UUID

	Score      float64
	Confidence string
	Reasons    []string
	Breakdown  Breakdown

	// AIAnalyzed is false when the deterministic scorer produced the result,
	// including the fallback path after AI retries exhaust.
	AIAnalyzed bool

	Status    string
	CreatedAt time.Time
}

// Active reports whether the match still blocks a new match for the same
// brief and designer.
func (m Match) Active() bool {
	return m.Status == StatusPending || m.Status == StatusUnlocked
}

// ConfidenceForScore buckets a total score.
func ConfidenceForScore(score float64) string {
	switch {
	case score >= 75:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
