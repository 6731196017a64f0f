package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"designmatch/internal/domain/match"
)

// MatchReadyEvent is pushed to a client when a match has been persisted for
// one of its briefs.
type MatchReadyEvent struct {
	Type       string    `json:"type"`
	MatchID    uuid.UUID `json:"match_id"`
	BriefID    uuid.UUID `json:"brief_id"`
	DesignerID uuid.UUID `json:"designer_id"`
	Score      float64   `json:"score"`
	Confidence string    `json:"confidence"`
	Timestamp  string    `json:"timestamp"`
}

// Notifier adapts the hub to the match engine's notification hook.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) MatchReady(clientID uuid.UUID, m match.Match) {
	if n == nil || n.hub == nil {
		return
	}

	evt := MatchReadyEvent{
		Type:       "match_ready",
		MatchID:    m.ID,
		BriefID:    m.BriefID,
		DesignerID: m.DesignerID,
		Score:      m.Score,
		Confidence: m.Confidence,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	n.hub.Send(clientID, b)
}
