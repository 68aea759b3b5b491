package server

import (
	"github.com/google/uuid"
	"github.com/yourusername/pitwall/internal/leaderboard"
	"github.com/yourusername/pitwall/internal/live"
)

// ScoringNotifier reacts to completed scoring runs: it drops the stale
// leaderboard cache entries and pushes a live event to connected clients.
type ScoringNotifier struct {
	leaderboards *leaderboard.Service
	hub          *live.Hub
}

// NewScoringNotifier creates a notifier. Either argument may be nil.
func NewScoringNotifier(leaderboards *leaderboard.Service, hub *live.Hub) *ScoringNotifier {
	return &ScoringNotifier{leaderboards: leaderboards, hub: hub}
}

// RaceScored implements the scoring service's notifier contract
func (n *ScoringNotifier) RaceScored(raceID, seasonID uuid.UUID) {
	if n.leaderboards != nil {
		n.leaderboards.Invalidate(raceID, seasonID)
	}
	if n.hub != nil {
		n.hub.RaceScored(raceID, seasonID)
	}
}
