// Package leaderboard serves ranked race and season standings with a
// short-lived in-memory cache in front of the database.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/repository"
)

// Service reads leaderboards through a TTL cache. The cache is
// invalidated eagerly when a race gets scored, so the TTL only bounds
// staleness for out-of-band database edits.
type Service struct {
	scores repository.ScoreRepository
	cache  *gocache.Cache
	logger *logrus.Logger
}

// NewService creates a leaderboard service with the given cache TTL
func NewService(repos *repository.Repositories, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		scores: repos.Score,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Season returns the ranked season leaderboard
func (s *Service) Season(ctx context.Context, seasonID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	key := "season:" + seasonID.String()
	if cached, found := s.cache.Get(key); found {
		metrics.RecordLeaderboardCacheHit()
		return cached.([]*models.LeaderboardEntry), nil
	}
	metrics.RecordLeaderboardCacheMiss()

	entries, err := s.scores.GetSeasonLeaderboard(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load season leaderboard: %w", err)
	}

	assignRanks(entries)
	s.cache.SetDefault(key, entries)
	return entries, nil
}

// Race returns the ranked leaderboard for a single race
func (s *Service) Race(ctx context.Context, raceID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	key := "race:" + raceID.String()
	if cached, found := s.cache.Get(key); found {
		metrics.RecordLeaderboardCacheHit()
		return cached.([]*models.LeaderboardEntry), nil
	}
	metrics.RecordLeaderboardCacheMiss()

	entries, err := s.scores.GetRaceLeaderboard(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load race leaderboard: %w", err)
	}

	assignRanks(entries)
	s.cache.SetDefault(key, entries)
	return entries, nil
}

// Invalidate drops the cached leaderboards touched by a scoring run
func (s *Service) Invalidate(raceID, seasonID uuid.UUID) {
	s.cache.Delete("race:" + raceID.String())
	s.cache.Delete("season:" + seasonID.String())
	s.logger.WithFields(logrus.Fields{
		"race_id":   raceID,
		"season_id": seasonID,
	}).Debug("Leaderboard cache invalidated")
}

// assignRanks fills in dense ranks over entries already sorted by
// points descending: ties share a rank, the next distinct total takes
// the following integer.
func assignRanks(entries []*models.LeaderboardEntry) {
	rank := 0
	lastPoints := 0
	for i, entry := range entries {
		if i == 0 || entry.Points != lastPoints {
			rank++
			lastPoints = entry.Points
		}
		entry.Rank = rank
	}
}
