package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/predictions"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// scoreRaceResponse is the admin scoring trigger's success body
type scoreRaceResponse struct {
	OK                   bool      `json:"ok"`
	RaceID               uuid.UUID `json:"race_id"`
	SeasonID             uuid.UUID `json:"season_id"`
	PredictionSetsScored int       `json:"prediction_sets_scored"`
	QuestionsWithResults int       `json:"questions_with_published_results"`
	Message              string    `json:"message,omitempty"`
}

func (s *Server) handleScoreRace(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raceId")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "raceId query parameter is required")
		return
	}

	raceID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "raceId must be a valid uuid")
		return
	}

	result, err := s.services.Scoring.ScoreRace(r.Context(), raceID)
	if err != nil {
		if errors.Is(err, models.ErrRaceNotFound) {
			writeError(w, http.StatusNotFound, "race not found")
			return
		}
		s.logger.WithError(err).WithField("race_id", raceID).Error("Scoring failed")
		metrics.RecordScoringFailure()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scoreRaceResponse{
		OK:                   true,
		RaceID:               result.RaceID,
		SeasonID:             result.SeasonID,
		PredictionSetsScored: result.PredictionSetsScored,
		QuestionsWithResults: result.QuestionsWithResults,
		Message:              result.Message,
	})
}

func (s *Server) handleSyncCalendar(w http.ResponseWriter, r *http.Request) {
	if s.services.CalendarSync == nil {
		writeError(w, http.StatusNotFound, "calendar sync is disabled")
		return
	}

	year := s.cfg.Calendar.SeasonYear
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := time.Parse("2006", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be a four digit year")
			return
		}
		year = parsed.Year()
	}

	if err := s.services.CalendarSync.SyncSeason(r.Context(), year); err != nil {
		s.logger.WithError(err).WithField("year", year).Error("Calendar sync failed")
		writeError(w, http.StatusInternalServerError, "calendar sync failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "year": year})
}

func (s *Server) handleSubmitPrediction(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req predictions.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.services.Predictions.Submit(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicatePodium),
			errors.Is(err, models.ErrChoiceInvalid),
			errors.Is(err, models.ErrNoUpcomingRace),
			errors.Is(err, models.ErrLockNotConfigured):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrPredictionsLocked):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, models.ErrRaceNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, models.ErrQuestionsMissing):
			s.logger.WithError(err).WithField("user_id", userID).Error("Season questions misconfigured")
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			s.logger.WithError(err).WithField("user_id", userID).Error("Prediction submission failed")
			writeError(w, http.StatusInternalServerError, "submission failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSubmitSeasonPrediction(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req predictions.SubmitSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.services.Predictions.SubmitSeason(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrChoiceInvalid),
			errors.Is(err, models.ErrDuplicateSeasonPick),
			errors.Is(err, models.ErrLockNotConfigured):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrPredictionsLocked):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, models.ErrNoActiveSeason):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, models.ErrQuestionsMissing):
			s.logger.WithError(err).WithField("user_id", userID).Error("Season questions misconfigured")
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			s.logger.WithError(err).WithField("user_id", userID).Error("Season prediction submission failed")
			writeError(w, http.StatusInternalServerError, "submission failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRaces(w http.ResponseWriter, r *http.Request) {
	var seasonID uuid.UUID
	if raw := r.URL.Query().Get("seasonId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "seasonId must be a valid uuid")
			return
		}
		seasonID = parsed
	} else {
		season, err := s.services.Repos.Season.GetActive(r.Context())
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				writeError(w, http.StatusNotFound, "no active season")
				return
			}
			s.logger.WithError(err).Error("Failed to load active season")
			writeError(w, http.StatusInternalServerError, "failed to load races")
			return
		}
		seasonID = season.ID
	}

	races, err := s.services.Repos.Race.GetBySeasonID(r.Context(), seasonID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load races")
		writeError(w, http.StatusInternalServerError, "failed to load races")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"season_id": seasonID,
		"races":     races,
	})
}

func (s *Server) handleNextRace(w http.ResponseWriter, r *http.Request) {
	race, err := s.services.Repos.Race.GetNextInActiveSeason(r.Context(), time.Now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no upcoming race")
			return
		}
		s.logger.WithError(err).Error("Failed to load next race")
		writeError(w, http.StatusInternalServerError, "failed to load next race")
		return
	}

	writeJSON(w, http.StatusOK, race)
}

func (s *Server) handleSeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	var seasonID uuid.UUID
	if raw := r.URL.Query().Get("seasonId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "seasonId must be a valid uuid")
			return
		}
		seasonID = parsed
	} else {
		season, err := s.services.Repos.Season.GetActive(r.Context())
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				writeError(w, http.StatusNotFound, "no active season")
				return
			}
			s.logger.WithError(err).Error("Failed to load active season")
			writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
			return
		}
		seasonID = season.ID
	}

	entries, err := s.services.Leaderboards.Season(r.Context(), seasonID)
	if err != nil {
		s.logger.WithError(err).WithField("season_id", seasonID).Error("Failed to load season leaderboard")
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"season_id": seasonID,
		"entries":   entries,
	})
}

func (s *Server) handleRaceLeaderboard(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raceId")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "raceId query parameter is required")
		return
	}

	raceID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "raceId must be a valid uuid")
		return
	}

	entries, err := s.services.Leaderboards.Race(r.Context(), raceID)
	if err != nil {
		s.logger.WithError(err).WithField("race_id", raceID).Error("Failed to load race leaderboard")
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"race_id": raceID,
		"entries": entries,
	})
}
