package models

import "errors"

// Custom errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrRaceNotFound        = errors.New("race not found")
	ErrNoUpcomingRace      = errors.New("no upcoming race in active season")
	ErrNoActiveSeason      = errors.New("no active season")
	ErrDuplicatePodium     = errors.New("winner, p2 and p3 must be different drivers")
	ErrDuplicateSeasonPick = errors.New("good surprise and big flop cannot be the same pick")
	ErrLockNotConfigured   = errors.New("fp1 start time not configured for this race")
	ErrPredictionsLocked   = errors.New("predictions are locked")
	ErrQuestionsMissing    = errors.New("questions missing for season")
	ErrChoiceInvalid       = errors.New("answer must name exactly one driver or team")
)
