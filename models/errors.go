// models/errors.go - Progression engine error taxonomy
package models

import "errors"

// All engine errors are local, recoverable conditions the UI can react to
// (disable a button, show a message). There is no fatal class here.
var (
	ErrNotAchieved         = errors.New("achievement not yet achieved")
	ErrAlreadyClaimed      = errors.New("achievement reward already claimed")
	ErrTournamentNotActive = errors.New("tournament is not active")
	ErrTournamentNotEnded  = errors.New("tournament has not ended")
	ErrAlreadySettled      = errors.New("tournament already settled")
	ErrUnknownAchievement  = errors.New("unknown achievement")
	ErrUnknownTournament   = errors.New("unknown tournament")
	ErrUnknownPlayer       = errors.New("unknown player")
	ErrUsernameTaken       = errors.New("username already taken")
)
